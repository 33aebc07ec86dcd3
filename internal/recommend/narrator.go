package recommend

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shelfwise/backend-go/internal/domain"
)

// Days-until-stockout thresholds shared by the rule-based fallback and the
// hard numeric overrides applied on top of LLM output.
const (
	urgentDays = 2
	highDays   = 7
	mediumDays = 10
)

// LLMClient is the narrow completion interface the narrator needs. The
// Anthropic implementation lives in anthropic.go; tests substitute a fake.
type LLMClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Input is everything the narrator knows about one item.
type Input struct {
	Item              domain.InventoryItem
	Forecast          domain.Forecast
	Supplier          *domain.Supplier
	DaysUntilStockout float64 // negative when no stockout is projected
}

// Recommendation is a narrated, prioritized action for one SKU.
type Recommendation struct {
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Action            string          `json:"action"`
	TimelineWarning   string          `json:"timeline_warning,omitempty"`
	Priority          domain.Priority `json:"priority"`
	DaysUntilStockout float64         `json:"days_until_stockout"`
	CurrentStock      int             `json:"current_stock"`
	RecommendedOrder  int             `json:"recommended_order"`
	Source            string          `json:"source"` // "llm" or "rules"
}

// Narrator turns forecast output into human-readable actions. The LLM call is
// best effort: any failure (including a nil client) degrades to the
// deterministic rule-based recommendation, so a slow or broken dependency
// never stalls the recommendation flow.
type Narrator struct {
	llm     LLMClient
	timeout time.Duration
}

func NewNarrator(llm LLMClient, timeout time.Duration) *Narrator {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Narrator{llm: llm, timeout: timeout}
}

// Recommend never fails; it returns either the parsed LLM narration or the
// rule-based fallback.
func (n *Narrator) Recommend(ctx context.Context, in Input) Recommendation {
	if n.llm == nil {
		return n.fallback(in)
	}

	callCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	text, err := n.llm.Complete(callCtx, buildPrompt(in))
	if err != nil {
		log.Warn().Err(err).Str("sku", in.Item.SKU).Msg("llm narration failed, using rule-based fallback")
		return n.fallback(in)
	}

	rec := parseNarration(in, text)
	rec.Priority = overridePriority(rec.Priority, in)

	return rec
}

func buildPrompt(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an inventory advisor for a small retail business.\n\n")
	fmt.Fprintf(&b, "Item: %s (SKU %s)\n", in.Item.Name, in.Item.SKU)
	fmt.Fprintf(&b, "Current stock: %d units\n", in.Forecast.CurrentStock)
	fmt.Fprintf(&b, "Average daily sales: %.2f units\n", in.Forecast.AvgDailySales)
	fmt.Fprintf(&b, "Demand trend: %s\n", in.Forecast.Trend)
	fmt.Fprintf(&b, "%d-day forecast: %.1f units (confidence %.2f)\n",
		in.Forecast.HorizonDays, in.Forecast.ForecastQty, in.Forecast.ConfidenceScore)
	fmt.Fprintf(&b, "Recommended reorder quantity: %d units\n", in.Forecast.RecommendedOrder)
	if in.DaysUntilStockout >= 0 {
		fmt.Fprintf(&b, "Projected stockout in %.0f days\n", in.DaysUntilStockout)
	}
	if in.Supplier != nil {
		fmt.Fprintf(&b, "Supplier: %s (lead time %d days)\n", in.Supplier.Name, in.Supplier.LeadTimeDays)
	} else {
		fmt.Fprintf(&b, "Supplier: not assigned\n")
	}
	b.WriteString("\nWrite a short recommendation: one action sentence, " +
		"a timeline warning if the item risks running out (mention the number of days), " +
		"and a priority word (urgent, high, medium, or low). Plain text only, no markdown.")

	return b.String()
}

var stockoutTimelinePattern = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*days?\b`)

var stockoutKeywords = []string{"stockout", "stock out", "run out", "runs out", "running out", "out of stock", "deplete"}

// parseNarration does best-effort extraction from free text: the first
// sentence becomes the action, any sentence pairing a day count with stockout
// language becomes the timeline warning, and priority comes from keyword
// scanning with a medium default.
func parseNarration(in Input, text string) Recommendation {
	rec := Recommendation{
		SKU:               in.Item.SKU,
		Name:              in.Item.Name,
		Priority:          scanPriority(text),
		DaysUntilStockout: in.DaysUntilStockout,
		CurrentStock:      in.Forecast.CurrentStock,
		RecommendedOrder:  in.Forecast.RecommendedOrder,
		Source:            "llm",
	}

	sentences := splitSentences(text)
	for _, s := range sentences {
		if rec.Action == "" {
			rec.Action = s
			continue
		}
		if rec.TimelineWarning == "" && isTimelineWarning(s) {
			rec.TimelineWarning = s
		}
	}
	if rec.Action == "" {
		rec.Action = strings.TrimSpace(text)
	}
	// The first sentence may itself be the timeline warning.
	if rec.TimelineWarning == "" && isTimelineWarning(rec.Action) {
		rec.TimelineWarning = rec.Action
	}

	return rec
}

func isTimelineWarning(sentence string) bool {
	if !stockoutTimelinePattern.MatchString(sentence) {
		return false
	}
	lower := strings.ToLower(sentence)
	for _, kw := range stockoutKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}

	return false
}

func splitSentences(text string) []string {
	var out []string
	for _, chunk := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '\n'
	}) {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			out = append(out, chunk)
		}
	}

	return out
}

func scanPriority(text string) domain.Priority {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "urgent") || strings.Contains(lower, "immediately") || strings.Contains(lower, "critical"):
		return domain.PriorityUrgent
	case strings.Contains(lower, "high priority") || strings.Contains(lower, "priority: high") || strings.Contains(lower, "order soon"):
		return domain.PriorityHigh
	case strings.Contains(lower, "low priority") || strings.Contains(lower, "priority: low") || strings.Contains(lower, "no action"):
		return domain.PriorityLow
	default:
		return domain.PriorityMedium
	}
}

// overridePriority applies the hard numeric rules that win regardless of what
// the LLM said.
func overridePriority(p domain.Priority, in Input) domain.Priority {
	if in.Forecast.CurrentStock <= 0 {
		return domain.PriorityUrgent
	}
	if in.DaysUntilStockout >= 0 && in.DaysUntilStockout <= urgentDays {
		return domain.PriorityUrgent
	}

	return p
}

// fallback is the deterministic rule-based recommendation used whenever the
// LLM path is unavailable.
func (n *Narrator) fallback(in Input) Recommendation {
	rec := Recommendation{
		SKU:               in.Item.SKU,
		Name:              in.Item.Name,
		Priority:          RulePriority(in.Forecast.CurrentStock, in.DaysUntilStockout),
		DaysUntilStockout: in.DaysUntilStockout,
		CurrentStock:      in.Forecast.CurrentStock,
		RecommendedOrder:  in.Forecast.RecommendedOrder,
		Source:            "rules",
	}

	switch {
	case in.Forecast.CurrentStock <= 0:
		rec.Action = fmt.Sprintf("%s is out of stock; order %d units now", in.Item.Name, in.Forecast.RecommendedOrder)
	case in.Forecast.RecommendedOrder > 0:
		rec.Action = fmt.Sprintf("Order %d units of %s to cover lead time demand", in.Forecast.RecommendedOrder, in.Item.Name)
	default:
		rec.Action = fmt.Sprintf("Stock of %s covers projected demand; no order needed", in.Item.Name)
	}

	if in.DaysUntilStockout >= 0 && in.DaysUntilStockout <= forecastHealthyDays {
		rec.TimelineWarning = fmt.Sprintf("%s will run out of stock in about %.0f days", in.Item.Name, in.DaysUntilStockout)
	}

	return rec
}

// RulePriority maps days-until-stockout to a priority using the same
// thresholds as the numeric overrides. A negative days value means no
// projected stockout.
func RulePriority(currentStock int, daysUntilStockout float64) domain.Priority {
	if currentStock <= 0 {
		return domain.PriorityUrgent
	}
	if daysUntilStockout < 0 {
		return domain.PriorityLow
	}
	switch {
	case daysUntilStockout <= urgentDays:
		return domain.PriorityUrgent
	case daysUntilStockout <= highDays:
		return domain.PriorityHigh
	case daysUntilStockout <= mediumDays:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}
