package recommend

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shelfwise/backend-go/internal/domain"
)

type fakeLLM struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testInput(stock int, days float64, recommended int) Input {
	return Input{
		Item: domain.InventoryItem{SKU: "MUG-01", Name: "Coffee Mug"},
		Forecast: domain.Forecast{
			SKU:              "MUG-01",
			CurrentStock:     stock,
			AvgDailySales:    3,
			ForecastQty:      90,
			HorizonDays:      30,
			RecommendedOrder: recommended,
			Trend:            domain.TrendStable,
		},
		DaysUntilStockout: days,
	}
}

func TestRecommendUsesLLM(t *testing.T) {
	llm := &fakeLLM{response: "Order 25 units of Coffee Mug this week. " +
		"It will run out of stock in about 5 days. Priority: high."}
	n := NewNarrator(llm, time.Second)

	rec := n.Recommend(context.Background(), testInput(15, 5, 25))

	if rec.Source != "llm" {
		t.Fatalf("Source = %q, want llm", rec.Source)
	}
	if !strings.Contains(rec.Action, "Order 25 units") {
		t.Errorf("Action = %q, want first sentence of narration", rec.Action)
	}
	if rec.TimelineWarning == "" || !strings.Contains(rec.TimelineWarning, "5 days") {
		t.Errorf("TimelineWarning = %q, want day-count sentence", rec.TimelineWarning)
	}
	if rec.Priority != domain.PriorityHigh {
		t.Errorf("Priority = %v, want high from keyword scan", rec.Priority)
	}
	if len(llm.prompts) != 1 || !strings.Contains(llm.prompts[0], "MUG-01") {
		t.Error("prompt should include the SKU")
	}
}

func TestRecommendFallsBackOnError(t *testing.T) {
	llm := &fakeLLM{err: errors.New("rate limited")}
	n := NewNarrator(llm, time.Second)

	rec := n.Recommend(context.Background(), testInput(15, 5, 25))

	if rec.Source != "rules" {
		t.Fatalf("Source = %q, want rules on LLM failure", rec.Source)
	}
	if rec.Action == "" {
		t.Error("fallback must still produce an action")
	}
	if rec.Priority != domain.PriorityHigh {
		t.Errorf("Priority = %v, want high for 5-day stockout", rec.Priority)
	}
}

func TestRecommendNilClient(t *testing.T) {
	n := NewNarrator(nil, 0)
	rec := n.Recommend(context.Background(), testInput(0, 0, 30))

	if rec.Source != "rules" {
		t.Fatalf("Source = %q, want rules with no client", rec.Source)
	}
	if rec.Priority != domain.PriorityUrgent {
		t.Errorf("Priority = %v, want urgent at zero stock", rec.Priority)
	}
	if !strings.Contains(rec.Action, "out of stock") {
		t.Errorf("Action = %q, want out-of-stock wording", rec.Action)
	}
}

func TestRecommendOverridesLLMPriority(t *testing.T) {
	// LLM says low, but the item stocks out in 1 day: numeric rules win.
	llm := &fakeLLM{response: "No action needed, low priority."}
	n := NewNarrator(llm, time.Second)

	rec := n.Recommend(context.Background(), testInput(3, 1, 10))
	if rec.Priority != domain.PriorityUrgent {
		t.Errorf("Priority = %v, want urgent override for 1-day stockout", rec.Priority)
	}
}

func TestRecommendNoStockoutProjected(t *testing.T) {
	n := NewNarrator(nil, 0)
	rec := n.Recommend(context.Background(), testInput(500, -1, 0))

	if rec.Priority != domain.PriorityLow {
		t.Errorf("Priority = %v, want low with no projected stockout", rec.Priority)
	}
	if rec.TimelineWarning != "" {
		t.Errorf("TimelineWarning = %q, want empty with no stockout", rec.TimelineWarning)
	}
}

func TestRulePriority(t *testing.T) {
	tests := []struct {
		name  string
		stock int
		days  float64
		want  domain.Priority
	}{
		{"zero stock", 0, 100, domain.PriorityUrgent},
		{"one day", 10, 1, domain.PriorityUrgent},
		{"boundary two days", 10, 2, domain.PriorityUrgent},
		{"five days", 10, 5, domain.PriorityHigh},
		{"boundary seven days", 10, 7, domain.PriorityHigh},
		{"nine days", 10, 9, domain.PriorityMedium},
		{"boundary ten days", 10, 10, domain.PriorityMedium},
		{"far out", 10, 45, domain.PriorityLow},
		{"no stockout", 10, -1, domain.PriorityLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RulePriority(tt.stock, tt.days); got != tt.want {
				t.Errorf("RulePriority(%d, %v) = %v, want %v", tt.stock, tt.days, got, tt.want)
			}
		})
	}
}

func TestIsTimelineWarning(t *testing.T) {
	tests := []struct {
		sentence string
		want     bool
	}{
		{"The item will run out of stock in 5 days", true},
		{"Expect a stockout within 3 days", true},
		{"Order more in 5 days", false},              // no stockout language
		{"It is running out of stock soon", false},   // no day count
		{"Delivery takes 14 days from the supplier", false},
	}

	for _, tt := range tests {
		if got := isTimelineWarning(tt.sentence); got != tt.want {
			t.Errorf("isTimelineWarning(%q) = %v, want %v", tt.sentence, got, tt.want)
		}
	}
}
