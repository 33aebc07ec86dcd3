package recommend

// forecastHealthyDays is the stockout horizon for the daily todo list: items
// further out than this (and not at zero stock) need no attention today.
const forecastHealthyDays = 14

const (
	StatusActionNeeded = "action_needed"
	StatusAllHealthy   = "all_healthy"
)

// DailyTodoList is the dashboard's daily action list. When nothing needs
// attention the list carries an explicit all-healthy status instead of a bare
// empty slice; the UI contract distinguishes "nothing to do" from "no data".
type DailyTodoList struct {
	Status          string           `json:"status"`
	Message         string           `json:"message,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
}

// BuildDailyTodos filters recommendations down to items that need attention
// today: projected stockout within forecastHealthyDays, or already at zero
// stock.
func BuildDailyTodos(recs []Recommendation) DailyTodoList {
	var due []Recommendation
	for _, r := range recs {
		if r.CurrentStock <= 0 || (r.DaysUntilStockout >= 0 && r.DaysUntilStockout <= forecastHealthyDays) {
			due = append(due, r)
		}
	}

	if len(due) == 0 {
		return DailyTodoList{
			Status:          StatusAllHealthy,
			Message:         "All items have healthy stock levels",
			Recommendations: []Recommendation{},
		}
	}

	return DailyTodoList{Status: StatusActionNeeded, Recommendations: due}
}
