package domain

import "strings"

// IssueType classifies a cleanup finding.
type IssueType string

const (
	IssueDuplicate       IssueType = "duplicate"
	IssueMissingSupplier IssueType = "missing_supplier"
	IssueNoSalesHistory  IssueType = "no_sales_history"
)

// Severity ranks how strongly an issue degrades forecast inputs.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Blocking reports whether an unresolved issue of this severity disables
// forecast generation. Low-severity issues never block.
func (s Severity) Blocking() bool {
	return s == SeverityHigh || s == SeverityMedium
}

// Trend is the direction of recent demand.
type Trend string

const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Priority labels a recommendation by how soon action is needed.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

var priorityRanks = map[Priority]int{
	PriorityUrgent: 0,
	PriorityHigh:   1,
	PriorityMedium: 2,
	PriorityLow:    3,
}

// Rank orders priorities most-urgent-first for sorting. Unknown values
// sort last.
func (p Priority) Rank() int {
	if rank, ok := priorityRanks[p]; ok {
		return rank
	}
	return len(priorityRanks)
}

// Urgency ranks a reorder line inside a supplier group. Derived from
// days-until-stockout independently of any narrated priority.
type Urgency string

const (
	UrgencyHigh   Urgency = "high"
	UrgencyMedium Urgency = "medium"
	UrgencyLow    Urgency = "low"
)

var severities = map[string]Severity{
	"high":   SeverityHigh,
	"medium": SeverityMedium,
	"low":    SeverityLow,
}

// ParseSeverity returns the severity for a label (case-insensitive).
func ParseSeverity(label string) (Severity, bool) {
	s, ok := severities[strings.ToLower(strings.TrimSpace(label))]

	return s, ok
}

var issueTypes = map[string]IssueType{
	"duplicate":        IssueDuplicate,
	"missing_supplier": IssueMissingSupplier,
	"no_sales_history": IssueNoSalesHistory,
}

// ParseIssueType returns the issue type for a label (case-insensitive).
func ParseIssueType(label string) (IssueType, bool) {
	t, ok := issueTypes[strings.ToLower(strings.TrimSpace(label))]

	return t, ok
}
