package cleanup

import "github.com/shelfwise/backend-go/internal/domain"

// BuildReport summarizes stored issues into a CleanupReport. The forecasting
// gate recomputes purely from the rows it is given; it never re-runs
// detection. An empty issue set is vacuously clean: 100% complete and not
// blocking.
func BuildReport(issues []domain.CleanupIssue) domain.CleanupReport {
	report := domain.CleanupReport{
		IssuesByType:         make(map[domain.IssueType]int),
		CompletionPercentage: 100,
	}

	for _, issue := range issues {
		report.TotalIssues++
		report.IssuesByType[issue.Type]++

		if issue.Resolved {
			report.ResolvedIssues++
			continue
		}

		switch issue.Severity {
		case domain.SeverityHigh:
			report.HighUnresolved++
		case domain.SeverityMedium:
			report.MediumUnresolved++
		}
		if issue.Severity.Blocking() {
			report.BlockingForecasting = true
		}
	}

	if report.TotalIssues > 0 {
		report.CompletionPercentage = float64(report.ResolvedIssues) / float64(report.TotalIssues) * 100
	}

	return report
}
