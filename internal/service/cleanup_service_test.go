package service

import (
	"context"
	"testing"
	"time"

	"github.com/shelfwise/backend-go/internal/cache"
	"github.com/shelfwise/backend-go/internal/domain"
)

func strPtr(s string) *string { return &s }

func newCleanupFixture() (*CleanupService, *fakeIssueRepo) {
	inventory := &fakeInventoryRepo{items: []domain.InventoryItem{
		{SKU: "MUG-01", Name: "Coffee Mug", Stock: 10, SupplierID: strPtr("sup-1")},
		{SKU: "MUG-02", Name: "Coffee Mugs", Stock: 5, SupplierID: strPtr("sup-1")},
		{SKU: "LAMP-01", Name: "Desk Lamp", Stock: 3},
	}}
	sales := &fakeSalesRepo{records: []domain.SalesRecord{
		{SKU: "MUG-01", Quantity: 2, SoldAt: time.Now().UTC().AddDate(0, 0, -1)},
	}}
	issues := &fakeIssueRepo{}

	svc := NewCleanupService(inventory, sales, issues, cache.NewNoopCleanupReportCache())
	return svc, issues
}

func TestCleanupScanStoresStampedIssues(t *testing.T) {
	svc, repo := newCleanupFixture()

	issues, err := svc.Scan(context.Background(), "user-1")
	if err != nil {
		t.Fatal(err)
	}

	// Duplicate mugs, one missing supplier, two without sales history.
	if len(issues) != 3 {
		t.Fatalf("got %d issues, want 3: %+v", len(issues), issues)
	}
	for _, issue := range issues {
		if issue.ID == "" {
			t.Error("issue id not stamped")
		}
		if issue.UserID != "user-1" {
			t.Errorf("UserID = %q, want user-1", issue.UserID)
		}
		if issue.CreatedAt.IsZero() {
			t.Error("CreatedAt not stamped")
		}
	}
	if len(repo.issues) != 3 {
		t.Fatalf("stored %d issues, want 3", len(repo.issues))
	}
}

func TestCleanupRescanReplacesIssueSet(t *testing.T) {
	svc, repo := newCleanupFixture()
	ctx := context.Background()

	first, err := svc.Scan(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}

	// Resolve everything, then rescan: unresolved issues come back because
	// the underlying data has not changed.
	ids := make([]string, len(first))
	for i, issue := range first {
		ids[i] = issue.ID
	}
	if _, err := svc.Resolve(ctx, "user-1", ids); err != nil {
		t.Fatal(err)
	}

	second, err := svc.Scan(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	for _, issue := range second {
		if issue.Resolved {
			t.Error("rescan must produce fresh unresolved issues")
		}
	}
	if len(repo.issues) != len(second) {
		t.Errorf("stored set size %d != scan result %d", len(repo.issues), len(second))
	}
}

func TestCleanupReportReflectsResolution(t *testing.T) {
	svc, _ := newCleanupFixture()
	ctx := context.Background()

	issues, err := svc.Scan(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}

	report, err := svc.Report(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if !report.BlockingForecasting {
		t.Error("unresolved high/medium issues must block forecasting")
	}

	// Resolve the blocking issues; only the low one remains.
	var blocking []string
	for _, issue := range issues {
		if issue.Severity.Blocking() {
			blocking = append(blocking, issue.ID)
		}
	}
	resolved, err := svc.Resolve(ctx, "user-1", blocking)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != int64(len(blocking)) {
		t.Errorf("resolved %d, want %d", resolved, len(blocking))
	}

	report, err = svc.Report(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if report.BlockingForecasting {
		t.Error("report still blocking after resolving high/medium issues")
	}
	if report.HighUnresolved != 0 || report.MediumUnresolved != 0 {
		t.Errorf("unresolved counts = %d/%d, want 0/0", report.HighUnresolved, report.MediumUnresolved)
	}
}

func TestCleanupIssuesFilter(t *testing.T) {
	svc, _ := newCleanupFixture()
	ctx := context.Background()

	all, err := svc.Scan(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}

	unfiltered, err := svc.Issues(ctx, "user-1", IssueFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(unfiltered) != len(all) {
		t.Fatalf("empty filter returned %d issues, want %d", len(unfiltered), len(all))
	}

	duplicates := domain.IssueDuplicate
	byType, err := svc.Issues(ctx, "user-1", IssueFilter{Type: &duplicates})
	if err != nil {
		t.Fatal(err)
	}
	if len(byType) != 1 || byType[0].Type != domain.IssueDuplicate {
		t.Fatalf("type filter = %+v, want the single duplicate issue", byType)
	}

	high := domain.SeverityHigh
	both, err := svc.Issues(ctx, "user-1", IssueFilter{Type: &duplicates, Severity: &high})
	if err != nil {
		t.Fatal(err)
	}
	for _, issue := range both {
		if issue.Type != domain.IssueDuplicate || issue.Severity != domain.SeverityHigh {
			t.Errorf("combined filter leaked %+v", issue)
		}
	}
}

func TestCleanupResolveUnknownIDs(t *testing.T) {
	svc, _ := newCleanupFixture()
	ctx := context.Background()

	if _, err := svc.Scan(ctx, "user-1"); err != nil {
		t.Fatal(err)
	}

	resolved, err := svc.Resolve(ctx, "user-1", []string{"does-not-exist"})
	if err != nil {
		t.Fatalf("unknown ids must not error: %v", err)
	}
	if resolved != 0 {
		t.Errorf("resolved = %d, want 0", resolved)
	}
}
