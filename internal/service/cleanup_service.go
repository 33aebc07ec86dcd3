// backend-go/internal/service/cleanup_service.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shelfwise/backend-go/internal/cache"
	"github.com/shelfwise/backend-go/internal/cleanup"
	"github.com/shelfwise/backend-go/internal/domain"
	"github.com/shelfwise/backend-go/internal/repository"
	"github.com/shelfwise/backend-go/pkg/logger"
)

// CleanupService runs the data-quality detectors over a user's inventory
// and maintains the persisted issue list and its cached report.
type CleanupService struct {
	inventory repository.InventoryRepository
	sales     repository.SalesRepository
	issues    repository.IssueRepository
	cache     cache.CleanupReportCache

	mu    sync.Mutex
	scans map[string]*sync.Mutex
}

func NewCleanupService(
	inventory repository.InventoryRepository,
	sales repository.SalesRepository,
	issues repository.IssueRepository,
	reportCache cache.CleanupReportCache,
) *CleanupService {
	return &CleanupService{
		inventory: inventory,
		sales:     sales,
		issues:    issues,
		cache:     reportCache,
		scans:     make(map[string]*sync.Mutex),
	}
}

// userLock serializes scans per user. Concurrent rescans would otherwise
// race on the delete-and-insert of the issue set.
func (s *CleanupService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.scans[userID]
	if !ok {
		lock = &sync.Mutex{}
		s.scans[userID] = lock
	}
	return lock
}

// Scan re-runs all detectors and replaces the user's issue set. Issues
// resolved in a previous scan do not survive: a rescan reflects the data
// as it is now.
func (s *CleanupService) Scan(ctx context.Context, userID string) ([]domain.CleanupIssue, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	items, err := s.inventory.ListItems(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}

	sales, err := s.sales.ListSales(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}

	issues := cleanup.Scan(items, sales)
	now := time.Now().UTC()
	for i := range issues {
		issues[i].ID = uuid.NewString()
		issues[i].UserID = userID
		issues[i].CreatedAt = now
	}

	if err := s.issues.ReplaceIssues(ctx, userID, issues); err != nil {
		return nil, fmt.Errorf("store issues: %w", err)
	}

	if err := s.cache.InvalidateReport(ctx, userID); err != nil {
		logger.Log.Warn().Err(err).Str("user_id", userID).Msg("invalidate cleanup report cache")
	}

	logger.Log.Info().
		Str("user_id", userID).
		Int("items", len(items)).
		Int("issues", len(issues)).
		Msg("cleanup scan complete")

	return issues, nil
}

// IssueFilter narrows the issue list. Nil fields match everything.
type IssueFilter struct {
	Type     *domain.IssueType
	Severity *domain.Severity
}

func (f IssueFilter) matches(issue domain.CleanupIssue) bool {
	if f.Type != nil && issue.Type != *f.Type {
		return false
	}
	if f.Severity != nil && issue.Severity != *f.Severity {
		return false
	}
	return true
}

// Issues returns the stored issue set from the last scan, narrowed by the
// filter.
func (s *CleanupService) Issues(ctx context.Context, userID string, filter IssueFilter) ([]domain.CleanupIssue, error) {
	issues, err := s.issues.ListIssues(ctx, userID)
	if err != nil {
		return nil, err
	}

	if filter.Type == nil && filter.Severity == nil {
		return issues, nil
	}

	filtered := make([]domain.CleanupIssue, 0, len(issues))
	for _, issue := range issues {
		if filter.matches(issue) {
			filtered = append(filtered, issue)
		}
	}
	return filtered, nil
}

// Report summarizes the stored issue set, serving from cache when fresh.
func (s *CleanupService) Report(ctx context.Context, userID string) (*domain.CleanupReport, error) {
	if cached, ok, err := s.cache.GetReport(ctx, userID); err != nil {
		logger.Log.Warn().Err(err).Str("user_id", userID).Msg("cleanup report cache read")
	} else if ok {
		return cached, nil
	}

	issues, err := s.issues.ListIssues(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load issues: %w", err)
	}

	report := cleanup.BuildReport(issues)
	if err := s.cache.SetReport(ctx, userID, &report); err != nil {
		logger.Log.Warn().Err(err).Str("user_id", userID).Msg("cleanup report cache write")
	}
	return &report, nil
}

// Resolve marks the given issues resolved and returns the count actually
// flipped. Unknown or already-resolved ids are skipped, not errors.
func (s *CleanupService) Resolve(ctx context.Context, userID string, ids []string) (int64, error) {
	resolved, err := s.issues.ResolveIssues(ctx, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("resolve issues: %w", err)
	}

	if resolved > 0 {
		if err := s.cache.InvalidateReport(ctx, userID); err != nil {
			logger.Log.Warn().Err(err).Str("user_id", userID).Msg("invalidate cleanup report cache")
		}
	}
	return resolved, nil
}
