package cache

import (
	"context"
	"strings"
	"testing"

	"github.com/shelfwise/backend-go/internal/config"
	"github.com/shelfwise/backend-go/internal/domain"
)

// Every report key must live under the shared prefix, or the bulk
// invalidation scan would miss it.
func TestReportKeysShareInvalidationPrefix(t *testing.T) {
	for _, userID := range []string{"user-1", "demo-user", "a:b"} {
		key := buildReportKey(userID)
		if !strings.HasPrefix(key, cleanupReportKeyPrefix+":") {
			t.Errorf("buildReportKey(%q) = %q, escapes prefix %q", userID, key, cleanupReportKeyPrefix)
		}
	}
}

func TestDisabledCacheIsNoop(t *testing.T) {
	c, err := NewCleanupReportCache(config.CacheConfig{Enabled: false})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := c.SetReport(ctx, "user-1", &domain.CleanupReport{TotalIssues: 3}); err != nil {
		t.Fatal(err)
	}
	report, ok, err := c.GetReport(ctx, "user-1")
	if err != nil {
		t.Fatal(err)
	}
	if ok || report != nil {
		t.Errorf("noop cache returned a hit: %+v", report)
	}

	if err := c.InvalidateReport(ctx, "user-1"); err != nil {
		t.Fatal(err)
	}
	if err := c.InvalidateAll(ctx); err != nil {
		t.Fatal(err)
	}
}
