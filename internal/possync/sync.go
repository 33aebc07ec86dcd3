// backend-go/internal/possync/sync.go
package possync

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/shelfwise/backend-go/internal/importer"
	"github.com/shelfwise/backend-go/pkg/logger"
)

// FileSource lists and downloads POS exports. DriveClient is the
// production implementation; tests substitute a fake.
type FileSource interface {
	ListExports(folderID string) ([]ExportFile, error)
	Download(fileID string, w io.Writer) error
}

// SyncStatus is a snapshot of the daemon's progress for the status
// endpoint.
type SyncStatus struct {
	LastRun       time.Time `json:"last_run"`
	FilesIngested int       `json:"files_ingested"`
	FilesSkipped  int       `json:"files_skipped"`
	LastError     string    `json:"last_error,omitempty"`
}

// Syncer polls a Drive folder for POS CSV exports and feeds them through
// the importer. Files are classified by name prefix: sales_*.csv and
// inventory_*.csv; anything else is skipped.
type Syncer struct {
	source   FileSource
	importer *importer.Service
	folderID string
	userID   string

	mu     sync.Mutex
	seen   map[string]string // file ID -> modifiedTime already ingested
	status SyncStatus
}

func NewSyncer(source FileSource, imp *importer.Service, folderID, userID string) *Syncer {
	return &Syncer{
		source:   source,
		importer: imp,
		folderID: folderID,
		userID:   userID,
		seen:     make(map[string]string),
	}
}

// Run polls until ctx is cancelled.
func (s *Syncer) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Log.Info().
		Str("folder_id", s.folderID).
		Dur("interval", interval).
		Msg("pos sync started")

	for {
		if err := s.SyncOnce(ctx); err != nil {
			logger.Log.Error().Err(err).Msg("pos sync iteration failed")
		}

		select {
		case <-ctx.Done():
			logger.Log.Info().Msg("pos sync stopped")
			return
		case <-ticker.C:
		}
	}
}

// SyncOnce performs a single poll-and-ingest pass.
func (s *Syncer) SyncOnce(ctx context.Context) error {
	files, err := s.source.ListExports(s.folderID)
	if err != nil {
		s.recordError(err)
		return err
	}

	var ingested, skipped int
	for _, f := range files {
		kind, ok := classify(f.Name)
		if !ok {
			skipped++
			continue
		}

		s.mu.Lock()
		alreadySeen := s.seen[f.ID] == f.ModifiedTime
		s.mu.Unlock()
		if alreadySeen {
			skipped++
			continue
		}

		if err := s.ingest(ctx, f, kind); err != nil {
			logger.Log.Error().Err(err).Str("file", f.Name).Msg("ingest failed")
			s.recordError(err)
			continue
		}

		s.mu.Lock()
		s.seen[f.ID] = f.ModifiedTime
		s.mu.Unlock()
		ingested++
	}

	s.mu.Lock()
	s.status.LastRun = time.Now().UTC()
	s.status.FilesIngested += ingested
	s.status.FilesSkipped += skipped
	s.mu.Unlock()

	if ingested > 0 {
		logger.Log.Info().Int("ingested", ingested).Int("skipped", skipped).Msg("pos sync pass complete")
	}
	return nil
}

func (s *Syncer) ingest(ctx context.Context, f ExportFile, kind importer.Kind) error {
	var buf bytes.Buffer
	if err := s.source.Download(f.ID, &buf); err != nil {
		return err
	}

	_, err := s.importer.Import(ctx, s.userID, kind, f.Name, &buf)
	return err
}

func (s *Syncer) recordError(err error) {
	s.mu.Lock()
	s.status.LastError = err.Error()
	s.mu.Unlock()
}

// Status returns a copy of the current sync status.
func (s *Syncer) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func classify(name string) (importer.Kind, bool) {
	lower := strings.ToLower(name)
	if !strings.HasSuffix(lower, ".csv") {
		return "", false
	}
	switch {
	case strings.HasPrefix(lower, "sales_"):
		return importer.KindSales, true
	case strings.HasPrefix(lower, "inventory_"):
		return importer.KindInventory, true
	default:
		return "", false
	}
}
