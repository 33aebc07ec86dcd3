// backend-go/internal/importer/importer.go
package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shelfwise/backend-go/internal/repository"
	"github.com/shelfwise/backend-go/internal/storage"
	"github.com/shelfwise/backend-go/pkg/logger"
)

// Kind selects which parser an uploaded file goes through.
type Kind string

const (
	KindInventory Kind = "inventory"
	KindSales     Kind = "sales"
	KindSuppliers Kind = "suppliers"
)

// Result summarizes one import: rows written, rejected rows, and where
// the raw file was archived.
type Result struct {
	Kind       Kind       `json:"kind"`
	Imported   int        `json:"imported"`
	RowErrors  []RowError `json:"row_errors,omitempty"`
	ArchiveKey string     `json:"archive_key,omitempty"`
}

// Service ingests CSV uploads into the inventory, sales and supplier
// tables and archives the raw file for audit.
type Service struct {
	inventory repository.InventoryRepository
	sales     repository.SalesRepository
	suppliers repository.SupplierRepository
	archive   storage.ObjectStorage
}

func NewService(
	inventory repository.InventoryRepository,
	sales repository.SalesRepository,
	suppliers repository.SupplierRepository,
	archive storage.ObjectStorage,
) *Service {
	return &Service{inventory: inventory, sales: sales, suppliers: suppliers, archive: archive}
}

// Import parses and stores one uploaded CSV. Row-level failures are
// reported in the result, not fatal; a header-level failure is.
func (s *Service) Import(ctx context.Context, userID string, kind Kind, filename string, r io.Reader) (*Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	result := &Result{Kind: kind}

	switch kind {
	case KindInventory:
		items, rowErrs, err := ParseInventoryCSV(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		if err := s.inventory.UpsertItems(ctx, userID, items); err != nil {
			return nil, fmt.Errorf("store inventory: %w", err)
		}
		result.Imported = len(items)
		result.RowErrors = rowErrs

	case KindSales:
		records, rowErrs, err := ParseSalesCSV(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		if err := s.sales.InsertSales(ctx, userID, records); err != nil {
			return nil, fmt.Errorf("store sales: %w", err)
		}
		result.Imported = len(records)
		result.RowErrors = rowErrs

	case KindSuppliers:
		suppliers, rowErrs, err := ParseSuppliersCSV(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		for i := range suppliers {
			suppliers[i].UserID = userID
			if err := s.suppliers.UpsertSupplier(ctx, &suppliers[i]); err != nil {
				return nil, fmt.Errorf("store supplier %s: %w", suppliers[i].ID, err)
			}
		}
		result.Imported = len(suppliers)
		result.RowErrors = rowErrs

	default:
		return nil, fmt.Errorf("unknown import kind %q", kind)
	}

	key := archiveKey(userID, kind, filename, time.Now().UTC())
	if err := s.archive.PutObject(ctx, key, raw, "text/csv"); err != nil {
		// Archival is best effort; the rows are already stored.
		logger.Log.Warn().Err(err).Str("key", key).Msg("archive upload failed")
	} else {
		result.ArchiveKey = key
	}

	logger.Log.Info().
		Str("user_id", userID).
		Str("kind", string(kind)).
		Int("imported", result.Imported).
		Int("rejected", len(result.RowErrors)).
		Msg("import complete")

	return result, nil
}

// ListArchive lists the user's archived import files.
func (s *Service) ListArchive(ctx context.Context, userID string) ([]storage.ObjectInfo, error) {
	objects, err := s.archive.ListObjects(ctx, archivePrefix(userID))
	if err != nil {
		return nil, fmt.Errorf("list archive: %w", err)
	}
	return objects, nil
}

// OpenArchive streams one archived import file back. The key must belong
// to the requesting user; keys outside their prefix are refused.
func (s *Service) OpenArchive(ctx context.Context, userID, key string) (io.ReadCloser, error) {
	if !strings.HasPrefix(key, archivePrefix(userID)) {
		return nil, fmt.Errorf("archive key %q does not belong to user", key)
	}
	return s.archive.GetObject(ctx, key)
}

func archivePrefix(userID string) string {
	return fmt.Sprintf("imports/%s/", userID)
}

func archiveKey(userID string, kind Kind, filename string, now time.Time) string {
	return fmt.Sprintf("%s%s/%s_%s", archivePrefix(userID), kind, now.Format("20060102T150405Z"), filename)
}
