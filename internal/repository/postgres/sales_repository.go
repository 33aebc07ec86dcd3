// backend-go/internal/repository/postgres/sales_repository.go
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shelfwise/backend-go/internal/domain"
	"github.com/shelfwise/backend-go/internal/repository"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) repository.SalesRepository {
	return &salesRepository{db: db}
}

func (r *salesRepository) ListSales(ctx context.Context, userID string) ([]domain.SalesRecord, error) {
	query := `
		SELECT id, user_id, sku, quantity, unit_price, sold_at, created_at
		FROM sales_records
		WHERE user_id = $1
		ORDER BY sold_at`

	records := []domain.SalesRecord{}
	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return records, nil
}

func (r *salesRepository) ListSalesBySKU(ctx context.Context, userID, sku string) ([]domain.SalesRecord, error) {
	query := `
		SELECT id, user_id, sku, quantity, unit_price, sold_at, created_at
		FROM sales_records
		WHERE user_id = $1 AND sku = $2
		ORDER BY sold_at`

	records := []domain.SalesRecord{}
	if err := r.db.SelectContext(ctx, &records, query, userID, sku); err != nil {
		return nil, fmt.Errorf("list sales for %s: %w", sku, err)
	}
	return records, nil
}

func (r *salesRepository) InsertSales(ctx context.Context, userID string, records []domain.SalesRecord) error {
	if len(records) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO sales_records (user_id, sku, quantity, unit_price, sold_at, created_at)
			VALUES (:user_id, :sku, :quantity, :unit_price, :sold_at, NOW())`

		for i := range records {
			records[i].UserID = userID
			if _, err := tx.NamedExecContext(ctx, query, records[i]); err != nil {
				return fmt.Errorf("insert sale for %s: %w", records[i].SKU, err)
			}
		}
		return nil
	})
}
