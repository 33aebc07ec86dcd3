// backend-go/internal/repository/postgres/inventory_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/shelfwise/backend-go/internal/domain"
	"github.com/shelfwise/backend-go/internal/repository"
)

type inventoryRepository struct {
	db *DB
}

func NewInventoryRepository(db *DB) repository.InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) ListItems(ctx context.Context, userID string) ([]domain.InventoryItem, error) {
	query := `
		SELECT id, user_id, sku, name, stock, supplier_id, unit_cost, lead_time_days, created_at, updated_at
		FROM inventory_items
		WHERE user_id = $1
		ORDER BY sku`

	items := []domain.InventoryItem{}
	if err := r.db.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	return items, nil
}

func (r *inventoryRepository) GetItem(ctx context.Context, userID, sku string) (*domain.InventoryItem, error) {
	query := `
		SELECT id, user_id, sku, name, stock, supplier_id, unit_cost, lead_time_days, created_at, updated_at
		FROM inventory_items
		WHERE user_id = $1 AND sku = $2`

	var item domain.InventoryItem
	if err := r.db.GetContext(ctx, &item, query, userID, sku); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item %s: %w", sku, err)
	}
	return &item, nil
}

func (r *inventoryRepository) UpsertItems(ctx context.Context, userID string, items []domain.InventoryItem) error {
	if len(items) == 0 {
		return nil
	}

	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO inventory_items (user_id, sku, name, stock, supplier_id, unit_cost, lead_time_days, created_at, updated_at)
			VALUES (:user_id, :sku, :name, :stock, :supplier_id, :unit_cost, :lead_time_days, NOW(), NOW())
			ON CONFLICT (user_id, sku) DO UPDATE SET
				name = EXCLUDED.name,
				stock = EXCLUDED.stock,
				supplier_id = EXCLUDED.supplier_id,
				unit_cost = EXCLUDED.unit_cost,
				lead_time_days = EXCLUDED.lead_time_days,
				updated_at = NOW()`

		for i := range items {
			items[i].UserID = userID
			if _, err := tx.NamedExecContext(ctx, query, items[i]); err != nil {
				return fmt.Errorf("upsert inventory item %s: %w", items[i].SKU, err)
			}
		}
		return nil
	})
}
