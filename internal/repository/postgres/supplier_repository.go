// backend-go/internal/repository/postgres/supplier_repository.go
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shelfwise/backend-go/internal/domain"
	"github.com/shelfwise/backend-go/internal/repository"
)

type supplierRepository struct {
	db *DB
}

func NewSupplierRepository(db *DB) repository.SupplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) ListSuppliers(ctx context.Context, userID string) ([]domain.Supplier, error) {
	query := `
		SELECT id, user_id, name, contact_email, phone, address, lead_time_days, created_at, updated_at
		FROM suppliers
		WHERE user_id = $1
		ORDER BY name`

	suppliers := []domain.Supplier{}
	if err := r.db.SelectContext(ctx, &suppliers, query, userID); err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	return suppliers, nil
}

func (r *supplierRepository) GetSupplier(ctx context.Context, userID, id string) (*domain.Supplier, error) {
	query := `
		SELECT id, user_id, name, contact_email, phone, address, lead_time_days, created_at, updated_at
		FROM suppliers
		WHERE user_id = $1 AND id = $2`

	var supplier domain.Supplier
	if err := r.db.GetContext(ctx, &supplier, query, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get supplier %s: %w", id, err)
	}
	return &supplier, nil
}

func (r *supplierRepository) UpsertSupplier(ctx context.Context, supplier *domain.Supplier) error {
	query := `
		INSERT INTO suppliers (id, user_id, name, contact_email, phone, address, lead_time_days, created_at, updated_at)
		VALUES (:id, :user_id, :name, :contact_email, :phone, :address, :lead_time_days, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			contact_email = EXCLUDED.contact_email,
			phone = EXCLUDED.phone,
			address = EXCLUDED.address,
			lead_time_days = EXCLUDED.lead_time_days,
			updated_at = NOW()`

	if _, err := r.db.NamedExecContext(ctx, query, supplier); err != nil {
		return fmt.Errorf("upsert supplier %s: %w", supplier.ID, err)
	}
	return nil
}
