// backend-go/cmd/seed/fixtures.go
package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// nullIfEmpty returns NULL if the string is empty, otherwise returns the string
func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func runFixtures(ctx context.Context, db *sql.DB, dataDir, userID string) error {
	loaders := []struct {
		file string
		load func(context.Context, *sql.DB, string, [][]string) (int, error)
	}{
		{"suppliers.csv", loadSuppliers},
		{"inventory.csv", loadInventory},
		{"sales.csv", loadSales},
	}

	for _, l := range loaders {
		path := filepath.Join(dataDir, l.file)
		rows, err := readCSV(path)
		if os.IsNotExist(err) {
			log.Printf("skipping %s: not found", l.file)
			continue
		}
		if err != nil {
			return err
		}

		n, err := l.load(ctx, db, userID, rows)
		if err != nil {
			return fmt.Errorf("load %s: %w", l.file, err)
		}
		log.Printf("loaded %d rows from %s", n, l.file)
	}

	return nil
}

// readCSV returns data rows keyed positionally after lowercasing and
// validating the header in the caller's loader.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		rows = append(rows, record)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}
	return rows, nil
}

func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, col := range header {
		idx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return idx
}

func field(row []string, idx map[string]int, col string) string {
	if i, ok := idx[col]; ok && i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func loadSuppliers(ctx context.Context, db *sql.DB, userID string, rows [][]string) (int, error) {
	idx := columnIndex(rows[0])

	var n int
	for _, row := range rows[1:] {
		leadTime, _ := strconv.Atoi(field(row, idx, "lead_time_days"))
		_, err := db.ExecContext(ctx, `
			INSERT INTO suppliers (id, user_id, name, contact_email, phone, address, lead_time_days)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (id) DO NOTHING`,
			field(row, idx, "id"), userID,
			field(row, idx, "name"), field(row, idx, "contact_email"),
			field(row, idx, "phone"), field(row, idx, "address"), leadTime,
		)
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func loadInventory(ctx context.Context, db *sql.DB, userID string, rows [][]string) (int, error) {
	idx := columnIndex(rows[0])

	var n int
	for _, row := range rows[1:] {
		stock, _ := strconv.Atoi(field(row, idx, "stock"))

		var unitCost sql.NullFloat64
		if v := field(row, idx, "unit_cost"); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return n, fmt.Errorf("bad unit_cost %q", v)
			}
			unitCost = sql.NullFloat64{Float64: f, Valid: true}
		}

		var leadTime sql.NullInt64
		if v := field(row, idx, "lead_time_days"); v != "" {
			i, err := strconv.Atoi(v)
			if err != nil {
				return n, fmt.Errorf("bad lead_time_days %q", v)
			}
			leadTime = sql.NullInt64{Int64: int64(i), Valid: true}
		}

		_, err := db.ExecContext(ctx, `
			INSERT INTO inventory_items (user_id, sku, name, stock, supplier_id, unit_cost, lead_time_days)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (user_id, sku) DO NOTHING`,
			userID, field(row, idx, "sku"), field(row, idx, "name"), stock,
			nullIfEmpty(field(row, idx, "supplier_id")), unitCost, leadTime,
		)
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func loadSales(ctx context.Context, db *sql.DB, userID string, rows [][]string) (int, error) {
	idx := columnIndex(rows[0])

	var n int
	for _, row := range rows[1:] {
		quantity, _ := strconv.Atoi(field(row, idx, "quantity"))

		var unitPrice sql.NullFloat64
		if v := field(row, idx, "unit_price"); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return n, fmt.Errorf("bad unit_price %q", v)
			}
			unitPrice = sql.NullFloat64{Float64: f, Valid: true}
		}

		_, err := db.ExecContext(ctx, `
			INSERT INTO sales_records (user_id, sku, quantity, unit_price, sold_at)
			VALUES ($1, $2, $3, $4, $5)`,
			userID, field(row, idx, "sku"), quantity, unitPrice, field(row, idx, "sold_at"),
		)
		if err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
