// backend-go/internal/importer/parser.go
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shelfwise/backend-go/internal/domain"
)

// RowError describes one rejected CSV row. Parsing is row-isolated: a bad
// row is reported, the rest of the file still imports.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

type rowReader struct {
	reader *csv.Reader
	colMap map[string]int
	line   int
}

func newRowReader(r io.Reader, required []string) (*rowReader, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	colMap := make(map[string]int, len(header))
	for i, col := range header {
		colMap[strings.ToLower(strings.TrimSpace(col))] = i
	}

	for _, col := range required {
		if _, ok := colMap[col]; !ok {
			return nil, fmt.Errorf("missing required column: %s", col)
		}
	}

	return &rowReader{reader: reader, colMap: colMap, line: 1}, nil
}

func (r *rowReader) next() ([]string, int, error) {
	record, err := r.reader.Read()
	r.line++
	return record, r.line, err
}

func (r *rowReader) value(record []string, col string) string {
	if idx, ok := r.colMap[col]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

func (r *rowReader) intValue(record []string, col string) (int, error) {
	val := r.value(record, col)
	if val == "" {
		return 0, nil
	}
	// Spreadsheet exports often render integers as "12.0".
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not a number", col, val)
	}
	return int(f), nil
}

func (r *rowReader) floatValue(record []string, col string) (*float64, error) {
	val := r.value(record, col)
	if val == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil, fmt.Errorf("column %s: %q is not a number", col, val)
	}
	return &f, nil
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, "2006-01-02 15:04:05", "01/02/2006"}

func parseDate(val string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, val); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", val)
}

// ParseInventoryCSV parses an inventory export. Required columns: sku,
// name, stock. Optional: supplier_id, unit_cost, lead_time_days.
func ParseInventoryCSV(r io.Reader) ([]domain.InventoryItem, []RowError, error) {
	rows, err := newRowReader(r, []string{"sku", "name", "stock"})
	if err != nil {
		return nil, nil, err
	}

	var items []domain.InventoryItem
	var rowErrs []RowError

	for {
		record, line, err := rows.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: err.Error()})
			continue
		}

		item, err := parseInventoryRow(rows, record)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: err.Error()})
			continue
		}
		items = append(items, item)
	}

	return items, rowErrs, nil
}

func parseInventoryRow(rows *rowReader, record []string) (domain.InventoryItem, error) {
	sku := rows.value(record, "sku")
	if sku == "" {
		return domain.InventoryItem{}, fmt.Errorf("empty sku")
	}

	name := rows.value(record, "name")
	if name == "" {
		return domain.InventoryItem{}, fmt.Errorf("empty name for sku %s", sku)
	}

	stock, err := rows.intValue(record, "stock")
	if err != nil {
		return domain.InventoryItem{}, err
	}

	unitCost, err := rows.floatValue(record, "unit_cost")
	if err != nil {
		return domain.InventoryItem{}, err
	}

	item := domain.InventoryItem{
		SKU:      sku,
		Name:     name,
		Stock:    stock,
		UnitCost: unitCost,
	}

	if supplierID := rows.value(record, "supplier_id"); supplierID != "" {
		item.SupplierID = &supplierID
	}
	if leadTime, err := rows.intValue(record, "lead_time_days"); err != nil {
		return domain.InventoryItem{}, err
	} else if rows.value(record, "lead_time_days") != "" {
		item.LeadTimeDays = &leadTime
	}

	return item, nil
}

// ParseSalesCSV parses a sales export. Required columns: sku, quantity,
// sold_at. Optional: unit_price.
func ParseSalesCSV(r io.Reader) ([]domain.SalesRecord, []RowError, error) {
	rows, err := newRowReader(r, []string{"sku", "quantity", "sold_at"})
	if err != nil {
		return nil, nil, err
	}

	var records []domain.SalesRecord
	var rowErrs []RowError

	for {
		record, line, err := rows.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: err.Error()})
			continue
		}

		sale, err := parseSalesRow(rows, record)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: err.Error()})
			continue
		}
		records = append(records, sale)
	}

	return records, rowErrs, nil
}

// ParseSuppliersCSV parses a supplier list. Required columns: id, name.
// Optional: contact_email, phone, address, lead_time_days. Missing contact
// details are accepted here; the cleanup detectors flag suppliers that
// cannot back a purchase order.
func ParseSuppliersCSV(r io.Reader) ([]domain.Supplier, []RowError, error) {
	rows, err := newRowReader(r, []string{"id", "name"})
	if err != nil {
		return nil, nil, err
	}

	var suppliers []domain.Supplier
	var rowErrs []RowError

	for {
		record, line, err := rows.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: err.Error()})
			continue
		}

		supplier, err := parseSupplierRow(rows, record)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: err.Error()})
			continue
		}
		suppliers = append(suppliers, supplier)
	}

	return suppliers, rowErrs, nil
}

func parseSupplierRow(rows *rowReader, record []string) (domain.Supplier, error) {
	id := rows.value(record, "id")
	if id == "" {
		return domain.Supplier{}, fmt.Errorf("empty id")
	}

	name := rows.value(record, "name")
	if name == "" {
		return domain.Supplier{}, fmt.Errorf("empty name for supplier %s", id)
	}

	leadTime, err := rows.intValue(record, "lead_time_days")
	if err != nil {
		return domain.Supplier{}, err
	}

	return domain.Supplier{
		ID:           id,
		Name:         name,
		ContactEmail: rows.value(record, "contact_email"),
		Phone:        rows.value(record, "phone"),
		Address:      rows.value(record, "address"),
		LeadTimeDays: leadTime,
	}, nil
}

func parseSalesRow(rows *rowReader, record []string) (domain.SalesRecord, error) {
	sku := rows.value(record, "sku")
	if sku == "" {
		return domain.SalesRecord{}, fmt.Errorf("empty sku")
	}

	quantity, err := rows.intValue(record, "quantity")
	if err != nil {
		return domain.SalesRecord{}, err
	}
	if quantity < 0 {
		return domain.SalesRecord{}, fmt.Errorf("negative quantity for sku %s", sku)
	}

	soldAt, err := parseDate(rows.value(record, "sold_at"))
	if err != nil {
		return domain.SalesRecord{}, fmt.Errorf("sku %s: %w", sku, err)
	}

	unitPrice, err := rows.floatValue(record, "unit_price")
	if err != nil {
		return domain.SalesRecord{}, err
	}

	return domain.SalesRecord{
		SKU:       sku,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		SoldAt:    soldAt,
	}, nil
}
