// Package importer reads customer rows from uploaded spreadsheets.
package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/garyjia/luxegem-ledger/internal/application/port"
	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/garyjia/luxegem-ledger/internal/domain/money"
	"github.com/garyjia/luxegem-ledger/pkg/utils"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

type column int

const (
	colFullName column = iota
	colMobile
	colEmail
	colAddress
	colCity
	colState
	colPincode
	colGST
	colNotes
	colCreditLimit
)

// headerAliases maps normalized header text to a column.
var headerAliases = map[string]column{
	"full name":     colFullName,
	"name":          colFullName,
	"customer name": colFullName,
	"mobile":        colMobile,
	"mobile number": colMobile,
	"phone":         colMobile,
	"email":         colEmail,
	"address":       colAddress,
	"city":          colCity,
	"state":         colState,
	"pincode":       colPincode,
	"pin code":      colPincode,
	"gst":           colGST,
	"gst number":    colGST,
	"gstin":         colGST,
	"notes":         colNotes,
	"credit limit":  colCreditLimit,
}

// XLSXReader implements port.CustomerSheetReader for .xlsx workbooks. The
// first sheet is read; its first row must hold the column headers.
type XLSXReader struct {
	logger *zap.Logger
}

// NewXLSXReader creates a new spreadsheet reader
func NewXLSXReader(logger *zap.Logger) *XLSXReader {
	return &XLSXReader{logger: logger}
}

// ReadCustomers returns one CustomerFields per non-blank data row. Values
// are passed through as written; validation happens when they are imported.
func (r *XLSXReader) ReadCustomers(ctx context.Context, path string) ([]entity.CustomerFields, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []entity.CustomerFields{}, nil
	}

	columns, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	customers := make([]entity.CustomerFields, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isBlank(row) {
			continue
		}

		fields, err := toFields(row, columns)
		if err != nil {
			// header row is row 1
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		customers = append(customers, fields)
	}

	r.logger.Info("Customer sheet read",
		zap.String("path", path),
		zap.String("sheet", sheets[0]),
		zap.Int("rows", len(customers)))
	return customers, nil
}

func mapHeader(header []string) (map[column]int, error) {
	columns := make(map[column]int)
	for i, cell := range header {
		key := strings.ToLower(strings.Join(strings.Fields(cell), " "))
		col, ok := headerAliases[key]
		if !ok {
			continue
		}
		if _, seen := columns[col]; !seen {
			columns[col] = i
		}
	}
	if _, ok := columns[colFullName]; !ok {
		return nil, fmt.Errorf("sheet has no Full Name column")
	}
	return columns, nil
}

func toFields(row []string, columns map[column]int) (entity.CustomerFields, error) {
	cell := func(col column) string {
		i, ok := columns[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(utils.SanitizeString(row[i]))
	}

	fields := entity.CustomerFields{
		FullName:     cell(colFullName),
		MobileNumber: cell(colMobile),
		Email:        cell(colEmail),
		Address:      cell(colAddress),
		City:         cell(colCity),
		State:        cell(colState),
		Pincode:      cell(colPincode),
		GSTNumber:    cell(colGST),
		Notes:        cell(colNotes),
	}

	if raw := cell(colCreditLimit); raw != "" {
		raw = strings.NewReplacer(",", "", "₹", "").Replace(raw)
		limit, err := money.ParseMoney(raw)
		if err != nil {
			return entity.CustomerFields{}, entity.NewValidationError("creditLimit", "must be a number")
		}
		fields.CreditLimit = limit
	}
	return fields, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

var _ port.CustomerSheetReader = (*XLSXReader)(nil)
