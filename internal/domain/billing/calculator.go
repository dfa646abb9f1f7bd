// Package billing computes the monetary breakdown of invoice line items.
//
// Every derived amount is rounded half-up to paise as soon as it is produced,
// so invoice totals are always the exact sum of the per-line amounts.
package billing

import (
	"math"

	"github.com/garyjia/luxegem-ledger/internal/domain/entity"
	"github.com/garyjia/luxegem-ledger/internal/domain/money"
	"github.com/shopspring/decimal"
)

// LineBreakdown is the computed breakdown of one line item.
type LineBreakdown struct {
	Index       int              `json:"index"`
	Description string           `json:"description"`
	MetalType   entity.MetalType `json:"metal_type"`
	Weight      money.Weight     `json:"weight_grams"`
	Base        money.Money      `json:"base_amount"`
	Making      money.Money      `json:"making_charge_amount"`
	Taxable     money.Money      `json:"taxable_amount"`
	GST         money.Money      `json:"gst_amount"`
	LineTotal   money.Money      `json:"line_total"`
}

// InvoiceTotals is the computed breakdown of a whole invoice.
type InvoiceTotals struct {
	Lines    []LineBreakdown `json:"lines"`
	Gross    money.Money     `json:"gross_amount"`
	TotalGST money.Money     `json:"total_gst"`
	Discount money.Money     `json:"discount"`
	Net      money.Money     `json:"net_amount"`
}

// ComputeLineItem derives the base, making charge, taxable, GST and total
// amounts for a single item. index is only used to label validation errors.
func ComputeLineItem(index int, item entity.LineItem) (LineBreakdown, error) {
	if err := validateLineItem(index, item); err != nil {
		return LineBreakdown{}, err
	}

	weight, err := money.WeightFromGramsChecked(item.WeightGrams)
	if err != nil {
		return LineBreakdown{}, outOfRange("weightGrams", index)
	}
	base, err := money.FromDecimalChecked(item.WeightGrams.Mul(item.RatePerGram))
	if err != nil {
		return LineBreakdown{}, outOfRange("weightGrams", index)
	}
	making, err := percentOf(base, item.MakingChargePercent)
	if err != nil {
		return LineBreakdown{}, outOfRange("makingChargePercent", index)
	}
	taxable, err := base.CheckedAdd(making)
	if err != nil {
		return LineBreakdown{}, outOfRange("makingChargePercent", index)
	}
	gst, err := percentOf(taxable, item.GSTPercent)
	if err != nil {
		return LineBreakdown{}, outOfRange("gstPercent", index)
	}
	lineTotal, err := taxable.CheckedAdd(gst)
	if err != nil {
		return LineBreakdown{}, outOfRange("gstPercent", index)
	}

	return LineBreakdown{
		Index:       index,
		Description: item.Description,
		MetalType:   item.MetalType,
		Weight:      weight,
		Base:        base,
		Making:      making,
		Taxable:     taxable,
		GST:         gst,
		LineTotal:   lineTotal,
	}, nil
}

// ComputeInvoiceTotals computes every line and sums them. The discount is
// subtracted from gross plus GST and may not exceed it.
func ComputeInvoiceTotals(items []entity.LineItem, discount money.Money) (InvoiceTotals, error) {
	if discount.IsNegative() {
		return InvoiceTotals{}, entity.NewValidationError("discount", "must not be negative")
	}

	totals := InvoiceTotals{
		Lines:    make([]LineBreakdown, 0, len(items)),
		Discount: discount,
	}
	for i, item := range items {
		line, err := ComputeLineItem(i, item)
		if err != nil {
			return InvoiceTotals{}, err
		}
		totals.Lines = append(totals.Lines, line)

		if totals.Gross, err = totals.Gross.CheckedAdd(line.Taxable); err != nil {
			return InvoiceTotals{}, entity.NewValidationError("items", "invoice total out of range")
		}
		if totals.TotalGST, err = totals.TotalGST.CheckedAdd(line.GST); err != nil {
			return InvoiceTotals{}, entity.NewValidationError("items", "invoice total out of range")
		}
	}

	payable, err := totals.Gross.CheckedAdd(totals.TotalGST)
	if err != nil {
		return InvoiceTotals{}, entity.NewValidationError("items", "invoice total out of range")
	}
	if discount > payable {
		return InvoiceTotals{}, entity.NewValidationError("discount", "exceeds gross amount plus GST")
	}
	totals.Net = payable.Sub(discount)
	return totals, nil
}

// DecimalFromFloat converts a float input to a decimal, rejecting NaN and
// infinities with a ValidationError for the given field and line index.
func DecimalFromFloat(field string, index int, f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, &entity.ValidationError{Field: field, Index: index, Reason: "must be a finite number"}
	}
	return decimal.NewFromFloat(f), nil
}

func percentOf(amount money.Money, percent decimal.Decimal) (money.Money, error) {
	return money.FromDecimalChecked(amount.Decimal().Mul(percent).Shift(-2))
}

func outOfRange(field string, index int) error {
	return &entity.ValidationError{Field: field, Index: index, Reason: "amount out of range"}
}

func validateLineItem(index int, item entity.LineItem) error {
	if item.MetalType != "" && !item.MetalType.IsValid() {
		return &entity.ValidationError{Field: "metalType", Index: index, Reason: "unknown metal type " + string(item.MetalType)}
	}

	checks := []struct {
		field string
		value decimal.Decimal
	}{
		{"weightGrams", item.WeightGrams},
		{"ratePerGram", item.RatePerGram},
		{"makingChargePercent", item.MakingChargePercent},
		{"gstPercent", item.GSTPercent},
	}
	for _, c := range checks {
		if c.value.IsNegative() {
			return &entity.ValidationError{Field: c.field, Index: index, Reason: "must not be negative"}
		}
	}
	return nil
}
