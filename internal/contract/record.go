// Package contract defines the normalized contract record produced by the
// pipeline and consumed by rendering and export.
package contract

import (
	"time"

	"github.com/shopspring/decimal"
)

// Missing is the marker rendered for fields the upstream API did not
// provide (or provided in a form that could not be coerced).
const Missing = "-"

// DateLayout is the calendar date format used for rendering and export.
const DateLayout = "2006-01-02"

// Record is the flat, stable shape every raw API contract is normalized
// into. Nil means the upstream record had no usable value for the field;
// the column still exists so every result table has the same shape.
type Record struct {
	ContractNumber      *string          `json:"contract_number"`
	ObjectDescription   *string          `json:"object_description"`
	Status              *string          `json:"status"`
	InitialValue        *decimal.Decimal `json:"initial_value"`
	FinalValue          *decimal.Decimal `json:"final_value"`
	ValidityStart       *time.Time       `json:"validity_start"`
	ValidityEnd         *time.Time       `json:"validity_end"`
	SupplierName        *string          `json:"supplier_name"`
	SupplierTaxID       *string          `json:"supplier_tax_id"`
	ExecutingUnitCode   *string          `json:"executing_unit_code"`
	ExecutingUnitName   *string          `json:"executing_unit_name"`
	ResponsibleUnitCode *string          `json:"responsible_unit_code"`
	ResponsibleUnitName *string          `json:"responsible_unit_name"`
	AgencyCode          *string          `json:"agency_code"`
	AgencyName          *string          `json:"agency_name"`
}

// Columns is the fixed column set, in render order. Table, CSV and XLSX
// output all use this so the schema is identical everywhere.
func Columns() []string {
	return []string{
		"Contract",
		"Object",
		"Status",
		"Initial Value",
		"Final Value",
		"Validity Start",
		"Validity End",
		"Supplier",
		"Supplier CNPJ",
		"Exec. Unit Code",
		"Exec. Unit",
		"Resp. Unit Code",
		"Resp. Unit",
		"Agency Code",
		"Agency",
	}
}

// Row renders the record as strings in Columns order, substituting the
// Missing marker for nil fields.
func (r Record) Row() []string {
	return []string{
		str(r.ContractNumber),
		str(r.ObjectDescription),
		str(r.Status),
		dec(r.InitialValue),
		dec(r.FinalValue),
		date(r.ValidityStart),
		date(r.ValidityEnd),
		str(r.SupplierName),
		str(r.SupplierTaxID),
		str(r.ExecutingUnitCode),
		str(r.ExecutingUnitName),
		str(r.ResponsibleUnitCode),
		str(r.ResponsibleUnitName),
		str(r.AgencyCode),
		str(r.AgencyName),
	}
}

// ValidOn reports whether the contract is still in force on the given day:
// validity end present and on or after day's date. Records with no validity
// end are not considered valid (there is nothing to compare against).
func (r Record) ValidOn(day time.Time) bool {
	if r.ValidityEnd == nil {
		return false
	}
	y, m, d := day.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ey, em, ed := r.ValidityEnd.Date()
	end := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return !end.Before(today)
}

func str(s *string) string {
	if s == nil || *s == "" {
		return Missing
	}
	return *s
}

func dec(d *decimal.Decimal) string {
	if d == nil {
		return Missing
	}
	return d.StringFixed(2)
}

func date(t *time.Time) string {
	if t == nil {
		return Missing
	}
	return t.Format(DateLayout)
}
