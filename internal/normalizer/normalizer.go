// Package normalizer maps raw portal contracts into the stable Record
// shape. Field resolution is a declarative table of accessor paths per
// output field, evaluated in order with first-non-missing-wins semantics;
// historical API versions expose the same data under different keys.
package normalizer

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/transparencia-tools/contratos-cli/internal/contract"
	"github.com/transparencia-tools/contratos-cli/internal/portal"
)

// Accessor paths per output field. Dot segments descend into nested
// objects; absence anywhere along a path yields a missing leaf, never an
// error. The first path that resolves to a usable value wins.
var (
	contractNumberPaths      = []string{"numero", "numeroContrato"}
	objectDescriptionPaths   = []string{"objeto"}
	statusPaths              = []string{"situacaoContrato"}
	initialValuePaths        = []string{"valorInicialCompra"}
	finalValuePaths          = []string{"valorFinalCompra"}
	validityStartPaths       = []string{"dataInicioVigencia"}
	validityEndPaths         = []string{"dataFimVigencia"}
	supplierNamePaths        = []string{"fornecedor.nome", "fornecedor.razaoSocialReceita"}
	supplierTaxIDPaths       = []string{"fornecedor.cnpjFormatado", "fornecedor.cnpj"}
	executingUnitCodePaths   = []string{"unidadeGestoraCompras.codigo"}
	executingUnitNamePaths   = []string{"unidadeGestoraCompras.nome"}
	responsibleUnitCodePaths = []string{"unidadeGestora.codigo"}
	responsibleUnitNamePaths = []string{"unidadeGestora.nome"}
	agencyCodePaths          = []string{"unidadeGestora.orgaoVinculado.codigoSIAFI"}
	agencyNamePaths          = []string{"unidadeGestora.orgaoVinculado.nome"}
)

// Date layouts the portal has used across API versions.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// Normalize converts raw contracts into records, preserving input order.
// Per-record problems never abort the batch: an unparsable or absent value
// becomes a nil field and the rest of the record is still produced.
func Normalize(raws []portal.RawContract) []contract.Record {
	records := make([]contract.Record, 0, len(raws))
	for _, raw := range raws {
		records = append(records, normalizeOne(raw))
	}
	return records
}

func normalizeOne(raw portal.RawContract) contract.Record {
	r := contract.Record{
		ContractNumber:      stringAt(raw, contractNumberPaths),
		ObjectDescription:   stringAt(raw, objectDescriptionPaths),
		Status:              stringAt(raw, statusPaths),
		InitialValue:        decimalAt(raw, initialValuePaths),
		FinalValue:          decimalAt(raw, finalValuePaths),
		ValidityStart:       dateAt(raw, validityStartPaths),
		ValidityEnd:         dateAt(raw, validityEndPaths),
		SupplierName:        stringAt(raw, supplierNamePaths),
		SupplierTaxID:       stringAt(raw, supplierTaxIDPaths),
		ExecutingUnitCode:   stringAt(raw, executingUnitCodePaths),
		ExecutingUnitName:   stringAt(raw, executingUnitNamePaths),
		ResponsibleUnitCode: stringAt(raw, responsibleUnitCodePaths),
		ResponsibleUnitName: stringAt(raw, responsibleUnitNamePaths),
		AgencyCode:          stringAt(raw, agencyCodePaths),
		AgencyName:          stringAt(raw, agencyNamePaths),
	}
	if r.SupplierName == nil || r.ContractNumber == nil {
		slog.Debug("raw contract missing core fields",
			slog.Bool("has_number", r.ContractNumber != nil),
			slog.Bool("has_supplier", r.SupplierName != nil),
		)
	}
	return r
}

// lookup walks a dot-separated path through nested JSON objects.
func lookup(raw map[string]any, path string) (any, bool) {
	current := any(raw)
	for _, key := range strings.Split(path, ".") {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok || current == nil {
			return nil, false
		}
	}
	return current, true
}

func stringAt(raw portal.RawContract, paths []string) *string {
	for _, path := range paths {
		v, ok := lookup(raw, path)
		if !ok {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			s = strings.TrimSpace(s)
			return &s
		}
	}
	return nil
}

func decimalAt(raw portal.RawContract, paths []string) *decimal.Decimal {
	for _, path := range paths {
		v, ok := lookup(raw, path)
		if !ok {
			continue
		}
		if d, ok := coerceDecimal(v); ok {
			return &d
		}
	}
	return nil
}

func coerceDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case float64:
		return decimal.NewFromFloat(n), true
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case string:
		// Portal currency strings show up both as "1234.56" and the
		// Brazilian "1.234,56".
		s := strings.TrimSpace(n)
		if s == "" {
			return decimal.Decimal{}, false
		}
		if strings.Contains(s, ",") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
		d, err := decimal.NewFromString(s)
		return d, err == nil
	default:
		return decimal.Decimal{}, false
	}
}

func dateAt(raw portal.RawContract, paths []string) *time.Time {
	for _, path := range paths {
		v, ok := lookup(raw, path)
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
				return &t
			}
		}
	}
	return nil
}
