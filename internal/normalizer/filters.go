package normalizer

import (
	"time"

	"github.com/transparencia-tools/contratos-cli/internal/contract"
)

// FilterByExecutingUnit keeps records whose executing unit code exactly
// matches code, preserving order. The portal has no server-side unit
// filter, so this always runs client-side after the full fetch.
func FilterByExecutingUnit(records []contract.Record, code string) []contract.Record {
	if code == "" {
		return records
	}
	out := make([]contract.Record, 0, len(records))
	for _, r := range records {
		if r.ExecutingUnitCode != nil && *r.ExecutingUnitCode == code {
			out = append(out, r)
		}
	}
	return out
}

// FilterCurrentlyValid keeps records still in force on now's date: validity
// end present and on or after today. Time-dependent: the same input can
// filter differently on different days.
func FilterCurrentlyValid(records []contract.Record, now time.Time) []contract.Record {
	out := make([]contract.Record, 0, len(records))
	for _, r := range records {
		if r.ValidOn(now) {
			out = append(out, r)
		}
	}
	return out
}
