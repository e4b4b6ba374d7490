package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transparencia-tools/contratos-cli/internal/portal"
)

type fakeFetcher struct {
	records []portal.RawContract
	err     error
	calls   int
	lastQ   portal.Query
}

func (f *fakeFetcher) FetchAll(ctx context.Context, q portal.Query, pageLimit int) ([]portal.RawContract, error) {
	f.calls++
	f.lastQ = q
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func rawWithUnit(number, unit, validityEnd string) portal.RawContract {
	raw := portal.RawContract{
		"numero": number,
		"unidadeGestoraCompras": map[string]any{
			"codigo": unit,
			"nome":   "Unidade " + unit,
		},
	}
	if validityEnd != "" {
		raw["dataFimVigencia"] = validityEnd
	}
	return raw
}

func TestFetchAndNormalize_LengthMatchesFetched(t *testing.T) {
	fetcher := &fakeFetcher{records: []portal.RawContract{
		rawWithUnit("1/2024", "A", ""),
		rawWithUnit("2/2024", "B", ""),
		rawWithUnit("3/2024", "A", ""),
	}}
	svc := New(fetcher, 0, nil)

	records, err := svc.FetchAndNormalize(context.Background(), Query{
		Portal:    portal.Query{AgencyCode: "26246"},
		PageLimit: 50,
	})

	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, "1/2024", *records[0].ContractNumber)
	assert.Equal(t, "26246", fetcher.lastQ.AgencyCode)
}

func TestFetchAndNormalize_Memoization(t *testing.T) {
	fetcher := &fakeFetcher{records: []portal.RawContract{rawWithUnit("1/2024", "A", "")}}
	svc := New(fetcher, 8, nil)
	q := Query{Portal: portal.Query{AgencyCode: "26246"}, PageLimit: 50}

	first, err := svc.FetchAndNormalize(context.Background(), q)
	require.NoError(t, err)
	second, err := svc.FetchAndNormalize(context.Background(), q)
	require.NoError(t, err)

	// Identical parameter tuple: served from cache, upstream hit once.
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, first, second)
}

func TestFetchAndNormalize_DistinctQueriesNotShared(t *testing.T) {
	fetcher := &fakeFetcher{records: []portal.RawContract{rawWithUnit("1/2024", "A", "")}}
	svc := New(fetcher, 8, nil)

	_, err := svc.FetchAndNormalize(context.Background(), Query{
		Portal: portal.Query{AgencyCode: "26246"}, PageLimit: 50,
	})
	require.NoError(t, err)

	minValue := decimal.NewFromInt(1000)
	_, err = svc.FetchAndNormalize(context.Background(), Query{
		Portal: portal.Query{AgencyCode: "26246", MinValue: &minValue}, PageLimit: 50,
	})
	require.NoError(t, err)

	assert.Equal(t, 2, fetcher.calls)
}

func TestFetchAndNormalize_CacheDisabled(t *testing.T) {
	fetcher := &fakeFetcher{records: []portal.RawContract{rawWithUnit("1/2024", "A", "")}}
	svc := New(fetcher, 0, nil)
	q := Query{Portal: portal.Query{AgencyCode: "26246"}, PageLimit: 50}

	_, err := svc.FetchAndNormalize(context.Background(), q)
	require.NoError(t, err)
	_, err = svc.FetchAndNormalize(context.Background(), q)
	require.NoError(t, err)

	assert.Equal(t, 2, fetcher.calls)
}

func TestFetchAndNormalize_ExecutingUnitFilter(t *testing.T) {
	fetcher := &fakeFetcher{records: []portal.RawContract{
		rawWithUnit("1/2024", "A", ""),
		rawWithUnit("2/2024", "B", ""),
		rawWithUnit("3/2024", "A", ""),
	}}
	svc := New(fetcher, 8, nil)

	records, err := svc.FetchAndNormalize(context.Background(), Query{
		Portal:        portal.Query{AgencyCode: "26246"},
		ExecutingUnit: "A",
		PageLimit:     50,
	})

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "1/2024", *records[0].ContractNumber)
	assert.Equal(t, "3/2024", *records[1].ContractNumber)
	// The unit filter is client-side only, never forwarded upstream.
	assert.Empty(t, fetcher.lastQ.SupplierTaxID)
}

func TestFetchAndNormalize_ValidityFilterAppliedAfterCache(t *testing.T) {
	fetcher := &fakeFetcher{records: []portal.RawContract{
		rawWithUnit("expired", "A", "2024-01-31"),
		rawWithUnit("running", "A", "2030-01-31"),
	}}
	svc := New(fetcher, 8, nil)
	svc.now = func() time.Time { return time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC) }

	q := Query{Portal: portal.Query{AgencyCode: "26246"}, OnlyValid: true, PageLimit: 50}

	records, err := svc.FetchAndNormalize(context.Background(), q)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "running", *records[0].ContractNumber)

	// Same tuple later, after the second contract expired: the cached fetch
	// is reused but the validity filter runs against the new clock.
	svc.now = func() time.Time { return time.Date(2031, 1, 1, 12, 0, 0, 0, time.UTC) }
	records, err = svc.FetchAndNormalize(context.Background(), q)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 1, fetcher.calls)
}

func TestFetchAndNormalize_ErrorPropagatesUnmodified(t *testing.T) {
	upstreamErr := &portal.APIError{Status: 500, Body: "boom"}
	fetcher := &fakeFetcher{err: upstreamErr}
	svc := New(fetcher, 8, nil)

	records, err := svc.FetchAndNormalize(context.Background(), Query{
		Portal: portal.Query{AgencyCode: "26246"}, PageLimit: 50,
	})

	require.Error(t, err)
	assert.Nil(t, records)
	var apiErr *portal.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, upstreamErr, apiErr)
}

func TestFetchAndNormalize_ErrorsNotCached(t *testing.T) {
	fetcher := &fakeFetcher{err: &portal.APIError{Status: 503, Body: "down"}}
	svc := New(fetcher, 8, nil)
	q := Query{Portal: portal.Query{AgencyCode: "26246"}, PageLimit: 50}

	_, err := svc.FetchAndNormalize(context.Background(), q)
	require.Error(t, err)

	// Upstream recovers: the retry must hit the network again and succeed.
	fetcher.err = nil
	fetcher.records = []portal.RawContract{rawWithUnit("1/2024", "A", "")}

	records, err := svc.FetchAndNormalize(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 2, fetcher.calls)
}
