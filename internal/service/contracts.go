// Package service composes the fetch and normalize stages into the single
// entry point the presentation layer depends on.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/transparencia-tools/contratos-cli/internal/contract"
	"github.com/transparencia-tools/contratos-cli/internal/normalizer"
	"github.com/transparencia-tools/contratos-cli/internal/portal"
)

// Fetcher is the upstream page fetcher. *portal.Client satisfies it; tests
// substitute fakes.
type Fetcher interface {
	FetchAll(ctx context.Context, q portal.Query, pageLimit int) ([]portal.RawContract, error)
}

// Query is the full parameter set for one contract query. The portal
// filters travel upstream as query parameters; ExecutingUnit and OnlyValid
// are applied client-side after normalization.
type Query struct {
	Portal        portal.Query
	ExecutingUnit string
	OnlyValid     bool
	PageLimit     int
}

// cacheKey identifies the fetched dataset: the upstream parameter tuple
// plus the page cap. Client-side filters are deliberately excluded; they
// are applied on every call so the time-dependent validity filter is never
// frozen into a cached value.
func (q Query) cacheKey() string {
	minValue := ""
	if q.Portal.MinValue != nil {
		minValue = q.Portal.MinValue.String()
	}
	return strings.Join([]string{
		q.Portal.AgencyCode,
		q.Portal.SupplierTaxID,
		q.Portal.ValidityStartFrom,
		q.Portal.ValidityEndTo,
		minValue,
		fmt.Sprintf("%d", q.PageLimit),
	}, "|")
}

// Service runs the pipeline and memoizes normalized results per fetch
// tuple for the lifetime of the process. The cache is an optimization
// only; a size of zero disables it.
type Service struct {
	fetcher Fetcher
	cache   *lru.Cache[string, []contract.Record]
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a Service. cacheSize <= 0 disables memoization.
func New(fetcher Fetcher, cacheSize int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
	if cacheSize > 0 {
		// lru.New only fails for non-positive sizes.
		s.cache, _ = lru.New[string, []contract.Record](cacheSize)
	}
	return s
}

// FetchAndNormalize fetches every page for the query, normalizes the raw
// records, then applies the client-side filters. Fetch errors propagate
// unmodified with no partial result; normalization never fails.
func (s *Service) FetchAndNormalize(ctx context.Context, q Query) ([]contract.Record, error) {
	queryID := uuid.New().String()
	logger := s.logger.With(slog.String("query_id", queryID), slog.String("agency", q.Portal.AgencyCode))

	records, ok := s.cached(q)
	if ok {
		logger.Debug("serving memoized result", slog.Int("records", len(records)))
	} else {
		raws, err := s.fetcher.FetchAll(ctx, q.Portal, q.PageLimit)
		if err != nil {
			return nil, err
		}
		records = normalizer.Normalize(raws)
		logger.Info("query complete",
			slog.Int("raw_records", len(raws)),
			slog.Int("records", len(records)),
		)
		if s.cache != nil {
			s.cache.Add(q.cacheKey(), records)
		}
	}

	if q.ExecutingUnit != "" {
		records = normalizer.FilterByExecutingUnit(records, q.ExecutingUnit)
	}
	if q.OnlyValid {
		records = normalizer.FilterCurrentlyValid(records, s.now())
	}
	return records, nil
}

func (s *Service) cached(q Query) ([]contract.Record, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(q.cacheKey())
}
