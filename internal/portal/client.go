// Package portal implements the HTTP client for the Portal da Transparência
// contracts API (/api-de-dados/contratos).
package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the production contracts endpoint.
const DefaultBaseURL = "https://api.portaldatransparencia.gov.br/api-de-dados/contratos"

// RawContract is one contract as returned by the API, before normalization.
// The shape varies across historical schema versions, so it stays opaque.
type RawContract map[string]any

// Query holds the server-side filters the API accepts as query parameters.
// AgencyCode is mandatory; everything else is passed through only when set.
type Query struct {
	AgencyCode        string
	SupplierTaxID     string
	ValidityStartFrom string
	ValidityEndTo     string
	MinValue          *decimal.Decimal
}

// Config configures a Client. The API key is loaded once by the caller and
// passed in here; the client never reads it from the environment itself.
type Config struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	PagePause time.Duration
}

// Client fetches contract pages sequentially. One request is in flight at a
// time; PagePause, when set, spaces successive page requests as a courtesy
// to the upstream service.
type Client struct {
	baseURL string
	apiKey  string
	pause   time.Duration
	client  *http.Client
	logger  *slog.Logger
}

// New creates a Client from cfg, applying defaults for unset values.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		pause:   cfg.PagePause,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// FetchAll iterates pages from 1 upward until a page comes back empty or
// the page counter exceeds pageLimit, accumulating records in page order.
// Any non-success status aborts the whole fetch with no partial result.
func (c *Client) FetchAll(ctx context.Context, q Query, pageLimit int) ([]RawContract, error) {
	if strings.TrimSpace(q.AgencyCode) == "" {
		return nil, ErrMissingAgencyCode
	}
	if pageLimit < 1 {
		pageLimit = 1
	}

	var all []RawContract
	for page := 1; page <= pageLimit; page++ {
		records, err := c.fetchPage(ctx, q, page)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			// Normal termination: the API signals exhaustion with an
			// empty array, not an error status.
			break
		}
		all = append(all, records...)
		c.logger.Debug("fetched page",
			slog.Int("page", page),
			slog.Int("records", len(records)),
			slog.Int("total", len(all)),
		)

		if c.pause > 0 && page < pageLimit {
			select {
			case <-time.After(c.pause):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, q Query, page int) ([]RawContract, error) {
	params := url.Values{}
	params.Set("pagina", strconv.Itoa(page))
	params.Set("codigoOrgao", q.AgencyCode)
	if q.SupplierTaxID != "" {
		params.Set("cpfCnpjFornecedor", q.SupplierTaxID)
	}
	if q.ValidityStartFrom != "" {
		params.Set("dataInicioVigencia", q.ValidityStartFrom)
	}
	if q.ValidityEndTo != "" {
		params.Set("dataFimVigencia", q.ValidityEndTo)
	}
	if q.MinValue != nil {
		params.Set("valorMinimo", q.MinValue.String())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("chave-api-dados", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("page %d request failed: %w", page, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return nil, &AuthError{Status: resp.StatusCode}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var records []RawContract
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("page %d: decoding response: %w", page, err)
	}
	return records, nil
}
