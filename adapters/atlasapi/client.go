package atlasapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"atlasdash/domain/atlas"
	apperrors "atlasdash/internal/errors"
	"atlasdash/internal/metrics"
	"atlasdash/ports"

	logging "atlasdash/internal"
)

// Client fetches precomputed aggregates from the atlas backend. Every call
// is a stateless GET with a per-endpoint deadline; on timeout or transport
// failure it retries exactly once. Non-2xx responses fail without a retry.
type Client struct {
	base       string
	httpClient *http.Client
	timeouts   Timeouts
	log        *logging.Logger
}

var _ ports.AtlasSource = (*Client)(nil)

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient swaps the underlying transport (tests)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeouts overrides the per-endpoint deadlines
func WithTimeouts(t Timeouts) Option {
	return func(c *Client) { c.timeouts = t }
}

// New creates a client against the given API base. Trailing slashes are
// stripped so endpoint paths join cleanly.
func New(base string, opts ...Option) *Client {
	c := &Client{
		base:       strings.TrimRight(strings.TrimSpace(base), "/"),
		httpClient: &http.Client{},
		timeouts:   DefaultTimeouts(),
		log:        logging.DefaultLogger.With("atlasapi"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Base returns the normalized API base the client was built against
func (c *Client) Base() string {
	return c.base
}

// getJSON performs one GET with the endpoint's deadline, retrying exactly
// once on timeout or transport failure, and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	reqID := uuid.NewString()[:8]
	fullURL := c.base + endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= 1; attempt++ {
		if attempt > 0 {
			c.log.Warn("[%s] retrying %s after %v", reqID, endpoint, lastErr)
		}
		err := c.doOnce(ctx, endpoint, fullURL, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable(err) {
			break
		}
	}
	c.log.Error("[%s] %s failed: %v", reqID, endpoint, lastErr)
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, endpoint, fullURL string, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeouts.forEndpoint(endpoint))
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, fullURL, nil)
	if err != nil {
		return apperrors.Wrap(err, "failed to build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			metrics.ObserveUpstream(endpoint, "timeout", time.Since(start))
			return apperrors.Timeout()
		}
		// Caller gave up; retrying against a dead context is pointless, so
		// this must not classify as a retryable transport failure
		if errors.Is(ctx.Err(), context.Canceled) {
			metrics.ObserveUpstream(endpoint, "canceled", time.Since(start))
			return apperrors.Wrap(err, "request canceled")
		}
		metrics.ObserveUpstream(endpoint, "network", time.Since(start))
		return apperrors.Network(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveUpstream(endpoint, "network", time.Since(start))
		return apperrors.Network(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.ObserveUpstream(endpoint, "status", time.Since(start))
		return apperrors.UpstreamStatus(resp.StatusCode, gjson.GetBytes(body, "error").String())
	}

	// Application-level rejection: parsed fine but carries ok=false
	if okField := gjson.GetBytes(body, "ok"); okField.Exists() && !okField.Bool() {
		metrics.ObserveUpstream(endpoint, "rejected", time.Since(start))
		return apperrors.UpstreamReject(gjson.GetBytes(body, "error").String())
	}

	if err := json.Unmarshal(body, out); err != nil {
		metrics.ObserveUpstream(endpoint, "payload", time.Since(start))
		return apperrors.BadPayload(err)
	}

	metrics.ObserveUpstream(endpoint, "ok", time.Since(start))
	c.log.Debug("GET %s in %v", endpoint, time.Since(start))
	return nil
}

// retryable reports whether the failure class gets the single retry:
// timeouts and transport failures do, HTTP status and payload failures
// do not.
func retryable(err error) bool {
	switch apperrors.GetCode(err) {
	case apperrors.CodeTimeout, apperrors.CodeNetwork:
		return true
	}
	return false
}

// Manifest fetches the top-level atlas metadata
func (c *Client) Manifest(ctx context.Context) (*atlas.Manifest, error) {
	var payload struct {
		OK bool `json:"ok"`
		atlas.Manifest
	}
	if err := c.getJSON(ctx, epManifest, nil, &payload); err != nil {
		return nil, err
	}
	return &payload.Manifest, nil
}

// Markers fetches one named marker gene panel
func (c *Client) Markers(ctx context.Context, panel string) ([]string, error) {
	params := url.Values{"panel": {panel}}
	var payload struct {
		OK    bool     `json:"ok"`
		Genes []string `json:"genes"`
	}
	if err := c.getJSON(ctx, epMarkers, params, &payload); err != nil {
		return nil, err
	}
	return payload.Genes, nil
}

// Accessions fetches the source datasets contributing to one disease
func (c *Client) Accessions(ctx context.Context, disease string) ([]atlas.Accession, error) {
	params := url.Values{"disease": {disease}}
	var payload struct {
		OK         bool              `json:"ok"`
		Accessions []atlas.Accession `json:"accessions"`
	}
	if err := c.getJSON(ctx, epAccessions, params, &payload); err != nil {
		return nil, err
	}
	return payload.Accessions, nil
}

// UMAP fetches embedding coordinates for the selected filters
func (c *Client) UMAP(ctx context.Context, q ports.UMAPQuery) (*atlas.UMAP, error) {
	params := url.Values{}
	if q.Disease != "" {
		params.Set("disease", q.Disease)
	}
	if q.CellType != "" {
		params.Set("cell_type", q.CellType)
	}
	if q.MaxPoints > 0 {
		params.Set("max_points", strconv.Itoa(q.MaxPoints))
	}
	var payload struct {
		OK bool `json:"ok"`
		atlas.UMAP
	}
	if err := c.getJSON(ctx, epUMAP, params, &payload); err != nil {
		return nil, err
	}
	return &payload.UMAP, nil
}

// Dotplot fetches the gene x group expression matrix
func (c *Client) Dotplot(ctx context.Context, genes []string, groupBy string) (*atlas.Dotplot, error) {
	params := url.Values{
		"genes":    {strings.Join(genes, ",")},
		"group_by": {groupBy},
	}
	var payload struct {
		OK bool `json:"ok"`
		atlas.Dotplot
	}
	if err := c.getJSON(ctx, epDotplot, params, &payload); err != nil {
		return nil, err
	}
	return &payload.Dotplot, nil
}

// DotplotByDisease fetches the disease-nested expression matrix
func (c *Client) DotplotByDisease(ctx context.Context, genes []string, groupBy string) (*atlas.DotplotByDisease, error) {
	params := url.Values{
		"genes":    {strings.Join(genes, ",")},
		"group_by": {groupBy},
	}
	var payload struct {
		OK bool `json:"ok"`
		atlas.DotplotByDisease
	}
	if err := c.getJSON(ctx, epDotplotByDisease, params, &payload); err != nil {
		return nil, err
	}
	return &payload.DotplotByDisease, nil
}

// Violin fetches one gene's per-group distribution summary
func (c *Client) Violin(ctx context.Context, q ports.ViolinQuery) (*atlas.Violin, error) {
	kind := q.Kind
	if kind == "" {
		kind = "hist"
	}
	params := url.Values{
		"gene":     {q.Gene},
		"group_by": {q.GroupBy},
		"kind":     {kind},
	}
	var payload struct {
		OK bool `json:"ok"`
		atlas.Violin
	}
	if err := c.getJSON(ctx, epViolin, params, &payload); err != nil {
		return nil, err
	}
	return &payload.Violin, nil
}

// Composition fetches the group x cell-type count matrix
func (c *Client) Composition(ctx context.Context, groupBy string) (*atlas.Composition, error) {
	params := url.Values{"group_by": {groupBy}}
	var payload struct {
		OK bool `json:"ok"`
		atlas.Composition
	}
	if err := c.getJSON(ctx, epComposition, params, &payload); err != nil {
		return nil, err
	}
	return &payload.Composition, nil
}

// DEByDisease fetches a page of one disease-vs-Healthy contrast
func (c *Client) DEByDisease(ctx context.Context, q ports.DEQuery) (*atlas.DETable, error) {
	params := url.Values{
		"disease":   {q.Disease},
		"cell_type": {q.CellType},
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.TopN > 0 {
		params.Set("top_n", strconv.Itoa(q.TopN))
	}
	var payload struct {
		OK bool `json:"ok"`
		atlas.DETable
	}
	if err := c.getJSON(ctx, epDEByDisease, params, &payload); err != nil {
		return nil, err
	}
	if payload.Disease == "" {
		payload.Disease = q.Disease
	}
	if payload.CellType == "" {
		payload.CellType = q.CellType
	}
	return &payload.DETable, nil
}

// String implements fmt.Stringer for log lines
func (c *Client) String() string {
	return fmt.Sprintf("atlasapi(%s)", c.base)
}
