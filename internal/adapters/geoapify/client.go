// Package geoapify is the places provider adapter backed by the Geoapify
// Places and Geocoding APIs.
package geoapify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/samirrijal/litpass/internal/core/domain"
	"github.com/samirrijal/litpass/internal/pkg/geospatial"
	"github.com/samirrijal/litpass/internal/pkg/logging"
	"github.com/samirrijal/litpass/internal/pkg/metrics"
	"github.com/samirrijal/litpass/internal/pkg/telemetry"
)

const (
	// DefaultBaseURL is the Geoapify API host. Endpoint versions are
	// appended per call.
	DefaultBaseURL = "https://api.geoapify.com"

	// DefaultTileURL is the carto raster tile template.
	DefaultTileURL = "https://maps.geoapify.com/v1/tile/carto/{z}/{x}/{y}.png"

	DefaultTimeout   = 15 * time.Second
	DefaultRateLimit = 5
	DefaultLimit     = 20

	// AutocompleteLimit caps autocomplete suggestions.
	AutocompleteLimit = 10
)

// Operation names used for errors, metrics and spans.
const (
	OpSearch       = "search"
	OpAutocomplete = "autocomplete"
	OpReverse      = "reverse"
	OpCity         = "city"
)

// Client is a Geoapify API client. It is safe for concurrent use.
type Client struct {
	baseURL      string
	tileURL      string
	apiKey       string
	defaultLimit int
	httpClient   *http.Client
	logger       *slog.Logger
	limiter      *rate.Limiter
}

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithTileURL sets the raster tile template ({z}, {x}, {y} placeholders).
func WithTileURL(tmpl string) ClientOption {
	return func(c *Client) {
		c.tileURL = tmpl
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the transport timeout on the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// WithLogger sets a logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets a custom rate limit.
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithDefaultLimit sets the search result limit used when a query has none.
func WithDefaultLimit(limit int) ClientOption {
	return func(c *Client) {
		if limit > 0 {
			c.defaultLimit = limit
		}
	}
}

// NewClient creates a new Geoapify client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:      DefaultBaseURL,
		tileURL:      DefaultTileURL,
		apiKey:       apiKey,
		defaultLimit: DefaultLimit,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger:  logging.Discard(),
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// coord formats a coordinate in its shortest decimal form.
func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// get performs a GET against path and decodes the feature collection.
func (c *Client) get(ctx context.Context, op, path string, params url.Values, attrs ...attribute.KeyValue) (*featureCollection, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "geoapify."+op)
	defer span.End()
	span.SetAttributes(attribute.String(telemetry.AttrOp, op))
	span.SetAttributes(attrs...)

	start := time.Now()
	fc, err := c.do(ctx, op, path, params)
	elapsed := time.Since(start)

	if err != nil {
		metrics.ObserveProvider(op, "error", elapsed)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.WarnContext(ctx, "geoapify request failed", "op", op, "error", err, "elapsed", elapsed)
		return nil, err
	}

	metrics.ObserveProvider(op, "ok", elapsed)
	span.SetAttributes(attribute.Int(telemetry.AttrResults, len(fc.Features)))
	c.logger.DebugContext(ctx, "geoapify request", "op", op, "results", len(fc.Features), "elapsed", elapsed)
	return fc, nil
}

func (c *Client) do(ctx context.Context, op, path string, params url.Values) (*featureCollection, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.ProviderError{Op: op, Err: fmt.Errorf("rate limiter: %w", err)}
	}

	params.Set("apiKey", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &domain.ProviderError{Op: op, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Op: op, Err: err}
	}
	defer resp.Body.Close()
	trace.SpanFromContext(ctx).SetAttributes(attribute.Int(telemetry.AttrHTTPStatus, resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.ProviderError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, &domain.ProviderError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return &fc, nil
}

// Search runs a places search. With an origin the results are restricted to
// a circle of RadiusMeters (default 5000) and biased towards the origin.
// Provider order is preserved.
func (c *Client) Search(ctx context.Context, q domain.SearchQuery) ([]domain.Place, error) {
	params := url.Values{}
	var attrs []attribute.KeyValue
	if q.Text != "" {
		params.Set("text", q.Text)
	}
	if q.Origin != nil {
		radius := q.RadiusMeters
		if radius <= 0 {
			radius = domain.DefaultRadius
		}
		attrs = append(attrs, attribute.Int(telemetry.AttrRadius, radius))
		lon, lat := coord(q.Origin.Lon), coord(q.Origin.Lat)
		params.Set("filter", fmt.Sprintf("circle:%s,%s,%d", lon, lat, radius))
		params.Set("bias", fmt.Sprintf("proximity:%s,%s", lon, lat))
	}
	if len(q.Categories) > 0 {
		params.Set("categories", strings.Join(q.Categories, ","))
		attrs = append(attrs, attribute.StringSlice(telemetry.AttrCategory, q.Categories))
	}
	limit := q.Limit
	if limit <= 0 {
		limit = c.defaultLimit
	}
	params.Set("limit", strconv.Itoa(limit))

	fc, err := c.get(ctx, OpSearch, "/v2/places", params, attrs...)
	if err != nil {
		return nil, err
	}

	places := make([]domain.Place, 0, len(fc.Features))
	for _, f := range fc.Features {
		p := f.Properties.toPlace()
		if q.Origin != nil && p.DistanceMeters == nil {
			d := geospatial.Haversine(q.Origin.Lat, q.Origin.Lon, p.Coordinates.Lat, p.Coordinates.Lon)
			p.DistanceMeters = &d
		}
		if q.Origin == nil {
			p.DistanceMeters = nil
		}
		places = append(places, p)
	}
	return places, nil
}

// Autocomplete returns up to ten suggestions for text, optionally biased
// towards a point. No radius filter is applied.
func (c *Client) Autocomplete(ctx context.Context, text string, bias *domain.Coordinates) ([]domain.Place, error) {
	params := url.Values{}
	params.Set("text", text)
	params.Set("limit", strconv.Itoa(AutocompleteLimit))
	if bias != nil {
		params.Set("bias", fmt.Sprintf("proximity:%s,%s", coord(bias.Lon), coord(bias.Lat)))
	}

	fc, err := c.get(ctx, OpAutocomplete, "/v1/geocode/autocomplete", params)
	if err != nil {
		return nil, err
	}

	places := make([]domain.Place, 0, len(fc.Features))
	for _, f := range fc.Features {
		p := f.Properties.toPlace()
		p.DistanceMeters = nil
		places = append(places, p)
	}
	return places, nil
}

// ReverseGeocode returns the formatted address nearest to c. It never
// fails: on any error or empty result the coordinates themselves are
// returned as "lat, lon" with six decimals.
func (c *Client) ReverseGeocode(ctx context.Context, at domain.Coordinates) string {
	params := url.Values{}
	params.Set("lat", coord(at.Lat))
	params.Set("lon", coord(at.Lon))

	fc, err := c.get(ctx, OpReverse, "/v1/geocode/reverse", params)
	if err != nil || len(fc.Features) == 0 || fc.Features[0].Properties.Formatted == "" {
		return at.String()
	}
	return fc.Features[0].Properties.Formatted
}

// GeocodeCity resolves a city name to its best match. It returns nil, nil
// when the provider matches nothing.
func (c *Client) GeocodeCity(ctx context.Context, text string) (*domain.CityMatch, error) {
	params := url.Values{}
	params.Set("text", text)
	params.Set("type", "city")
	params.Set("limit", "1")

	fc, err := c.get(ctx, OpCity, "/v1/geocode/search", params)
	if err != nil {
		return nil, err
	}
	if len(fc.Features) == 0 {
		return nil, nil
	}

	p := fc.Features[0].Properties
	name := p.Formatted
	if name == "" {
		name = text
	}
	return &domain.CityMatch{
		Coordinates:   domain.Coordinates{Lat: p.Lat, Lon: p.Lon},
		FormattedName: name,
	}, nil
}

// TileURL returns the raster tile URL for z/x/y with the API key attached.
func (c *Client) TileURL(z, x, y int) string {
	return expandTile(c.tileURL, z, x, y) + "?apiKey=" + url.QueryEscape(c.apiKey)
}

// TileTemplate returns the tile URL template in Leaflet form, key included.
func (c *Client) TileTemplate() string {
	return c.tileURL + "?apiKey=" + url.QueryEscape(c.apiKey)
}

func expandTile(tmpl string, z, x, y int) string {
	r := strings.NewReplacer(
		"{z}", strconv.Itoa(z),
		"{x}", strconv.Itoa(x),
		"{y}", strconv.Itoa(y),
	)
	return r.Replace(tmpl)
}
