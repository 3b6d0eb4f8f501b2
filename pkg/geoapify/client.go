// Package geoapify is a small client for the Geoapify autocomplete API.
package geoapify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/NomadCrew/nomad-diary-backend/internal/metrics"
	"github.com/NomadCrew/nomad-diary-backend/types"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://api.geoapify.com"
	autocompletePath = "/v1/geocode/autocomplete"
	defaultLimit     = 10
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    *metrics.Metrics
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit throttles outbound requests to perSecond with the given burst.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AutocompleteRequest describes one lookup. CountryCode scopes the search;
// Type narrows the result kind and is omitted when empty.
type AutocompleteRequest struct {
	Text        string
	Type        string
	CountryCode string
	Limit       int
}

type autocompleteResponse struct {
	Results []result `json:"results"`
}

type result struct {
	PlaceID     string  `json:"place_id"`
	Name        string  `json:"name"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	Country     string  `json:"country"`
	CountryCode string  `json:"country_code"`
	Formatted   string  `json:"formatted"`
	ResultType  string  `json:"result_type"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
}

// Autocomplete returns the provider's suggestions mapped to destinations,
// in provider order.
func (c *Client) Autocomplete(ctx context.Context, req AutocompleteRequest) (out []types.Destination, err error) {
	defer func() { c.metrics.ObserveGeocode(err) }()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("geocoding rate limit wait: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(req), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build geocoding request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("geocoding provider returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var parsed autocompleteResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	out = make([]types.Destination, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		out = append(out, r.destination())
	}
	return out, nil
}

func (c *Client) buildURL(req AutocompleteRequest) string {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	params := url.Values{}
	params.Set("text", req.Text)
	if req.Type != "" {
		params.Set("type", req.Type)
	}
	if req.CountryCode != "" {
		params.Set("filter", "countrycode:"+strings.ToLower(req.CountryCode))
	}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("format", "json")
	params.Set("apiKey", c.apiKey)
	return c.baseURL + autocompletePath + "?" + params.Encode()
}

func (r result) destination() types.Destination {
	name := r.Name
	if name == "" {
		switch {
		case r.City != "":
			name = r.City
		case r.State != "":
			name = r.State
		case r.Country != "":
			name = r.Country
		default:
			name = r.Formatted
		}
	}
	return types.Destination{
		PlaceID:       r.PlaceID,
		Name:          name,
		FormattedName: r.Formatted,
		Country:       r.Country,
		CountryCode:   strings.ToLower(r.CountryCode),
		Kind:          kindOf(r.ResultType),
		Coordinates:   types.Coordinates{Lat: r.Lat, Lng: r.Lon},
	}
}

func kindOf(resultType string) types.DestinationKind {
	switch k := types.DestinationKind(resultType); k {
	case types.KindCountry, types.KindState, types.KindCounty, types.KindCity, types.KindLocality,
		types.KindSuburb, types.KindDistrict, types.KindPostcode, types.KindAmenity,
		types.KindBuilding, types.KindStreet:
		return k
	default:
		return types.KindOther
	}
}
