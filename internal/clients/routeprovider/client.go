package routeprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hyugeso/planner/server/internal/lib/geo"
	"github.com/hyugeso/planner/server/internal/lib/restarea"
)

var (
	// ErrRateLimited is returned when the provider answers 429.
	ErrRateLimited = errors.New("route provider rate limit exceeded")

	// ErrProvider wraps an error message reported in the provider's payload,
	// e.g. an unknown place name.
	ErrProvider = errors.New("route provider error")

	// ErrEmptyRoute is returned when the payload carries neither a route nor
	// an encoded polyline.
	ErrEmptyRoute = errors.New("route provider returned no route")
)

const defaultTimeout = 30 * time.Second

// HTTPDoer is the subset of *http.Client used by Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the route provider that geocodes start/end names and
// returns the road route together with the rest-area catalog along it.
type Client struct {
	baseURL    string
	httpClient HTTPDoer
}

// RouteData is the decoded provider response.
type RouteData struct {
	// Points in route order, origin first.
	Points []geo.Point `json:"points"`

	// Raw holds the route as [lng, lat] pairs the way the provider sent it,
	// or converted from the polyline when only that was present.
	Raw [][]float64 `json:"route"`

	// Rests is the catalog exactly as the provider sent it. Use Catalog to
	// decode it.
	Rests json.RawMessage `json:"rests"`
}

// Catalog decodes Rests. A missing or null catalog is empty.
func (d *RouteData) Catalog() ([]restarea.RawRestArea, error) {
	if len(d.Rests) == 0 {
		return []restarea.RawRestArea{}, nil
	}
	catalog, err := restarea.DecodeCatalog(bytes.NewReader(d.Rests), restarea.FormatJSON)
	if err != nil {
		return nil, err
	}
	if catalog == nil {
		catalog = []restarea.RawRestArea{}
	}
	return catalog, nil
}

type routeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type routeResponse struct {
	Route           [][]float64     `json:"route"`
	EncodedPolyline string          `json:"encoded_polyline"`
	Rests           json.RawMessage `json:"rests"`
	Error           string          `json:"error"`
}

// NewClient creates a provider client with a default timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return NewClientWithHTTPDoer(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTPDoer creates a client around a custom HTTPDoer, mainly for
// tests.
func NewClientWithHTTPDoer(baseURL string, doer HTTPDoer) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: doer,
	}
}

// FetchRoute asks the provider for the route between two place names.
func (c *Client) FetchRoute(ctx context.Context, start, end string) (*RouteData, error) {
	jsonBody, err := json.Marshal(routeRequest{Start: start, End: end})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/route", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, ErrRateLimited
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// The provider reports lookup failures as JSON with an error field,
		// sometimes with a 4xx status.
		var payload routeResponse
		if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrProvider, payload.Error)
		}
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload routeResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return processRouteResponse(payload)
}

func processRouteResponse(payload routeResponse) (*RouteData, error) {
	if payload.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrProvider, payload.Error)
	}

	data := &RouteData{Rests: payload.Rests}
	if len(data.Rests) == 0 || string(data.Rests) == "null" {
		data.Rests = json.RawMessage("[]")
	}
	if _, err := data.Catalog(); err != nil {
		return nil, fmt.Errorf("invalid rests: %w", err)
	}

	switch {
	case len(payload.Route) > 0:
		data.Points = make([]geo.Point, 0, len(payload.Route))
		for i, pair := range payload.Route {
			p, err := geo.FromLngLat(pair)
			if err != nil {
				return nil, fmt.Errorf("route point %d: %w", i, err)
			}
			data.Points = append(data.Points, p)
		}
		data.Raw = payload.Route

	case payload.EncodedPolyline != "":
		points, err := geo.DecodePolyline(payload.EncodedPolyline)
		if err != nil {
			return nil, fmt.Errorf("failed to decode polyline: %w", err)
		}
		data.Points = points
		data.Raw = make([][]float64, len(points))
		for i, p := range points {
			data.Raw[i] = p.LngLat()
		}

	default:
		return nil, ErrEmptyRoute
	}

	return data, nil
}
