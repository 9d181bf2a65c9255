package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ride_console/platform/apperr"
	"ride_console/platform/logger"
)

const mapboxPlacesPath = "/geocoding/v5/mapbox.places/"

// MapboxProvider queries the Mapbox forward geocoding API.
type MapboxProvider struct {
	client  *http.Client
	baseURL string
	token   string
	log     *logger.Logger
}

// NewMapboxProvider creates a Mapbox provider. An empty token leaves the
// provider uninitialized.
func NewMapboxProvider(baseURL, token string, timeout time.Duration, log *logger.Logger) *MapboxProvider {
	return &MapboxProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   strings.TrimSpace(token),
		log:     log,
	}
}

func (p *MapboxProvider) Name() string { return "mapbox" }

func (p *MapboxProvider) Ready() bool { return p.token != "" }

func (p *MapboxProvider) Lookup(ctx context.Context, address string) ([]Resolution, error) {
	params := url.Values{}
	params.Set("access_token", p.token)
	params.Set("limit", "1")

	reqURL := fmt.Sprintf("%s%s%s.json?%s", p.baseURL, mapboxPlacesPath, url.PathEscape(address), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "build geocoding request", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		p.log.UpstreamError(p.Name(), http.MethodGet, mapboxPlacesPath, err)
		return nil, apperr.Transport(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	p.log.UpstreamCall(p.Name(), http.MethodGet, mapboxPlacesPath, resp.StatusCode, float64(time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperr.Upstream(resp.StatusCode, fmt.Sprintf("Geocoding failed with status %d", resp.StatusCode))
	}

	var payload mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperr.Transport(fmt.Errorf("decode geocoding response: %w", err))
	}

	results := make([]Resolution, 0, len(payload.Features))
	for _, feature := range payload.Features {
		if len(feature.Center) < 2 {
			continue
		}
		results = append(results, Resolution{
			Lon:   feature.Center[0],
			Lat:   feature.Center[1],
			Place: feature.PlaceName,
		})
	}

	return results, nil
}
