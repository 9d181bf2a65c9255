package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"ride_console/platform/apperr"
	"ride_console/platform/logger"
)

// NominatimProvider queries an OpenStreetMap Nominatim search endpoint.
// It needs no credential, so it is always ready.
type NominatimProvider struct {
	client    *http.Client
	searchURL string
	log       *logger.Logger
}

func NewNominatimProvider(searchURL string, timeout time.Duration, log *logger.Logger) *NominatimProvider {
	return &NominatimProvider{
		client:    &http.Client{Timeout: timeout},
		searchURL: searchURL,
		log:       log,
	}
}

func (p *NominatimProvider) Name() string { return "nominatim" }

func (p *NominatimProvider) Ready() bool { return p.searchURL != "" }

func (p *NominatimProvider) Lookup(ctx context.Context, address string) ([]Resolution, error) {
	params := url.Values{}
	params.Add("q", address)
	params.Add("format", "json")
	params.Add("limit", "1")

	reqURL := fmt.Sprintf("%s?%s", p.searchURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "build geocoding request", err)
	}

	req.Header.Set("User-Agent", "RideConsole/1.0")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		p.log.UpstreamError(p.Name(), http.MethodGet, p.searchURL, err)
		return nil, apperr.Transport(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	p.log.UpstreamCall(p.Name(), http.MethodGet, p.searchURL, resp.StatusCode, float64(time.Since(start).Milliseconds()))

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.Upstream(resp.StatusCode, fmt.Sprintf("Geocoding failed with status %d", resp.StatusCode))
	}

	var rawResults []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&rawResults); err != nil {
		return nil, apperr.Transport(fmt.Errorf("decode geocoding response: %w", err))
	}

	results := make([]Resolution, 0, len(rawResults))
	for _, raw := range rawResults {
		resolution, ok := buildResolution(raw)
		if !ok {
			p.log.Debug("skipping unparseable nominatim result", "lat", raw.Lat, "lon", raw.Lon)
			continue
		}
		results = append(results, resolution)
	}

	return results, nil
}

func buildResolution(raw nominatimResponse) (Resolution, bool) {
	lat, err := strconv.ParseFloat(raw.Lat, 64)
	if err != nil {
		return Resolution{}, false
	}
	lon, err := strconv.ParseFloat(raw.Lon, 64)
	if err != nil {
		return Resolution{}, false
	}
	return Resolution{Lat: lat, Lon: lon, Place: raw.DisplayName}, true
}
