// Package rideapi is the HTTP client for the ride-booking backend.
package rideapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ride_console/platform/apperr"
	"ride_console/platform/httpkit"
	"ride_console/platform/logger"
)

const (
	pathRequestRide     = "/api/riders/request-ride"
	pathRegisterDriver  = "/api/drivers/register"
	pathDriverLocation  = "/api/drivers/location"
	pathDriverLocations = "/api/drivers/locations"
	pathSummary         = "/api/admin/summary"
	pathOngoingRides    = "/api/rides/ongoing"
	pathRecentRides     = "/api/admin/recent-rides"
	pathTopDrivers      = "/api/admin/top-drivers"
	pathCompleteRide    = "/api/rides/complete"

	maxResponseBytes = 1 << 20
)

// Client calls the backend. Non-2xx answers become apperr.KindUpstream
// errors carrying the backend's "error" text; failures to reach the backend
// or to read its answer become apperr.KindTransport.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

func New(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log,
	}
}

// RequestRide asks the backend to match a driver for req. A 2xx answer is
// returned as decoded; callers check RideResult.Valid.
func (c *Client) RequestRide(ctx context.Context, req RideRequest) (RideResult, error) {
	var out RideResult
	err := c.doJSON(ctx, http.MethodPost, pathRequestRide, req, &out)
	return out, err
}

func (c *Client) RegisterDriver(ctx context.Context, req DriverRegistration) (Ack, error) {
	var out Ack
	err := c.doJSON(ctx, http.MethodPost, pathRegisterDriver, req, &out)
	return out, err
}

func (c *Client) UpdateDriverLocation(ctx context.Context, req LocationUpdate) (Ack, error) {
	var out Ack
	err := c.doJSON(ctx, http.MethodPost, pathDriverLocation, req, &out)
	return out, err
}

func (c *Client) CompleteRide(ctx context.Context, rideID string) (Ack, error) {
	var out Ack
	err := c.doJSON(ctx, http.MethodPost, pathCompleteRide, completeRideRequest{RideID: rideID}, &out)
	return out, err
}

func (c *Client) Summary(ctx context.Context) (Summary, error) {
	var out Summary
	err := c.doJSON(ctx, http.MethodGet, pathSummary, nil, &out)
	return out, err
}

func (c *Client) OngoingRides(ctx context.Context) ([]RideSummary, error) {
	var out []RideSummary
	err := c.doJSON(ctx, http.MethodGet, pathOngoingRides, nil, &out)
	return out, err
}

func (c *Client) RecentRides(ctx context.Context) ([]RideSummary, error) {
	var out []RideSummary
	err := c.doJSON(ctx, http.MethodGet, pathRecentRides, nil, &out)
	return out, err
}

func (c *Client) TopDrivers(ctx context.Context) ([]TopDriver, error) {
	var out []TopDriver
	err := c.doJSON(ctx, http.MethodGet, pathTopDrivers, nil, &out)
	return out, err
}

func (c *Client) DriverLocations(ctx context.Context) ([]DriverLocation, error) {
	var out []DriverLocation
	err := c.doJSON(ctx, http.MethodGet, pathDriverLocations, nil, &out)
	return out, err
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(apperr.KindInternal, "encode request", err).WithOp(path)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "create request", err).WithOp(path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID := logger.RequestID(ctx); requestID != "" {
		req.Header.Set(httpkit.HeaderRequestID, requestID)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithContext(ctx).UpstreamError("backend", method, path, err)
		return apperr.Transport(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.log.WithContext(ctx).UpstreamError("backend", method, path, err)
		return apperr.Transport(fmt.Errorf("read response: %w", err))
	}
	c.log.WithContext(ctx).UpstreamCall("backend", method, path, resp.StatusCode, float64(time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var rejection errorBody
		_ = json.Unmarshal(raw, &rejection)
		c.log.WithContext(ctx).Warn("backend rejected request", "path", path, "status", resp.StatusCode, "error", rejection.Error)
		return apperr.Upstream(resp.StatusCode, rejection.Error)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Transport(fmt.Errorf("decode %s response: %w", path, err))
	}
	return nil
}
