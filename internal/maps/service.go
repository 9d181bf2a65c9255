// Package maps resolves free-text addresses to coordinates through a
// third-party geocoding provider.
package maps

import (
	"context"
	"fmt"
	"strings"

	"ride_console/platform/apperr"
	"ride_console/platform/logger"

	"golang.org/x/time/rate"
)

// Provider performs the remote lookup. Results are ranked best first.
type Provider interface {
	Name() string
	// Ready reports whether the provider has what it needs (e.g. an access
	// credential) to issue a lookup.
	Ready() bool
	Lookup(ctx context.Context, address string) ([]Resolution, error)
}

// Service resolves addresses. Every call is a fresh remote lookup.
type Service struct {
	provider Provider
	limiter  *rate.Limiter
	log      *logger.Logger
}

// NewService creates a resolver over provider. ratePerSec <= 0 disables
// client-side throttling.
func NewService(provider Provider, ratePerSec float64, log *logger.Logger) *Service {
	var limiter *rate.Limiter
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), 1)
	}
	return &Service{
		provider: provider,
		limiter:  limiter,
		log:      log,
	}
}

// Resolve returns the highest-ranked match for address.
func (s *Service) Resolve(ctx context.Context, address string) (Resolution, error) {
	query := strings.TrimSpace(address)
	if query == "" {
		return Resolution{}, apperr.Validation("Empty address")
	}
	if s.provider == nil || !s.provider.Ready() {
		return Resolution{}, apperr.Unavailable("geocoding provider not initialized")
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return Resolution{}, apperr.Transport(err)
		}
	}

	results, err := s.provider.Lookup(ctx, query)
	if err != nil {
		s.log.WithContext(ctx).Warn("geocode lookup failed", "provider", s.provider.Name(), "error", err)
		return Resolution{}, err
	}
	if len(results) == 0 {
		return Resolution{}, apperr.NoResults("No results for this address")
	}

	best := results[0]
	if !best.ValidCoordinates() {
		return Resolution{}, apperr.Upstream(0, fmt.Sprintf("provider returned out-of-range coordinates (%v, %v)", best.Lat, best.Lon))
	}

	s.log.WithContext(ctx).Debug("address resolved", "provider", s.provider.Name(), "lat", best.Lat, "lon", best.Lon)
	return best, nil
}

// ProviderName returns the configured provider's name.
func (s *Service) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// Ready reports whether lookups can be issued.
func (s *Service) Ready() bool {
	return s.provider != nil && s.provider.Ready()
}
