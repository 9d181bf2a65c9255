package maps

import (
	"ride_console/platform/config"
	"ride_console/platform/logger"
)

// NewProvider returns the provider selected by configuration.
func NewProvider(cfg config.GeocoderConfig, log *logger.Logger) Provider {
	switch cfg.GetGeocoderProvider() {
	case config.ProviderNominatim:
		return NewNominatimProvider(cfg.GetNominatimURL(), cfg.GetGeocoderTimeout(), log)
	default:
		return NewMapboxProvider(cfg.GetMapboxBaseURL(), cfg.GetMapboxAccessToken(), cfg.GetGeocoderTimeout(), log)
	}
}

// NewServiceFromConfig builds a throttled resolver over the configured
// provider.
func NewServiceFromConfig(cfg config.GeocoderConfig, log *logger.Logger) *Service {
	return NewService(NewProvider(cfg, log), cfg.GetGeocoderRatePerSec(), log)
}
