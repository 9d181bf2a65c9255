// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"ride_console/platform/config"
	"ride_console/platform/logger"
)

// HealthChecker reports the console's readiness.
type HealthChecker interface {
	Health() map[string]any
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP settings only).
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health entries are merged into /api/health. Optional.
	Health []HealthChecker
	// Modules contains all HTTP-facing modules.
	Modules []Module
}
