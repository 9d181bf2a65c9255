// Package console wires the console session to its HTTP surface.
package console

import (
	"context"

	"ride_console/internal/console/handler"
	"ride_console/internal/console/service"
	apphttp "ride_console/internal/http"
	"ride_console/platform/config"
	"ride_console/platform/httpkit"
	"ride_console/platform/logger"

	"github.com/gin-gonic/gin"
)

// Module owns one console session and its routes.
type Module struct {
	svc     *service.Console
	handler *handler.HTTPHandler
	limiter *httpkit.IPRateLimiter
}

// NewModule creates the console session. geocodeLimiter guards the routes
// that reach the third-party geocoder; it may be nil.
func NewModule(api service.Backend, geo service.Geocoder, pub service.Publisher, cfg config.ConsoleConfig, geocodeLimiter *httpkit.IPRateLimiter, log *logger.Logger) *Module {
	svc := service.New(api, geo, pub, cfg, log)
	return &Module{
		svc:     svc,
		handler: handler.NewHTTPHandler(svc),
		limiter: geocodeLimiter,
	}
}

func (m *Module) Name() string {
	return "console"
}

// Service exposes the session, e.g. for health reporting.
func (m *Module) Service() *service.Console {
	return m.svc
}

// Start performs the initial dashboard load.
func (m *Module) Start(ctx context.Context) {
	m.svc.Start(ctx)
}

// Close ends the session.
func (m *Module) Close() {
	m.svc.Close()
}

// actionRoute is where a form-driven binding is mounted.
type actionRoute struct {
	path     string
	geocoder bool
}

// actionRoutes maps triggers to their POST paths under /api/v1. Triggers
// with path parameters are mounted separately.
var actionRoutes = map[service.Trigger]actionRoute{
	service.TriggerGeocodePickup:  {path: "/rider/geocode/pickup", geocoder: true},
	service.TriggerGeocodeDrop:    {path: "/rider/geocode/drop", geocoder: true},
	service.TriggerRequestRide:    {path: "/rider/rides"},
	service.TriggerGeocodeDriver:  {path: "/driver/geocode", geocoder: true},
	service.TriggerRegisterDriver: {path: "/driver/register"},
	service.TriggerUpdateLocation: {path: "/driver/location"},
	service.TriggerRefreshAdmin:   {path: "/admin/refresh"},
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	h := m.handler

	consoleGroup := ctx.V1.Group("/console")
	consoleGroup.GET("", h.GetConsole)
	consoleGroup.POST("/tabs/:tab", h.SelectTab)

	for _, binding := range m.svc.Bindings() {
		route, ok := actionRoutes[binding.Trigger]
		if !ok {
			continue
		}
		if route.geocoder {
			ctx.V1.POST(route.path, m.geocodeLimit(), h.Action(binding.Trigger))
			continue
		}
		ctx.V1.POST(route.path, h.Action(binding.Trigger))
	}

	ctx.V1.POST("/admin/rides/:rideID/complete", h.CompleteRide)
	ctx.V1.POST("/alerts/ack", h.AckAlert)
}

func (m *Module) geocodeLimit() gin.HandlerFunc {
	if m.limiter == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return m.limiter.RateLimit()
}

var _ apphttp.Module = (*Module)(nil)
