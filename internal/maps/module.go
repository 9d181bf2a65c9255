package maps

import (
	apphttp "ride_console/internal/http"
	"ride_console/platform/httpkit"
)

// Module wires the address lookup HTTP routes.
type Module struct {
	handler *Handler
	limiter *httpkit.IPRateLimiter
}

func NewModule(svc *Service, limiter *httpkit.IPRateLimiter) *Module {
	return &Module{handler: NewHandler(svc), limiter: limiter}
}

func (m *Module) Name() string {
	return "maps"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/maps")
	if m.limiter != nil {
		group.Use(m.limiter.RateLimit())
	}
	group.GET("/address-lookup", m.handler.LookupAddress)
}

var _ apphttp.Module = (*Module)(nil)
