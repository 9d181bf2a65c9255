package live

import (
	apphttp "ride_console/internal/http"
)

// Module mounts the live feed routes.
type Module struct {
	hub *Hub
}

func NewModule(hub *Hub) *Module {
	return &Module{hub: hub}
}

func (m *Module) Name() string {
	return "live"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/live", m.hub.WebsocketHandler())
	ctx.V1.GET("/events", m.hub.SSEHandler())
}

var _ apphttp.Module = (*Module)(nil)
