package handler

import (
	"errors"
	"io"
	"net/http"

	"ride_console/internal/console/service"
	"ride_console/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// HTTPHandler exposes the console view and its actions. Every action answers
// with the updated snapshot; view-level failures are part of the snapshot.
type HTTPHandler struct {
	svc *service.Console
}

func NewHTTPHandler(svc *service.Console) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

type ackAlertRequest struct {
	ID string `json:"id"`
}

// GetConsole handles GET /api/v1/console.
func (h *HTTPHandler) GetConsole(c *gin.Context) {
	httpkit.OK(c, h.svc.Snapshot())
}

// SelectTab handles POST /api/v1/console/tabs/:tab.
func (h *HTTPHandler) SelectTab(c *gin.Context) {
	if httpkit.HandleError(c, h.svc.SelectTab(c.Param("tab"))) {
		return
	}
	httpkit.OK(c, h.svc.Snapshot())
}

// Action returns a handler that dispatches trigger with the JSON form body.
func (h *HTTPHandler) Action(trigger service.Trigger) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, ok := bindForm(c)
		if !ok {
			return
		}
		if httpkit.HandleError(c, h.svc.Dispatch(c.Request.Context(), trigger, form)) {
			return
		}
		httpkit.OK(c, h.svc.Snapshot())
	}
}

// CompleteRide handles POST /api/v1/admin/rides/:rideID/complete.
func (h *HTTPHandler) CompleteRide(c *gin.Context) {
	form := service.Form{service.FieldRideID: c.Param("rideID")}
	if httpkit.HandleError(c, h.svc.Dispatch(c.Request.Context(), service.TriggerCompleteRide, form)) {
		return
	}
	httpkit.OK(c, h.svc.Snapshot())
}

// AckAlert handles POST /api/v1/alerts/ack. An empty body acknowledges the
// oldest alert.
func (h *HTTPHandler) AckAlert(c *gin.Context) {
	var req ackAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		httpkit.Error(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if httpkit.HandleError(c, h.svc.AckAlert(req.ID)) {
		return
	}
	httpkit.OK(c, h.svc.Snapshot())
}

// bindForm reads the body as a JSON object of strings. An empty body is an
// empty form.
func bindForm(c *gin.Context) (service.Form, bool) {
	form := service.Form{}
	if err := c.ShouldBindJSON(&form); err != nil && !errors.Is(err, io.EOF) {
		httpkit.Error(c, http.StatusBadRequest, "body must be a JSON object of string fields")
		return nil, false
	}
	return form, true
}
