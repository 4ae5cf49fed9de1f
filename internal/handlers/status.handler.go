package handlers

import (
	"github.com/fasthttp/router"
	xhttp "github.com/mrezan/sms-dashboard/pkg/http"
)

type StatusHandler struct {
	dispatcher Dispatcher
}

func NewStatusHandler(dispatcher Dispatcher) *StatusHandler {
	return &StatusHandler{
		dispatcher: dispatcher,
	}
}

// RegisterStatusRoutes wires the configuration probe. The path is fixed
// by the dashboard frontend.
func RegisterStatusRoutes(e *router.Group, h *StatusHandler) {
	e.GET("/check-sms-gateway", h.CheckGateway)
}

// CheckGateway reports credential presence only, never the values.
func (h *StatusHandler) CheckGateway(ctx *xhttp.RequestCtx) {
	writeJSON(ctx, xhttp.StatusOK, h.dispatcher.GatewayStatus())
}
