package handlers

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/mrezan/sms-dashboard/internal/dispatch"
	"github.com/mrezan/sms-dashboard/internal/model"
	xhttp "github.com/mrezan/sms-dashboard/pkg/http"
)

type Dispatcher interface {
	Send(ctx context.Context, token string, phoneNumbers []string, message string) dispatch.Result
	GatewayStatus() dispatch.GatewayStatus
}

type HistoryService interface {
	List(ctx context.Context, callerID uuid.UUID, caller model.Role, f model.MessageFilter) ([]*model.Message, int64, error)
}

type SMSHandler struct {
	dispatcher Dispatcher
	history    HistoryService
}

func NewSMSHandler(dispatcher Dispatcher, history HistoryService) *SMSHandler {
	return &SMSHandler{
		dispatcher: dispatcher,
		history:    history,
	}
}

// RegisterSMSRoutes wires the dispatch and history routes. The send
// route deliberately skips the auth middleware: the dispatcher resolves
// the token itself, after the gateway call.
func RegisterSMSRoutes(e *router.Group, h *SMSHandler, auth xhttp.MiddlewareFunc) {
	e.POST("/sms/send", h.SendSMS)
	e.GET("/messages", auth(h.ListMessages))
}

type sendSMSRequest struct {
	PhoneNumbers []string `json:"phone_numbers"`
	Message      string   `json:"message"`
}

type listResponse struct {
	Items []*model.Message `json:"items"`
	Total int64            `json:"total"`
}

/* --------------------------------- Routes ----------------------------------- */

func (h *SMSHandler) SendSMS(ctx *xhttp.RequestCtx) {
	var req sendSMSRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	result := h.dispatcher.Send(ctx, bearerToken(ctx), req.PhoneNumbers, req.Message)
	writeJSON(ctx, statusForResult(result), result)
}

func (h *SMSHandler) ListMessages(ctx *xhttp.RequestCtx) {
	p := caller(ctx)

	var f model.MessageFilter
	if v := query(ctx, "status"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
			if parts[i] != "" {
				f.Statuses = append(f.Statuses, model.MessageStatus(parts[i]))
			}
		}
	}
	if v := query(ctx, "from"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.From = &t
		}
	}
	if v := query(ctx, "to"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.To = &t
		}
	}
	if v := query(ctx, "limit"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Limit = n
		}
	}
	if v := query(ctx, "offset"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Offset = n
		}
	}
	if strings.EqualFold(query(ctx, "order"), "desc") {
		f.Desc = true
	}

	items, total, err := h.history.List(ctx, p.ID, p.Role, f)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, xhttp.StatusOK, listResponse{Items: items, Total: total})
}

// statusForResult maps the dispatch outcome onto an HTTP status. The
// body carries the real contract; the status is a convenience for
// clients that only look at it.
func statusForResult(r dispatch.Result) int {
	if r.Success {
		return xhttp.StatusOK
	}
	switch r.Error {
	case dispatch.KindMissingNumbers, dispatch.KindMissingText:
		return xhttp.StatusBadRequest
	case dispatch.KindAuthError:
		return xhttp.StatusUnauthorized
	case dispatch.KindGatewayError:
		return xhttp.StatusBadGateway
	default:
		return xhttp.StatusInternalServerError
	}
}

func readJSON(ctx *xhttp.RequestCtx, dst any) error {
	return json.Unmarshal(ctx.PostBody(), dst)
}

func writeJSON(ctx *xhttp.RequestCtx, status int, v any) {
	b, _ := json.Marshal(v)
	ctx.Response.Header.Set("Content-Type", "application/json; charset=utf-8")
	ctx.Response.SetStatusCode(status)
	ctx.Response.SetBodyRaw(b)
}

func writeError(ctx *xhttp.RequestCtx, status int, msg string) {
	writeJSON(ctx, status, map[string]string{"error": msg})
}

func query(ctx *xhttp.RequestCtx, key string) string {
	return string(ctx.QueryArgs().Peek(key))
}

func parseTime(s string) (time.Time, error) {
	// Accept RFC3339 or YYYY-MM-DD
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
