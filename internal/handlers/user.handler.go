package handlers

import (
	"context"
	"errors"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/mrezan/sms-dashboard/internal/model"
	"github.com/mrezan/sms-dashboard/internal/services"
	xhttp "github.com/mrezan/sms-dashboard/pkg/http"
)

type UserService interface {
	List(ctx context.Context, actor model.Role) ([]*model.Profile, error)
	UpdateRole(ctx context.Context, actor model.Role, targetID uuid.UUID, role model.Role) error
	Delete(ctx context.Context, actorID uuid.UUID, actor model.Role, targetID uuid.UUID) error
}

type UserHandler struct {
	svc UserService
}

func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

func RegisterUserRoutes(e *router.Group, h *UserHandler, auth xhttp.MiddlewareFunc) {
	e.GET("/users", auth(h.ListUsers))
	e.PUT("/users/{id}/role", auth(h.UpdateRole))
	e.DELETE("/users/{id}", auth(h.DeleteUser))
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

type userListResponse struct {
	Items []*model.Profile `json:"items"`
}

func (h *UserHandler) ListUsers(ctx *xhttp.RequestCtx) {
	p := caller(ctx)

	items, err := h.svc.List(ctx, p.Role)
	if err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, userListResponse{Items: items})
}

func (h *UserHandler) UpdateRole(ctx *xhttp.RequestCtx) {
	p := caller(ctx)

	targetID, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid user id")
		return
	}

	var req updateRoleRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	role, err := model.ParseRole(req.Role)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.UpdateRole(ctx, p.Role, targetID, role); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]bool{"success": true})
}

func (h *UserHandler) DeleteUser(ctx *xhttp.RequestCtx) {
	p := caller(ctx)

	targetID, err := pathID(ctx)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.svc.Delete(ctx, p.ID, p.Role, targetID); err != nil {
		writeServiceError(ctx, err)
		return
	}
	writeJSON(ctx, xhttp.StatusOK, map[string]bool{"success": true})
}

func pathID(ctx *xhttp.RequestCtx) (uuid.UUID, error) {
	s, _ := ctx.UserValue("id").(string)
	return uuid.Parse(s)
}

// writeServiceError keeps the authorization rejections user-visible:
// a refused superadmin delete is a 403 with a message, not a 500.
func writeServiceError(ctx *xhttp.RequestCtx, err error) {
	switch {
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrSelfDelete):
		writeError(ctx, xhttp.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrProfileNotFound):
		writeError(ctx, xhttp.StatusNotFound, err.Error())
	default:
		writeError(ctx, xhttp.StatusInternalServerError, err.Error())
	}
}
