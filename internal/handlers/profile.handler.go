package handlers

import (
	"context"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/mrezan/sms-dashboard/internal/model"
	xhttp "github.com/mrezan/sms-dashboard/pkg/http"
)

type ProfileEnsurer interface {
	Ensure(ctx context.Context, p model.ProfileCreateRequest) (*model.Profile, bool, error)
}

type ProfileHandler struct {
	resolver SessionResolver
	svc      ProfileEnsurer
}

func NewProfileHandler(resolver SessionResolver, svc ProfileEnsurer) *ProfileHandler {
	return &ProfileHandler{
		resolver: resolver,
		svc:      svc,
	}
}

// RegisterProfileRoutes wires the profile bootstrap. It cannot sit
// behind the auth middleware: the middleware loads the caller's
// profile, and this route exists to create it.
func RegisterProfileRoutes(e *router.Group, h *ProfileHandler) {
	e.POST("/create-profile", h.CreateProfile)
}

type createProfileRequest struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type createProfileResponse struct {
	Profile *model.Profile `json:"profile"`
}

// CreateProfile bootstraps the profile row for a freshly signed-up
// account. Idempotent: calling it again for the same id returns the
// existing row. Callers can only create their own profile, and only
// with the plain user role; elevation happens through the role update
// route.
func (h *ProfileHandler) CreateProfile(ctx *xhttp.RequestCtx) {
	callerID, err := h.resolver.Resolve(ctx, bearerToken(ctx))
	if err != nil {
		writeError(ctx, xhttp.StatusUnauthorized, "not authenticated")
		return
	}

	var req createProfileRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, "invalid userId")
		return
	}
	if userID != callerID {
		writeError(ctx, xhttp.StatusForbidden, "cannot create a profile for another account")
		return
	}
	if req.Role != "" && req.Role != string(model.RoleUser) {
		writeError(ctx, xhttp.StatusForbidden, "cannot self-assign an elevated role")
		return
	}

	p, created, err := h.svc.Ensure(ctx, model.ProfileCreateRequest{
		UserID: userID,
		Name:   req.Name,
		Email:  req.Email,
		Role:   model.Role(req.Role),
	})
	if err != nil {
		writeError(ctx, xhttp.StatusBadRequest, err.Error())
		return
	}

	status := xhttp.StatusOK
	if created {
		status = xhttp.StatusCreated
	}
	writeJSON(ctx, status, createProfileResponse{Profile: p})
}
