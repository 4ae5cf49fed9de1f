package handlers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/mrezan/sms-dashboard/internal/model"
	xhttp "github.com/mrezan/sms-dashboard/pkg/http"
)

const callerKey = "caller"

// SessionResolver verifies a bearer token and returns the profile id it
// was issued for.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}

// ProfileGetter loads the caller's profile so route handlers can check
// the role without another repository round trip.
type ProfileGetter interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Profile, error)
}

// Auth returns a per-route middleware that resolves the bearer token,
// loads the caller's profile and stashes it on the request context.
// Routes that must see unauthenticated requests (the dispatch route
// resolves identity itself, after the gateway call) are registered
// without it.
func Auth(resolver SessionResolver, profiles ProfileGetter) func(next xhttp.RequestHandler) xhttp.RequestHandler {
	return func(next xhttp.RequestHandler) xhttp.RequestHandler {
		return func(ctx *xhttp.RequestCtx) {
			id, err := resolver.Resolve(ctx, bearerToken(ctx))
			if err != nil {
				writeError(ctx, xhttp.StatusUnauthorized, "not authenticated")
				return
			}
			p, err := profiles.Get(ctx, id)
			if err != nil {
				writeError(ctx, xhttp.StatusUnauthorized, "no profile for this account")
				return
			}
			ctx.SetUserValue(callerKey, p)
			next(ctx)
		}
	}
}

func bearerToken(ctx *xhttp.RequestCtx) string {
	h := string(ctx.Request.Header.Peek("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func caller(ctx *xhttp.RequestCtx) *model.Profile {
	if p, ok := ctx.UserValue(callerKey).(*model.Profile); ok {
		return p
	}
	return nil
}
