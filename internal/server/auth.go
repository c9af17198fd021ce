package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/Jarjarbinks8341/tinder-ido/internal/domain"
	"github.com/Jarjarbinks8341/tinder-ido/internal/engine"
)

// publicPaths are served without credentials, relative to the base path.
var publicPaths = []string{"health", "auth/register", "auth/login"}

type Principal struct {
	Profile domain.Profile
}

type principalKey struct{}

func withPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// callerFromContext returns the authenticated profile or a 401.
func callerFromContext(ctx context.Context) (domain.Profile, huma.StatusError) {
	if p, ok := principalFromContext(ctx); ok && p.Profile.ID != "" {
		return p.Profile, nil
	}
	return domain.Profile{}, newAPIError(http.StatusUnauthorized, "unauthorized", "authentication required", nil)
}

func bearerToken(authz string) (string, bool) {
	parts := strings.Fields(authz)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// newAuthMiddleware attaches the caller's profile when the request carries a
// valid bearer token. Missing or bad tokens leave the request anonymous;
// protected operations reject it through callerFromContext.
func newAuthMiddleware(e engine.Engine, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			token, ok := bearerToken(strings.TrimSpace(req.Header.Get("Authorization")))
			if !ok {
				next.ServeHTTP(w, req)
				return
			}
			profile, ok, err := e.ResolveToken(req.Context(), token)
			if err != nil {
				log.Error("resolve token", zap.Error(err))
				respondStatusError(w, newAPIError(http.StatusInternalServerError, "internal_error", "internal error", nil))
				return
			}
			if !ok {
				log.Debug("anonymous request with unusable token", zap.String("path", req.URL.Path))
				next.ServeHTTP(w, req)
				return
			}
			next.ServeHTTP(w, req.WithContext(withPrincipal(req.Context(), Principal{Profile: profile})))
		})
	}
}

func respondStatusError(w http.ResponseWriter, err huma.StatusError) {
	status := http.StatusInternalServerError
	if e, ok := err.(interface{ GetStatus() int }); ok {
		status = e.GetStatus()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(err)
}
