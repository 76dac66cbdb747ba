package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/restoflow/leads-api/internal/entity"
	"github.com/restoflow/leads-api/internal/usecase"
)

const (
	// SessionCookie carries the provider-issued access token for browser
	// sessions. API callers may send it as a Bearer header instead.
	SessionCookie = "rf-access-token"

	LoginRoute     = "/auth/login"
	DashboardRoute = "/dashboard"
)

type contextKey string

const userKey contextKey = "user"

// Guard wraps the session resolver into the three route guards. A failed
// check issues a redirect and the protected handler never runs; nothing is
// retried within the request.
type Guard struct {
	Resolver *usecase.ResolveUser
	Logger   *zap.Logger
}

func NewGuard(resolver *usecase.ResolveUser, logger *zap.Logger) *Guard {
	return &Guard{Resolver: resolver, Logger: logger}
}

// RequireAuth redirects anonymous requests to the login page and injects
// the resolved user into the request context otherwise.
func (g *Guard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := g.Resolver.Execute(r.Context(), SessionToken(r))
		if user == nil {
			g.Logger.Info("unauthenticated request redirected",
				zap.String("path", r.URL.Path),
			)
			RecordAuthRedirect("unauthenticated")
			http.Redirect(w, r, LoginRoute, http.StatusSeeOther)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin layers a role check on top of RequireAuth. Authenticated
// non-admins land on the generic dashboard, not on the login page.
func (g *Guard) RequireAdmin(next http.Handler) http.Handler {
	return g.RequireAuth(g.requireRole(entity.RoleAdmin, next))
}

func (g *Guard) RequireAffiliate(next http.Handler) http.Handler {
	return g.RequireAuth(g.requireRole(entity.RoleAffiliate, next))
}

func (g *Guard) requireRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil || user.Role != role {
			g.Logger.Info("role check failed, redirected",
				zap.String("path", r.URL.Path),
				zap.String("required", role),
			)
			RecordAuthRedirect("forbidden")
			http.Redirect(w, r, DashboardRoute, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext returns the guard-injected user, or nil outside a guarded
// route.
func UserFromContext(ctx context.Context) *entity.User {
	u, _ := ctx.Value(userKey).(*entity.User)
	return u
}

// SessionToken extracts the opaque session token from the cookie or the
// Authorization header. Empty string means anonymous.
func SessionToken(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}

	auth := r.Header.Get("Authorization")
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}
