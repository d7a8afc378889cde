package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
)

// RequireSession only checks that a session is present; any authenticated
// operator may view the dashboard.
func RequireSession() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, ok := r.Context().Value(ContextKeySession).(*domain.Claims)
			if !ok {
				logrus.Warning("access attempt without an authenticated session")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Not authenticated", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly restricts a route to sessions carrying the admin role. The
// upload and inspector routes of the admin panel sit behind it.
func AdminOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := r.Context().Value(ContextKeySession).(*domain.Claims)
			if !ok {
				logrus.Warning("access attempt without an authenticated session")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Not authenticated", nil)
				return
			}

			if !claims.IsAdmin() {
				logrus.Warningf("admin route denied for user=%s role=%s", claims.Username, claims.Role)
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "You don't have permission to access this resource", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
