package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"github.com/vfg2006/sales-dashboard-api/pkg/log"
	"github.com/vfg2006/sales-dashboard-api/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Login checks the submitted credentials against the configured admin pair
// and issues a session token. A mismatch is a recoverable, user-visible
// error; nothing else on the API responds until a login succeeds.
func Login(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Invalid request format", nil)
			return
		}

		token, err := service.Login(req.Username, req.Password)
		if err != nil {
			handleLoginError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(LoginResponse{
			Token: token,
		})
	}
}

// handleLoginError maps auth failures onto the API error codes
func handleLoginError(w http.ResponseWriter, r *http.Request, err error) {
	logger := log.ForContext(r.Context())

	var authErr *authenticating.AuthError
	if errors.As(err, &authErr) {
		logger.WithField("code", authErr.Code).Warn("auth: login refused")
		apiErrors.WriteError(w, authErr.Code, authErr.Error(), nil)
		return
	}

	switch {
	case errors.Is(err, authenticating.ErrInvalidCredentials):
		apiErrors.WriteError(w, apiErrors.ErrInvalidCredentials, "Access denied", nil)

	case errors.Is(err, authenticating.ErrMissingCredentials):
		apiErrors.WriteError(w, apiErrors.ErrMissingCredentials, "Username and password are required", nil)

	default:
		logger.WithError(err).Error("auth: unexpected login failure")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Internal error during login", nil)
	}
}

// GetMe returns the identity of the current session
func GetMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := r.Context().Value(middleware.ContextKeySession).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Not authenticated", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{
			"username": claims.Username,
			"role":     claims.Role,
		}); err != nil {
			log.ForContext(r.Context()).WithError(err).Error("auth: failed to encode response")
		}
	}
}
