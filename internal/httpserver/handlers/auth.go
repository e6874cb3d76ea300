package handlers

import (
	"errors"
	"net/http"

	"tidewatch/internal/domain"
	"tidewatch/internal/httpserver/deps"
	"tidewatch/internal/logger"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Status       domain.ResultStatus `json:"status"`
	SessionToken string              `json:"session_token"`
	ExpiresIn    int64               `json:"expires_in_seconds"`
}

// Login exchanges upstream credentials for an encrypted session and
// hands the caller an opaque token. The password is never logged and
// never stored.
func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.Exchanger == nil {
			writeError(w, http.StatusNotImplemented, "login is not configured on this server")
			return
		}

		var req loginRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "username and password are required")
			return
		}

		state, err := d.Exchanger.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, domain.ErrAuthentication) {
				writeJSON(w, http.StatusUnauthorized, errorBody{
					Status:  domain.StatusAuthRequired,
					Message: "authentication failed: check username and password",
				})
				return
			}
			d.Logger.Error("credential exchange failed", logger.Error(err))
			writeError(w, http.StatusBadGateway, "upstream login unavailable")
			return
		}

		token, err := d.Sessions.Create(r.Context(), req.Username, state)
		if err != nil {
			d.Logger.Error("session create failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to create session")
			return
		}

		writeJSON(w, http.StatusOK, loginResponse{
			Status:       domain.StatusSuccess,
			SessionToken: token,
			ExpiresIn:    int64(d.Sessions.TTL().Seconds()),
		})
	}
}

type logoutResponse struct {
	Status domain.ResultStatus `json:"status"`
}

// Logout destroys the caller's session. Unknown tokens succeed; the
// session is gone either way.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r, "")
		if token == "" {
			writeError(w, http.StatusBadRequest, "missing session token")
			return
		}

		if err := d.Sessions.Delete(r.Context(), token); err != nil {
			d.Logger.Error("session delete failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to delete session")
			return
		}
		writeJSON(w, http.StatusOK, logoutResponse{Status: domain.StatusSuccess})
	}
}
