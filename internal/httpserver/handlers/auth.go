package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/sniplink/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sniplink/internal/logger"
	"github.com/MrSnakeDoc/sniplink/internal/utils"
)

type loginRequest struct {
	Password string `json:"password"`
}

type authResponse struct {
	Authenticated bool `json:"authenticated"`
}

func Login(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := d.Auth.CheckPassword(req.Password); err != nil {
			d.Logger.Warn("failed login attempt",
				logger.String("remote_ip", utils.ClientIP(r, d.TrustProxy)))
			writeMessage(w, http.StatusUnauthorized, "Invalid password")
			return
		}
		if err := d.Auth.SetCookie(w); err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, authResponse{Authenticated: true})
	}
}

func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Auth.ClearCookie(w)
		writeJSON(w, http.StatusOK, successResponse{Success: true})
	}
}

func Me(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Auth.Authenticated(r); err != nil {
			writeJSON(w, http.StatusUnauthorized, authResponse{Authenticated: false})
			return
		}
		writeJSON(w, http.StatusOK, authResponse{Authenticated: true})
	}
}
