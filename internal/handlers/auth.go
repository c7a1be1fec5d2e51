package handlers

import (
	"net/http"
	"strings"

	"github.com/spainrp/awards/internal/auth"
)

// handleLogin exchanges a Discord OAuth2 code for a session token
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		respondError(w, BadRequest("Falta el código"))
		return
	}

	user, err := h.OAuth.Exchange(r.Context(), req.Code)
	if err != nil {
		h.Log.Error("OAuth exchange failed", "ip", r.RemoteAddr, "error", err)
		respondJSON(w, http.StatusInternalServerError, NewAPIError(http.StatusInternalServerError, ErrCodeInternalServer, "Error de autenticación"))
		return
	}

	isAdmin := h.Config.IsAdmin(user.ID)
	token, err := h.Auth.Issue(*user, isAdmin)
	if err != nil {
		h.fail(w, err)
		return
	}

	if isAdmin {
		h.Log.Info("Admin login", "user", user.ID, "username", user.Username, "ip", r.RemoteAddr)
	} else {
		h.Log.Info("User login", "user", user.ID, "username", user.Username, "ip", r.RemoteAddr)
	}

	auth.SetSessionCookie(w, token)
	respondOK(w, LoginResponse{
		Success: true,
		User:    LoginUser{ID: user.ID, Username: user.Username, Avatar: user.AvatarURL, IsAdmin: isAdmin},
		Token:   token,
	})
}

// handleLogout clears the session cookie
func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w)
	respondSuccess(w, nil)
}
