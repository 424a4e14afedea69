package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/water-intel/internal/auth"
)

// User-facing messages for the login and sign-up forms.
const (
	msgInvalidEmail = "Invalid user email"
	msgEmptyFields  = "Fields cannot be empty!"
	msgEmailExists  = "Username already exists!"
	msgUnauthorized = "unauthorized"
)

type ctxKey struct{}

func sessionFrom(ctx context.Context) *auth.Session {
	s, _ := ctx.Value(ctxKey{}).(*auth.Session)
	return s
}

type credentials struct {
	Email string `json:"email"`
}

type sessionResponse struct {
	SessionID string    `json:"session_id"`
	Email     string    `json:"email"`
	Page      auth.Page `json:"page"`
	ExpiresAt time.Time `json:"expires_at"`
}

func decodeCredentials(r *http.Request) (credentials, bool) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		return credentials{}, false
	}
	return c, true
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := s.sessions.Login(c.Email)
	switch {
	case errors.Is(err, auth.ErrEmptyEmail):
		writeError(w, http.StatusBadRequest, msgEmptyFields)
		return
	case err != nil:
		zap.L().Info("server: login rejected", zap.Error(err))
		writeError(w, http.StatusUnauthorized, msgInvalidEmail)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, sessionResponse{
		SessionID: sess.ID,
		Email:     sess.Email,
		Page:      sess.Page,
		ExpiresAt: sess.ExpiresAt,
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := s.sessions.Directory().SignUp(c.Email)
	switch {
	case errors.Is(err, auth.ErrEmptyEmail):
		writeError(w, http.StatusBadRequest, msgEmptyFields)
		return
	case errors.Is(err, auth.ErrEmailExists):
		writeError(w, http.StatusConflict, msgEmailExists)
		return
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"status": "created", "page": auth.PageLogin})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if id := sessionID(r); id != "" {
		_ = s.sessions.Logout(id)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]any{"status": "logged_out", "page": auth.PageLogin})
}

// requireSession resolves the caller's session from the cookie or a bearer
// token and rejects the request when there is none.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := sessionID(r)
		if id == "" {
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		sess, err := s.sessions.Get(id)
		if err != nil {
			writeError(w, http.StatusUnauthorized, msgUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), ctxKey{}, &sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionID(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(SessionCookie); err == nil {
		return c.Value
	}
	return ""
}
