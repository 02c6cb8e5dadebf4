package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/wisdombook/internal/common"
	"github.com/dmitrijs2005/wisdombook/internal/server/auth"
)

type ctxKey string

const subjectKey ctxKey = "subject"

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := auth.CheckPassword(s.passwordHash, in.Password); err != nil {
		s.logger.Warn(r.Context(), "admin login rejected", "remote", r.RemoteAddr)
		s.writeError(w, r, err)
		return
	}

	token, err := auth.GenerateToken(auth.AdminSubject, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "admin logged in", "remote", r.RemoteAddr)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: time.Now().Add(s.tokenTTL)})
}

// requireAdmin rejects requests without a valid admin bearer token.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			s.writeError(w, r, common.ErrUnauthorized)
			return
		}

		subject, err := auth.SubjectFromToken(strings.TrimSpace(token), s.jwtSecret)
		if err != nil {
			s.writeError(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), subjectKey, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
