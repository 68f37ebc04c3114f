package httpapi

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/akarpov87/pagevault/internal/server/auth"
)

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		failure(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.adminPassword)) != 1 {
		unauthorized(w)
		return
	}

	token, err := auth.GenerateToken([]byte(s.secretKey), s.tokenValidity)
	if err != nil {
		s.logger.Error(r.Context(), "token generation failed", "error", err.Error())
		failure(w, http.StatusInternalServerError, "internal error")
		return
	}

	success(w, loginResponse{Token: token})
}

func (s *Server) handleCheckAuth(w http.ResponseWriter, _ *http.Request) {
	success(w, nil)
}
