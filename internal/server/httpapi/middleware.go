package httpapi

import (
	"net/http"
	"strings"

	"github.com/akarpov87/pagevault/internal/common"
	"github.com/akarpov87/pagevault/internal/server/auth"
)

// withAuth rejects requests lacking a valid bearer token with HTTP 401.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthHeaderName)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			unauthorized(w)
			return
		}
		if err := auth.VerifyToken(token, []byte(s.secretKey)); err != nil {
			unauthorized(w)
			return
		}
		next(w, r)
	}
}
