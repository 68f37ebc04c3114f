package httpapi

import (
	"encoding/json"
	"net/http"
)

// Result is the uniform response envelope. Application-level failures still
// travel as HTTP 200 with a non-200 code inside; only authentication
// failures use the HTTP status line.
type Result struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func writeResult(w http.ResponseWriter, status int, res Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(res)
}

func success(w http.ResponseWriter, data any) {
	writeResult(w, http.StatusOK, Result{Code: http.StatusOK, Message: "ok", Data: data})
}

func failure(w http.ResponseWriter, code int, message string) {
	writeResult(w, http.StatusOK, Result{Code: code, Message: message})
}

func unauthorized(w http.ResponseWriter) {
	writeResult(w, http.StatusUnauthorized, Result{Code: http.StatusUnauthorized, Message: "unauthorized"})
}
