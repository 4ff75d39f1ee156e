package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// rejection mirrors httpx.ErrorEnvelope; httpx imports this package, so the
// shape is repeated here.
type rejection struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	RequestID string `json:"requestId"`
}

// reject ends a request that middleware refused before it reached a handler.
func reject(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	requestID := RequestIDFromContext(r.Context())
	slog.Warn("request_rejected",
		"request_id", requestID,
		"path", r.URL.Path,
		"status", status,
		"code", code,
	)

	var body rejection
	body.Error.Code = code
	body.Error.Message = message
	body.RequestID = requestID

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
