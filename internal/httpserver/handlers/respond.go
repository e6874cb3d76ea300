package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"tidewatch/internal/domain"
)

// maxBodyBytes bounds request bodies; every request here is a small
// JSON document.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the uniform failure payload.
type errorBody struct {
	Status  domain.ResultStatus `json:"status"`
	Message string              `json:"message"`
}

func writeError(w http.ResponseWriter, httpStatus int, msg string) {
	writeJSON(w, httpStatus, errorBody{Status: domain.StatusError, Message: msg})
}

// decodeJSON parses the request body into dst and reports a client
// error on malformed input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// sessionToken resolves the caller's session token: the Authorization
// bearer header wins, the body field is the fallback.
func sessionToken(r *http.Request, bodyToken string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(tok)
		}
	}
	return bodyToken
}

// clampLimit applies a default and a hard ceiling to client limits.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
