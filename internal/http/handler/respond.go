package handler

import (
	"encoding/json"
	"net/http"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError emits the error envelope: a user-safe message plus an
// optional machine-readable tag. Internal detail never goes here.
func writeError(w http.ResponseWriter, status int, message string, tag ...string) {
	body := map[string]any{"message": message}
	if len(tag) > 0 {
		body["error"] = tag[0]
	}
	writeJSON(w, status, body)
}
