// Package handlers exposes the research services over HTTP.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ternarybob/prospecto/internal/models"
	"github.com/ternarybob/prospecto/internal/services/llm"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError renders any service failure as its error descriptor. The
// services already return descriptors; anything else is normalized here as
// a backstop.
func writeError(w http.ResponseWriter, err error) {
	desc, ok := models.AsErrorDescriptor(err)
	if !ok {
		desc = llm.Normalize(err)
	}

	writeJSON(w, statusFor(desc), map[string]interface{}{
		"success": false,
		"error":   desc,
	})
}

func statusFor(desc *models.ErrorDescriptor) int {
	switch desc.Title {
	case "Invalid Request":
		return http.StatusBadRequest
	case "Missing API Key", "Authentication Error":
		return http.StatusUnauthorized
	case "Permission Denied":
		return http.StatusForbidden
	case "Entity Not Found", "Resource Not Found":
		return http.StatusNotFound
	case "Rate Limit Exceeded":
		return http.StatusTooManyRequests
	case "Service Overloaded":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
