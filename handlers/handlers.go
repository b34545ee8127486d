// Package handlers implements the JSON HTTP surface over the site store,
// favorites, submissions, and the geocoding collaborator.
package handlers

import (
	"encoding/json"
	"net/http"

	"cartotaco/auth"
	"cartotaco/models"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// requireUser resolves the request's user or writes a 401 and reports
// failure. Provider errors all map to the same clean unauthenticated
// response.
func requireUser(w http.ResponseWriter, r *http.Request, provider auth.Provider) (*models.User, bool) {
	user, err := provider.CurrentUser(r)
	if err != nil || user == nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return nil, false
	}
	return user, true
}
