package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"cartotaco/auth"
	"cartotaco/models"
	"cartotaco/submissions"
	"cartotaco/validation"
)

// submissionPayload is the client-supplied portion of a submission.
type submissionPayload struct {
	Name             string  `json:"name"`
	Type             string  `json:"type"`
	Address          string  `json:"address"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	ShortDescription string  `json:"short_description"`
	LongDescription  string  `json:"long_description"`
	Phone            string  `json:"phone"`
	Website          string  `json:"website"`
	Instagram        string  `json:"instagram"`
	Facebook         string  `json:"facebook"`
}

func (p submissionPayload) toModel() models.Submission {
	return models.Submission{
		Name:             p.Name,
		Type:             p.Type,
		Address:          p.Address,
		Latitude:         p.Latitude,
		Longitude:        p.Longitude,
		ShortDescription: p.ShortDescription,
		LongDescription:  p.LongDescription,
		Phone:            p.Phone,
		Website:          p.Website,
		Instagram:        p.Instagram,
		Facebook:         p.Facebook,
	}
}

// decodeSubmission parses and validates the request body, writing the
// per-field errors on failure.
func decodeSubmission(w http.ResponseWriter, r *http.Request) (models.Submission, bool) {
	var payload submissionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return models.Submission{}, false
	}

	sub := payload.toModel()
	if fieldErrors := validation.ValidateSubmission(sub); len(fieldErrors) > 0 {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":  "validation failed",
			"fields": fieldErrors,
		})
		return models.Submission{}, false
	}
	return sub, true
}

// CreateSubmissionHandler accepts a new location for admin review.
func CreateSubmissionHandler(subs *submissions.Store, provider auth.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(w, r, provider)
		if !ok {
			return
		}
		sub, ok := decodeSubmission(w, r)
		if !ok {
			return
		}

		created, err := subs.Create(r.Context(), user.ID, sub)
		if err != nil {
			writeError(w, http.StatusBadGateway, "failed to submit location")
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// ListSubmissionsHandler lists the user's submissions, optionally by
// status.
func ListSubmissionsHandler(subs *submissions.Store, provider auth.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(w, r, provider)
		if !ok {
			return
		}

		status := r.URL.Query().Get("status")
		switch status {
		case "", models.SubmissionPending, models.SubmissionApproved, models.SubmissionRejected:
		default:
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}

		list, err := subs.List(r.Context(), user.ID, status)
		if err != nil {
			writeError(w, http.StatusBadGateway, "failed to fetch submissions")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"submissions": list,
			"count":       len(list),
		})
	}
}

// GetSubmissionHandler returns one of the user's submissions.
func GetSubmissionHandler(subs *submissions.Store, provider auth.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(w, r, provider)
		if !ok {
			return
		}

		sub, err := subs.Get(r.Context(), user.ID, r.PathValue("id"))
		if errors.Is(err, submissions.ErrNotFound) {
			writeError(w, http.StatusNotFound, "submission not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusBadGateway, "failed to fetch submission")
			return
		}
		writeJSON(w, http.StatusOK, sub)
	}
}

// UpdateSubmissionHandler edits a still-pending submission.
func UpdateSubmissionHandler(subs *submissions.Store, provider auth.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(w, r, provider)
		if !ok {
			return
		}
		sub, ok := decodeSubmission(w, r)
		if !ok {
			return
		}

		err := subs.Update(r.Context(), user.ID, r.PathValue("id"), sub)
		if errors.Is(err, submissions.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no pending submission to update")
			return
		}
		if err != nil {
			writeError(w, http.StatusBadGateway, "failed to update submission")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
	}
}

// DeleteSubmissionHandler withdraws a still-pending submission.
func DeleteSubmissionHandler(subs *submissions.Store, provider auth.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(w, r, provider)
		if !ok {
			return
		}

		err := subs.Delete(r.Context(), user.ID, r.PathValue("id"))
		if errors.Is(err, submissions.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no pending submission to delete")
			return
		}
		if err != nil {
			writeError(w, http.StatusBadGateway, "failed to delete submission")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	}
}

// SubmissionStatsHandler summarizes the user's submissions by status.
func SubmissionStatsHandler(subs *submissions.Store, provider auth.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := requireUser(w, r, provider)
		if !ok {
			return
		}

		stats, err := subs.Stats(r.Context(), user.ID)
		if err != nil {
			writeError(w, http.StatusBadGateway, "failed to fetch statistics")
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
