package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchpoint/internal/comments"
	"github.com/mauv0809/matchpoint/internal/inflight"
	"github.com/mauv0809/matchpoint/internal/playtomic"
	"github.com/mauv0809/matchpoint/internal/reporting"
	"github.com/mauv0809/matchpoint/internal/result"
	"github.com/mauv0809/matchpoint/internal/scoresheet"
	"github.com/mauv0809/matchpoint/internal/store"
	"github.com/mauv0809/matchpoint/internal/teams"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response", "error", err)
	}
}

// decode reads a JSON body into v and validates it. It writes the error
// response itself and reports whether the handler should continue.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Warn("Invalid request body", "url", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return false
	}
	if err := validate.Struct(v); err != nil {
		log.Warn("Request failed validation", "url", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}

var statusByError = []struct {
	err    error
	status int
}{
	{store.ErrNotFound, http.StatusNotFound},
	{comments.ErrCommentNotFound, http.StatusNotFound},
	{inflight.ErrBusy, http.StatusConflict},
	{store.ErrResultLocked, http.StatusConflict},
	{result.ErrClosed, http.StatusConflict},
	{comments.ErrReadOnly, http.StatusConflict},
	{result.ErrNotCaptain, http.StatusForbidden},
	{result.ErrActionUnavailable, http.StatusForbidden},
	{result.ErrCasualNotAllowed, http.StatusForbidden},
	{store.ErrNotReviewer, http.StatusForbidden},
	{comments.ErrNotAuthor, http.StatusForbidden},
	{reporting.ErrImportDisabled, http.StatusNotImplemented},
	{playtomic.ErrUnsupportedMatch, http.StatusUnprocessableEntity},
	{scoresheet.ErrNoScoresEntered, http.StatusUnprocessableEntity},
	{scoresheet.ErrMissingExtendedScore, http.StatusUnprocessableEntity},
	{scoresheet.ErrInvalidExtendedScore, http.StatusUnprocessableEntity},
	{scoresheet.ErrNegativeScore, http.StatusUnprocessableEntity},
	{result.ErrEntryNotPlayable, http.StatusUnprocessableEntity},
	{result.ErrIncompleteTeamAssignment, http.StatusUnprocessableEntity},
	{result.ErrMissingWalkoverReason, http.StatusUnprocessableEntity},
	{result.ErrMissingWalkoverDetail, http.StatusUnprocessableEntity},
	{result.ErrUnknownParticipant, http.StatusUnprocessableEntity},
	{result.ErrMissingComment, http.StatusUnprocessableEntity},
	{comments.ErrEmptyComment, http.StatusUnprocessableEntity},
	{teams.ErrPlayerAlreadyAssigned, http.StatusUnprocessableEntity},
	{teams.ErrUnknownSlot, http.StatusUnprocessableEntity},
}

// writeError maps domain errors to status codes. Anything unknown is a 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			status = e.status
			break
		}
	}
	resp := errorResponse{Error: err.Error()}
	var entryErr *scoresheet.EntryError
	if errors.As(err, &entryErr) {
		resp.Entry = entryErr.Index + 1
	}
	if status == http.StatusInternalServerError {
		log.Error("Request failed", "error", err)
	}
	writeJSON(w, status, resp)
}
