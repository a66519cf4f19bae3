package http

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/mauv0809/matchpoint/internal/comments"
	"github.com/mauv0809/matchpoint/internal/pubsub"
	"github.com/mauv0809/matchpoint/internal/reporting"
	"github.com/mauv0809/matchpoint/internal/result"
	"github.com/mauv0809/matchpoint/internal/scoresheet"
	"github.com/mauv0809/matchpoint/internal/scoring"
	"github.com/mauv0809/matchpoint/internal/store"
	"github.com/mauv0809/matchpoint/internal/teams"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

func (s *Server) ClearStoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Received request to clear entire store")
		if isDryRunFromContext(r) {
			log.Info("[Dry Run] Would clear store")
			w.WriteHeader(http.StatusOK)
			return
		}
		if err := s.Store.Clear(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Store cleared!")
		log.Info("Store cleared successfully")
	}
}

// ValidateHandler checks a score sheet without touching any match.
func (s *Server) ValidateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req validateRequest
		if !decode(w, r, &req) {
			return
		}
		sport, err := scoring.ParseSport(req.Sport)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		scores, err := scoresheet.New(s.Reporting.Engine()).Validate(sport, sheetOf(req.Entries), req.Unfinished)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, scores)
	}
}

func (s *Server) ListMatchesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := s.Store.ListMatches(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if matches == nil {
			matches = []store.Match{}
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

// SyncHandler imports the club's recent Playtomic matches.
func (s *Server) SyncHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		daysStr := r.URL.Query().Get("days")
		daysToSubtract := 0
		if daysStr != "" {
			parsedDays, err := strconv.Atoi(daysStr)
			if err == nil && parsedDays > 0 {
				daysToSubtract = parsedDays
			} else {
				log.Warn("Invalid 'days' parameter provided. Defaulting to 0.", "days_param", daysStr)
			}
		}
		if s.Cfg.Playtomic.TenantID == "" {
			writeError(w, fmt.Errorf("%w: PLAYTOMIC_TENANT_ID is not set", reporting.ErrImportDisabled))
			return
		}

		since := time.Now().AddDate(0, 0, -daysToSubtract)
		stored, err := s.Reporting.Sync(r.Context(), s.Cfg.Playtomic.TenantID, since, isDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{"stored": stored})
	}
}

func (s *Server) GetMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		edit := r.URL.Query().Get("edit") == "true"
		session, err := s.Reporting.Open(r.Context(), r.PathValue("id"), actorFromRequest(r), edit, isDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, matchResponse{
			Match:       session.Match,
			Result:      session.Result,
			Mode:        session.Machine.Mode(),
			Affordances: session.Machine.Affordances(),
			Comments:    commentsOf(session.Thread),
		})
	}
}

func (s *Server) ImportMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req importRequest
		if !decode(w, r, &req) {
			return
		}
		imported, err := s.Reporting.Import(r.Context(), r.PathValue("id"), req.ExternalID, isDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		resp := importResponse{Match: imported.Match, Played: imported.Played, Sheet: []entryResponse{}}
		for _, e := range imported.Sheet {
			resp.Sheet = append(resp.Sheet, entryResponse{
				Team1:         e.Team1,
				Team2:         e.Team2,
				Team1Extended: e.Team1Extended,
				Team2Extended: e.Team2Extended,
			})
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) SubmitResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if !decode(w, r, &req) {
			return
		}
		session, err := s.Reporting.Open(r.Context(), r.PathValue("id"), actorFromRequest(r), req.Edit, isDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		if err := applyDraft(session.Machine, req); err != nil {
			writeError(w, err)
			return
		}
		if err := session.Machine.Submit(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, "Result submitted!")
	}
}

// applyDraft replays the request onto the machine the way a player would
// fill in the screen: intent first, then scores, teams and comment.
func applyDraft(m *result.Machine, req submitRequest) error {
	var intent result.Intent
	switch req.Kind {
	case result.KindCasual:
		intent = result.Casual{}
	case result.KindCancelled:
		intent = result.Cancelled{}
	case result.KindWalkover:
		report := result.WalkoverReport{}
		if req.Walkover != nil {
			report = *req.Walkover
		}
		intent = result.Walkover{Report: report}
	default:
		intent = result.Normal{Unfinished: req.Unfinished}
	}
	if err := m.SetIntent(intent); err != nil {
		return err
	}

	if _, normal := intent.(result.Normal); normal {
		for i := 0; i < scoring.MaxEntries; i++ {
			e := scoring.SetEntry{Index: i}
			if i < len(req.Entries) {
				e = entryOf(i, req.Entries[i])
			}
			err := m.SetEntry(e)
			if errors.Is(err, result.ErrEntryNotPlayable) && !e.Started() {
				continue
			}
			if err != nil {
				return err
			}
		}
	}

	if req.Teams != nil {
		slots := map[teams.Slot]string{
			teams.Team1Player1: req.Teams.Team1[0],
			teams.Team1Player2: req.Teams.Team1[1],
			teams.Team2Player1: req.Teams.Team2[0],
			teams.Team2Player2: req.Teams.Team2[1],
		}
		for slot := teams.Team1Player1; slot <= teams.Team2Player2; slot++ {
			if id := slots[slot]; id != "" {
				if err := m.SelectPlayer(slot, id); err != nil {
					return err
				}
			}
		}
	}

	return m.SetComment(req.Comment)
}

func (s *Server) ConfirmResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.Reporting.Open(r.Context(), r.PathValue("id"), actorFromRequest(r), false, isDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		if err := session.Machine.Confirm(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Result confirmed!")
	}
}

func (s *Server) DisputeResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req disputeRequest
		if !decode(w, r, &req) {
			return
		}
		session, err := s.Reporting.Open(r.Context(), r.PathValue("id"), actorFromRequest(r), false, isDryRunFromContext(r))
		if err != nil {
			writeError(w, err)
			return
		}
		if err := session.Machine.Dispute(r.Context(), req.Reason); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "Result disputed!")
	}
}

func (s *Server) ListCommentsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.Reporting.Open(r.Context(), r.PathValue("id"), actorFromRequest(r), false, false)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, commentsOf(session.Thread))
	}
}

func (s *Server) CreateCommentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req commentRequest
		if !decode(w, r, &req) {
			return
		}
		session, err := s.Reporting.Open(r.Context(), r.PathValue("id"), actorFromRequest(r), false, false)
		if err != nil {
			writeError(w, err)
			return
		}
		e, err := session.Thread.Create(r.Context(), req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, commentResponse{Entry: e, CanEdit: session.Thread.CanEdit(e)})
	}
}

func (s *Server) UpdateCommentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req commentRequest
		if !decode(w, r, &req) {
			return
		}
		session, err := s.Reporting.Open(r.Context(), r.PathValue("id"), actorFromRequest(r), false, false)
		if err != nil {
			writeError(w, err)
			return
		}
		e, err := session.Thread.Update(r.Context(), r.PathValue("commentID"), req.Text)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, commentResponse{Entry: e, CanEdit: session.Thread.CanEdit(e)})
	}
}

func (s *Server) DeleteCommentHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.Reporting.Open(r.Context(), r.PathValue("id"), actorFromRequest(r), false, false)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := session.Thread.Delete(r.Context(), r.PathValue("commentID")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ResultEventHandler receives result events pushed by a Pub/Sub subscription.
func (s *Server) ResultEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received result event", "body", string(bodyBytes))

		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data       string            `json:"data"`
				Attributes map[string]string `json:"attributes"`
			} `json:"message"`
		}
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		var event pubsub.ResultEvent
		process := pubsub.Decode
		if s.pubsub != nil {
			process = s.pubsub.ProcessMessage
		}
		if err := process(rawData, &event); err != nil {
			log.Error("Failed to decode result event", "error", err)
			http.Error(w, "Invalid event", http.StatusBadRequest)
			return
		}
		log.Info("Result event", "subscription", pubsubMsg.Subscription, "matchID", event.MatchID,
			"kind", event.Kind, "actor", event.ActorID, "side", event.Side, "reason", event.Reason,
			"at", time.Unix(event.OccurredAt, 0).UTC())
		w.Write([]byte("OK"))
	}
}

func entryOf(i int, e entryRequest) scoring.SetEntry {
	return scoring.SetEntry{
		Index:         i,
		Team1:         e.Team1,
		Team2:         e.Team2,
		Team1Extended: e.Team1Extended,
		Team2Extended: e.Team2Extended,
	}
}

func sheetOf(entries []entryRequest) scoring.Sheet {
	var sheet scoring.Sheet
	for i, e := range entries {
		sheet = sheet.Set(entryOf(i, e))
	}
	return sheet
}

func commentsOf(t *comments.Thread) []commentResponse {
	out := []commentResponse{}
	for _, e := range t.Entries() {
		out = append(out, commentResponse{Entry: e, CanEdit: t.CanEdit(e)})
	}
	return out
}
