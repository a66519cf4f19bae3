package http

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mauv0809/matchpoint/internal/config"
	"github.com/mauv0809/matchpoint/internal/database"
	"github.com/mauv0809/matchpoint/internal/metrics"
	"github.com/mauv0809/matchpoint/internal/notifier"
	"github.com/mauv0809/matchpoint/internal/pubsub"
	"github.com/mauv0809/matchpoint/internal/reporting"
	"github.com/mauv0809/matchpoint/internal/result"
	"github.com/mauv0809/matchpoint/internal/scoresheet"
	"github.com/mauv0809/matchpoint/internal/scoring"
	"github.com/mauv0809/matchpoint/internal/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestServer initializes a new server with a test database and mock clients.
func setupTestServer(t *testing.T) (*Server, *notifier.Mock) {
	t.Helper()

	db, dbTeardown, err := database.InitDB(":memory:", "", "")
	require.NoError(t, err)
	t.Cleanup(dbTeardown)

	resultStore := store.New(db)
	reg := prometheus.NewRegistry()
	metricsSvc := metrics.NewService(reg)
	metricsHandler := metrics.NewMetricsHandler(reg)
	mockNotifier := notifier.NewMock()
	ps := pubsub.NewMock()
	svc := reporting.New(resultStore, mockNotifier, metricsSvc, ps)

	ctx := context.Background()
	require.NoError(t, resultStore.UpsertMatch(ctx, store.Match{
		ID: "singles", Sport: scoring.SportTennis, Format: scoring.FormatSingles, Competition: result.Competitive,
		StartTime: time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC),
		Players: []store.Player{
			{Participant: result.Participant{ID: "p1", Name: "Ana", Side: scoring.SideA}, IsCaptain: true},
			{Participant: result.Participant{ID: "p2", Name: "Ben", Side: scoring.SideB}, IsCaptain: true},
		},
	}))
	require.NoError(t, resultStore.UpsertMatch(ctx, store.Match{
		ID: "doubles", Sport: scoring.SportPadel, Format: scoring.FormatDoubles, Competition: result.Competitive,
		StartTime: time.Date(2026, 6, 2, 18, 0, 0, 0, time.UTC),
		Players: []store.Player{
			{Participant: result.Participant{ID: "p1", Name: "Ana", Side: scoring.SideA}, IsCaptain: true},
			{Participant: result.Participant{ID: "p2", Name: "Ben", Side: scoring.SideA}},
			{Participant: result.Participant{ID: "p3", Name: "Cleo", Side: scoring.SideB}, IsCaptain: true},
			{Participant: result.Participant{ID: "p4", Name: "Dan", Side: scoring.SideB}},
		},
	}))

	return NewServer(svc, resultStore, metricsSvc, metricsHandler, config.Config{}, ps), mockNotifier
}

func do(t *testing.T, s *Server, method, target, actor string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, target, &buf)
	require.NoError(t, err)
	if actor != "" {
		req.Header.Set(ActorHeader, actor)
	}
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheckHandler(t *testing.T) {
	server, _ := setupTestServer(t)

	rr := do(t, server, "GET", "/health", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code, "handler returned wrong status code")
	assert.Equal(t, "OK!", rr.Body.String(), "handler returned unexpected body")
}

func TestMetricsEndpoint(t *testing.T) {
	server, _ := setupTestServer(t)
	server.Metrics.IncResultsSubmitted("NORMAL")

	rr := do(t, server, "GET", "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "results_submitted")
}

func TestValidateHandler(t *testing.T) {
	server, _ := setupTestServer(t)

	t.Run("valid sheet", func(t *testing.T) {
		rr := do(t, server, "POST", "/validate", "", map[string]any{
			"sport":   "padel",
			"entries": []map[string]int{{"team1": 6, "team2": 4}, {"team1": 6, "team2": 3}},
		})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		var scores scoresheet.Scores
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &scores))
		assert.Len(t, scores.Sets, 2)
	})

	t.Run("missing tiebreak names the set", func(t *testing.T) {
		rr := do(t, server, "POST", "/validate", "", map[string]any{
			"sport":   "TENNIS",
			"entries": []map[string]int{{"team1": 6, "team2": 4}, {"team1": 7, "team2": 6}},
		})
		assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Entry)
	})

	t.Run("unknown sport", func(t *testing.T) {
		rr := do(t, server, "POST", "/validate", "", map[string]any{"sport": "squash"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing sport", func(t *testing.T) {
		rr := do(t, server, "POST", "/validate", "", map[string]any{})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestResultFlow(t *testing.T) {
	server, mockNotifier := setupTestServer(t)

	rr := do(t, server, "POST", "/matches/singles/result", "", map[string]any{})
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "actor header is required")

	rr = do(t, server, "POST", "/matches/singles/result", "p1", map[string]any{
		"entries": []map[string]int{{"team1": 6, "team2": 4}, {"team1": 6, "team2": 3}},
		"comment": "close one",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Len(t, mockNotifier.Submitted(), 1)

	rr = do(t, server, "GET", "/matches/singles", "p2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var view struct {
		Mode        result.Mode        `json:"mode"`
		Affordances result.Affordances `json:"affordances"`
		Result      struct {
			Status store.Status `json:"status"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, result.ModeReview, view.Mode)
	assert.True(t, view.Affordances.Confirm)
	assert.Equal(t, store.StatusPending, view.Result.Status)

	rr = do(t, server, "POST", "/matches/singles/confirm", "p1", nil)
	assert.Equal(t, http.StatusForbidden, rr.Code, "the submitter cannot confirm")

	rr = do(t, server, "POST", "/matches/singles/confirm", "p2", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Len(t, mockNotifier.Confirmed(), 1)

	rr = do(t, server, "POST", "/matches/singles/result", "p1", map[string]any{"kind": "CANCELLED", "edit": true})
	assert.Equal(t, http.StatusForbidden, rr.Code, "a confirmed result is read-only")
}

func TestDisputeHandler(t *testing.T) {
	server, mockNotifier := setupTestServer(t)

	rr := do(t, server, "POST", "/matches/singles/result", "p1", map[string]any{
		"kind":     "WALKOVER",
		"walkover": map[string]string{"reason": "NO_SHOW"},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, server, "POST", "/matches/singles/dispute", "p2", map[string]string{"reason": "I was on court"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	require.Len(t, mockNotifier.Disputed(), 1)
	assert.Equal(t, "I was on court", mockNotifier.Disputed()[0].Reason)

	rr = do(t, server, "GET", "/matches/singles", "p1", nil)
	assert.Contains(t, rr.Body.String(), `"mode":"DISPUTED"`)
}

func TestSubmitResultHandler_Errors(t *testing.T) {
	server, _ := setupTestServer(t)

	tests := []struct {
		name   string
		match  string
		actor  string
		body   map[string]any
		status int
	}{
		{"unknown match", "nope", "p1", map[string]any{}, http.StatusNotFound},
		{"no scores", "singles", "p1", map[string]any{}, http.StatusUnprocessableEntity},
		{"bad kind", "singles", "p1", map[string]any{"kind": "FORFEIT"}, http.StatusBadRequest},
		{"casual in a competitive match", "singles", "p1", map[string]any{"kind": "CASUAL", "comment": "hit"}, http.StatusForbidden},
		{"walkover without reason", "singles", "p1", map[string]any{"kind": "WALKOVER"}, http.StatusUnprocessableEntity},
		{"non captain in doubles", "doubles", "p2", map[string]any{"entries": []map[string]int{{"team1": 6, "team2": 1}, {"team1": 6, "team2": 1}}}, http.StatusForbidden},
		{"outsider", "singles", "stranger", map[string]any{"kind": "CANCELLED"}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, server, "POST", "/matches/"+tt.match+"/result", tt.actor, tt.body)
			assert.Equal(t, tt.status, rr.Code, rr.Body.String())
		})
	}
}

func TestCommentHandlers(t *testing.T) {
	server, _ := setupTestServer(t)

	rr := do(t, server, "POST", "/matches/singles/comments", "p1", map[string]string{"text": "too early"})
	assert.Equal(t, http.StatusConflict, rr.Code, "no comments before a result is submitted")

	rr = do(t, server, "POST", "/matches/singles/result", "p1", map[string]any{"kind": "CANCELLED"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, server, "POST", "/matches/singles/comments", "p1", map[string]string{"text": "good game"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created commentResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "p1", created.AuthorID)
	assert.True(t, created.CanEdit)

	rr = do(t, server, "GET", "/matches/singles/comments", "p2", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list []commentResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.False(t, list[0].CanEdit)

	rr = do(t, server, "PUT", "/matches/singles/comments/"+created.ID, "p2", map[string]string{"text": "hijack"})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = do(t, server, "PUT", "/matches/singles/comments/"+created.ID, "p1", map[string]string{"text": "great game"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "great game")
	var updated commentResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.True(t, updated.CanEdit)

	rr = do(t, server, "POST", "/matches/singles/comments", "p1", map[string]string{"text": "   "})
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	rr = do(t, server, "DELETE", "/matches/singles/comments/missing", "p1", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = do(t, server, "POST", "/matches/singles/comments", "p1", map[string]string{"text": "rematch?"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = do(t, server, "DELETE", "/matches/singles/comments/"+created.ID, "p1", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	t.Run("disputed result", func(t *testing.T) {
		rr := do(t, server, "POST", "/matches/singles/dispute", "p2", map[string]string{"reason": "we never played"})
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		rr = do(t, server, "GET", "/matches/singles/comments", "p1", nil)
		require.Equal(t, http.StatusOK, rr.Code)
		var list []commentResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
		require.Len(t, list, 1)
		assert.False(t, list[0].CanEdit)

		rr = do(t, server, "POST", "/matches/singles/comments", "p1", map[string]string{"text": "one more thing"})
		assert.Equal(t, http.StatusConflict, rr.Code)
		rr = do(t, server, "PUT", "/matches/singles/comments/"+list[0].ID, "p1", map[string]string{"text": "changed"})
		assert.Equal(t, http.StatusConflict, rr.Code)
		rr = do(t, server, "DELETE", "/matches/singles/comments/"+list[0].ID, "p1", nil)
		assert.Equal(t, http.StatusConflict, rr.Code)
	})
}

func TestImportWithoutImporter(t *testing.T) {
	server, _ := setupTestServer(t)

	rr := do(t, server, "POST", "/matches/m9/import", "", map[string]string{"external_id": "pt-1"})
	assert.Equal(t, http.StatusNotImplemented, rr.Code)

	rr = do(t, server, "POST", "/matches/m9/import", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestResultEventHandler(t *testing.T) {
	server, _ := setupTestServer(t)

	data, err := pubsub.Encode(pubsub.ResultEvent{MatchID: "singles", Kind: result.KindNormal, ActorID: "p1"})
	require.NoError(t, err)
	body := map[string]any{
		"subscription": "projects/x/subscriptions/results",
		"message":      map[string]string{"data": base64.StdEncoding.EncodeToString(data)},
	}

	rr := do(t, server, "POST", "/pubsub/result-events", "", body)
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = do(t, server, "POST", "/pubsub/result-events", "", map[string]any{"message": map[string]string{"data": "%%%"}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestListMatchesHandler(t *testing.T) {
	server, _ := setupTestServer(t)

	rr := do(t, server, "GET", "/matches", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var matches []store.Match
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &matches))
	assert.Len(t, matches, 2)
}
