package http

import (
	"net/http"

	"github.com/mauv0809/matchpoint/internal/comments"
	"github.com/mauv0809/matchpoint/internal/config"
	"github.com/mauv0809/matchpoint/internal/metrics"
	"github.com/mauv0809/matchpoint/internal/pubsub"
	"github.com/mauv0809/matchpoint/internal/reporting"
	"github.com/mauv0809/matchpoint/internal/result"
	"github.com/mauv0809/matchpoint/internal/store"
)

type Server struct {
	Reporting      *reporting.Service
	Store          store.ResultStore
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}

// entryRequest is one set or game as typed by the player.
type entryRequest struct {
	Team1         int  `json:"team1"`
	Team2         int  `json:"team2"`
	Team1Extended *int `json:"team1_extended,omitempty"`
	Team2Extended *int `json:"team2_extended,omitempty"`
}

type validateRequest struct {
	Sport      string         `json:"sport" validate:"required"`
	Entries    []entryRequest `json:"entries" validate:"max=3"`
	Unfinished bool           `json:"unfinished"`
}

type teamsRequest struct {
	Team1 [2]string `json:"team1"`
	Team2 [2]string `json:"team2"`
}

type submitRequest struct {
	Kind       result.Kind            `json:"kind" validate:"omitempty,oneof=NORMAL CASUAL WALKOVER CANCELLED"`
	Entries    []entryRequest         `json:"entries" validate:"max=3"`
	Unfinished bool                   `json:"unfinished"`
	Comment    string                 `json:"comment" validate:"max=1000"`
	Walkover   *result.WalkoverReport `json:"walkover,omitempty" validate:"-"`
	Teams      *teamsRequest          `json:"teams,omitempty"`
	// Edit reopens the actor's own pending submission.
	Edit bool `json:"edit"`
}

type disputeRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type commentRequest struct {
	Text string `json:"text" validate:"required,max=1000"`
}

type importRequest struct {
	ExternalID string `json:"external_id" validate:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
	// Entry is the 1-based set or game the error was found in.
	Entry int `json:"entry,omitempty"`
}

type commentResponse struct {
	comments.Entry
	CanEdit bool `json:"can_edit"`
}

type matchResponse struct {
	Match       store.Match        `json:"match"`
	Result      *store.Record      `json:"result,omitempty"`
	Mode        result.Mode        `json:"mode"`
	Affordances result.Affordances `json:"affordances"`
	Comments    []commentResponse  `json:"comments"`
}

type importResponse struct {
	Match  store.Match     `json:"match"`
	Played bool            `json:"played"`
	Sheet  []entryResponse `json:"sheet"`
}

type entryResponse struct {
	Team1         int  `json:"team1"`
	Team2         int  `json:"team2"`
	Team1Extended *int `json:"team1_extended,omitempty"`
	Team2Extended *int `json:"team2_extended,omitempty"`
}
