package notifier

import (
	"context"
	"time"

	"github.com/mauv0809/matchpoint/internal/result"
	"github.com/mauv0809/matchpoint/internal/scoring"
)

// Notifier defines a high-level interface for sending notifications about result events.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	SendResultSubmitted(ctx context.Context, n ResultNotification, dryRun bool) error
	SendResultConfirmed(ctx context.Context, n ResultNotification, dryRun bool) error
	SendResultDisputed(ctx context.Context, n ResultNotification, dryRun bool) error
}

// ResultNotification carries what a message about a result needs to show.
type ResultNotification struct {
	MatchID   string
	Sport     scoring.Sport
	Venue     string
	StartTime time.Time
	// Team1 and Team2 hold player names.
	Team1   []string
	Team2   []string
	Actor   string
	Payload result.Payload
	Reason  string
}
