package pubsub

import (
	"cloud.google.com/go/pubsub"
	"github.com/mauv0809/matchpoint/internal/result"
	"github.com/mauv0809/matchpoint/internal/scoring"
)

type client struct {
	client   *pubsub.Client
	teardown func()
}

// EventType represents the type of event/message sent via pubsub. It doubles
// as the topic name.
type EventType string

const (
	EventResultSubmitted EventType = "result-submitted"
	EventResultConfirmed EventType = "result-confirmed"
	EventResultDisputed  EventType = "result-disputed"
)

// ResultEvent is published whenever a result changes state.
type ResultEvent struct {
	MatchID    string       `msgpack:"match_id"`
	Kind       result.Kind  `msgpack:"kind,omitempty"`
	ActorID    string       `msgpack:"actor_id"`
	Side       scoring.Side `msgpack:"side"`
	Reason     string       `msgpack:"reason,omitempty"`
	OccurredAt int64        `msgpack:"occurred_at"`
}
