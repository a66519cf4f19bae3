package reporting

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchpoint/internal/notifier"
	"github.com/mauv0809/matchpoint/internal/pubsub"
	"github.com/mauv0809/matchpoint/internal/result"
	"github.com/mauv0809/matchpoint/internal/scoring"
	"github.com/mauv0809/matchpoint/internal/store"
	"golang.org/x/sync/errgroup"
)

// notifyingBackend persists through inner and then announces the change.
// Announcements never fail the action: the result is already stored.
type notifyingBackend struct {
	svc    *Service
	inner  result.Backend
	match  store.Match
	actor  string
	dryRun bool
}

var _ result.Backend = (*notifyingBackend)(nil)

func (b *notifyingBackend) SubmitResult(ctx context.Context, payload result.Payload) error {
	if b.dryRun {
		log.Info("[Dry Run] Would store result", "matchID", b.match.ID, "kind", payload.Kind())
	} else if err := b.inner.SubmitResult(ctx, payload); err != nil {
		return err
	}
	b.announce(ctx, pubsub.EventResultSubmitted, payload, "")
	return nil
}

func (b *notifyingBackend) ConfirmResult(ctx context.Context) error {
	if b.dryRun {
		log.Info("[Dry Run] Would confirm result", "matchID", b.match.ID)
	} else if err := b.inner.ConfirmResult(ctx); err != nil {
		return err
	}
	b.announce(ctx, pubsub.EventResultConfirmed, b.storedPayload(ctx), "")
	return nil
}

func (b *notifyingBackend) DisputeResult(ctx context.Context, reason string) error {
	if b.dryRun {
		log.Info("[Dry Run] Would dispute result", "matchID", b.match.ID, "reason", reason)
	} else if err := b.inner.DisputeResult(ctx, reason); err != nil {
		return err
	}
	b.announce(ctx, pubsub.EventResultDisputed, b.storedPayload(ctx), reason)
	return nil
}

func (b *notifyingBackend) storedPayload(ctx context.Context) result.Payload {
	rec, err := b.svc.store.GetResult(ctx, b.match.ID)
	if err != nil {
		log.Warn("Could not load result for notification", "matchID", b.match.ID, "error", err)
		return nil
	}
	return rec.Payload
}

// announce publishes the event and sends the Slack message concurrently.
// Both sends share the caller's ctx; one failing never cancels the other.
func (b *notifyingBackend) announce(ctx context.Context, event pubsub.EventType, payload result.Payload, reason string) {
	player, _ := b.match.Player(b.actor)
	var g errgroup.Group

	if b.svc.publisher != nil && !b.dryRun {
		ev := pubsub.ResultEvent{
			MatchID:    b.match.ID,
			ActorID:    b.actor,
			Side:       player.Side,
			Reason:     reason,
			OccurredAt: time.Now().Unix(),
		}
		if payload != nil {
			ev.Kind = payload.Kind()
		}
		g.Go(func() error {
			if err := b.svc.publisher.SendMessage(ctx, event, ev); err != nil {
				log.Warn("Failed to publish result event", "matchID", b.match.ID, "event", event, "error", err)
			}
			return nil
		})
	}

	if b.svc.notifier != nil {
		n := b.notification(payload, player.Name, reason)
		var send func(context.Context, notifier.ResultNotification, bool) error
		switch event {
		case pubsub.EventResultSubmitted:
			send = b.svc.notifier.SendResultSubmitted
		case pubsub.EventResultConfirmed:
			send = b.svc.notifier.SendResultConfirmed
		case pubsub.EventResultDisputed:
			send = b.svc.notifier.SendResultDisputed
		}
		g.Go(func() error {
			if err := send(ctx, n, b.dryRun); err != nil {
				log.Warn("Failed to notify result change", "matchID", b.match.ID, "event", event, "error", err)
			}
			return nil
		})
	}

	_ = g.Wait()
}

func (b *notifyingBackend) notification(payload result.Payload, actorName, reason string) notifier.ResultNotification {
	n := notifier.ResultNotification{
		MatchID:   b.match.ID,
		Sport:     b.match.Sport,
		Venue:     b.match.Venue,
		StartTime: b.match.StartTime,
		Actor:     actorName,
		Payload:   payload,
		Reason:    reason,
	}
	if r, ok := payload.(result.NormalResult); ok && len(r.Team1) > 0 {
		n.Team1, n.Team2 = b.names(r.Team1), b.names(r.Team2)
		return n
	}
	for _, p := range b.match.Players {
		if p.Side == scoring.SideA {
			n.Team1 = append(n.Team1, p.Name)
		} else {
			n.Team2 = append(n.Team2, p.Name)
		}
	}
	return n
}

func (b *notifyingBackend) names(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if p, ok := b.match.Player(id); ok {
			out = append(out, p.Name)
		} else {
			out = append(out, id)
		}
	}
	return out
}
