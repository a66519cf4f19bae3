package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchpoint/internal/comments"
	"github.com/mauv0809/matchpoint/internal/metrics"
	"github.com/mauv0809/matchpoint/internal/playtomic"
	"github.com/mauv0809/matchpoint/internal/pubsub"
	"github.com/mauv0809/matchpoint/internal/result"
	"github.com/mauv0809/matchpoint/internal/scoring"
	"github.com/mauv0809/matchpoint/internal/store"
)

// Service wires stored matches to the result machine and comment thread and
// fans result changes out to subscribers.
type Service struct {
	store     store.ResultStore
	notifier  Notifier
	metrics   metrics.Metrics
	publisher pubsub.PubSubClient
	importer  Importer
	engine    *scoring.Engine
}

// Option configures optional collaborators.
type Option func(*Service)

// WithEngine overrides the default scoring rules.
func WithEngine(e *scoring.Engine) Option {
	return func(s *Service) { s.engine = e }
}

// WithImporter enables importing matches from Playtomic.
func WithImporter(i Importer) Option {
	return func(s *Service) { s.importer = i }
}

// New creates a new Service. notifier and publisher may be nil when the
// integration is not configured.
func New(store store.ResultStore, notifier Notifier, metrics metrics.Metrics, publisher pubsub.PubSubClient, opts ...Option) *Service {
	s := &Service{
		store:     store,
		notifier:  notifier,
		metrics:   metrics,
		publisher: publisher,
		engine:    scoring.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Engine returns the scoring rules the service validates with.
func (s *Service) Engine() *scoring.Engine {
	return s.engine
}

// Open loads a match and builds the actor's session for it. edit asks to
// reopen the actor's own pending submission.
func (s *Service) Open(ctx context.Context, matchID, actorID string, edit, dryRun bool) (*Session, error) {
	m, err := s.store.GetMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("load match %s: %w", matchID, err)
	}

	rec, err := s.store.GetResult(ctx, matchID)
	if errors.Is(err, store.ErrNotFound) {
		rec = nil
	} else if err != nil {
		return nil, fmt.Errorf("load result for %s: %w", matchID, err)
	}

	mode := ResolveMode(m, rec, actorID, edit)
	player, _ := m.Player(actorID)
	log.Debug("Opening result session", "matchID", matchID, "actor", actorID, "mode", mode)

	machine, err := result.New(result.Params{
		MatchID:     m.ID,
		Sport:       m.Sport,
		Format:      m.Format,
		Competition: m.Competition,
		Mode:        mode,
		ActorID:     actorID,
		Roster:      m.Roster(),
		IsCaptain:   player.IsCaptain,
		Existing:    rec.Existing(),
		Backend: &notifyingBackend{
			svc:    s,
			inner:  store.NewResultBackend(s.store, m, actorID),
			match:  m,
			actor:  actorID,
			dryRun: dryRun,
		},
		Metrics: s.metrics,
		Engine:  s.engine,
	})
	if err != nil {
		return nil, err
	}

	entries, err := s.store.ListComments(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("load comments for %s: %w", matchID, err)
	}
	var opts []comments.Option
	if !machine.Affordances().Comment {
		opts = append(opts, comments.ReadOnly())
	}
	thread := comments.New(actorID, store.NewCommentBackend(s.store, matchID, actorID), s.metrics, entries, opts...)

	return &Session{Match: m, Result: rec, Machine: machine, Thread: thread}, nil
}

// Import pulls externalID from Playtomic and stores it as matchID. The
// returned sheet holds the sets Playtomic already knows about.
func (s *Service) Import(ctx context.Context, matchID, externalID string, dryRun bool) (playtomic.Imported, error) {
	if s.importer == nil {
		return playtomic.Imported{}, ErrImportDisabled
	}
	imported, err := s.importer.Import(ctx, matchID, externalID)
	if err != nil {
		return playtomic.Imported{}, err
	}
	if dryRun {
		log.Info("[Dry Run] Would store imported match", "matchID", matchID, "externalID", externalID)
		return imported, nil
	}
	if err := s.store.UpsertMatch(ctx, imported.Match); err != nil {
		return playtomic.Imported{}, fmt.Errorf("store imported match %s: %w", matchID, err)
	}
	return imported, nil
}

// Sync imports the club's matches since the given time. Matches that already
// have a result keep their stored roster.
func (s *Service) Sync(ctx context.Context, tenantID string, since time.Time, dryRun bool) (int, error) {
	if s.importer == nil {
		return 0, ErrImportDisabled
	}
	matches, err := s.importer.Recent(ctx, tenantID, since)
	if err != nil {
		return 0, fmt.Errorf("fetch recent matches: %w", err)
	}

	stored := 0
	for _, imported := range matches {
		m := imported.Match
		if _, err := s.store.GetResult(ctx, m.ID); err == nil {
			log.Debug("Skipping match with a result", "matchID", m.ID)
			continue
		} else if !errors.Is(err, store.ErrNotFound) {
			return stored, err
		}
		if dryRun {
			log.Info("[Dry Run] Would store synced match", "matchID", m.ID)
			continue
		}
		if err := s.store.UpsertMatch(ctx, m); err != nil {
			return stored, fmt.Errorf("store synced match %s: %w", m.ID, err)
		}
		stored++
	}
	log.Info("Match sync finished", "fetched", len(matches), "stored", stored)
	return stored, nil
}
