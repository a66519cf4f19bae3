package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchpoint/internal/inflight"
	"github.com/mauv0809/matchpoint/internal/metrics"
)

// Thread is a read-through cache of a match's comments. The backend owns
// the entries; the thread keeps them in the order they were supplied.
type Thread struct {
	actorID string
	backend Backend
	metrics metrics.Metrics
	guard   inflight.Guard
	// readOnly threads can be listed but not written to.
	readOnly bool

	mu      sync.RWMutex
	entries []Entry
}

// Option configures a Thread.
type Option func(*Thread)

// ReadOnly makes every write fail with ErrReadOnly.
func ReadOnly() Option {
	return func(t *Thread) { t.readOnly = true }
}

// New creates a thread for actorID seeded with the externally supplied entries.
func New(actorID string, backend Backend, m metrics.Metrics, entries []Entry, opts ...Option) *Thread {
	t := &Thread{actorID: actorID, backend: backend, metrics: m}
	for _, opt := range opts {
		opt(t)
	}
	t.Refresh(entries)
	return t
}

// Writable reports whether the actor may add, edit or delete comments.
func (t *Thread) Writable() bool {
	return !t.readOnly
}

// Entries returns a copy of the current entries.
func (t *Thread) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Entry(nil), t.entries...)
}

// Refresh replaces the local entries with a fresh list from the source.
func (t *Thread) Refresh(entries []Entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = append([]Entry(nil), entries...)
}

// CanEdit reports whether the actor may edit or delete the entry. This only
// decides which controls are offered; the backend enforces authorization.
func (t *Thread) CanEdit(e Entry) bool {
	return !t.readOnly && t.actorID != "" && e.AuthorID == t.actorID
}

// Busy reports whether a comment action is in flight.
func (t *Thread) Busy() bool {
	return t.guard.Busy()
}

// Create posts a new comment and appends the stored entry.
func (t *Thread) Create(ctx context.Context, text string) (Entry, error) {
	var created Entry
	err := t.run("create", func() error {
		text = strings.TrimSpace(text)
		if text == "" {
			return ErrEmptyComment
		}
		e, err := t.backend.CreateComment(ctx, text)
		if err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		t.mu.Lock()
		t.entries = append(t.entries, e)
		t.mu.Unlock()
		created = e
		return nil
	})
	return created, err
}

// Update edits one of the actor's comments in place.
func (t *Thread) Update(ctx context.Context, id, text string) (Entry, error) {
	var updated Entry
	err := t.run("update", func() error {
		text = strings.TrimSpace(text)
		if text == "" {
			return ErrEmptyComment
		}
		if _, err := t.owned(id); err != nil {
			return err
		}
		e, err := t.backend.UpdateComment(ctx, id, text)
		if err != nil {
			return fmt.Errorf("update comment %s: %w", id, err)
		}
		t.mu.Lock()
		for i := range t.entries {
			if t.entries[i].ID == id {
				t.entries[i] = e
				break
			}
		}
		t.mu.Unlock()
		updated = e
		return nil
	})
	return updated, err
}

// Delete removes one of the actor's comments.
func (t *Thread) Delete(ctx context.Context, id string) error {
	return t.run("delete", func() error {
		if _, err := t.owned(id); err != nil {
			return err
		}
		if err := t.backend.DeleteComment(ctx, id); err != nil {
			return fmt.Errorf("delete comment %s: %w", id, err)
		}
		t.mu.Lock()
		for i := range t.entries {
			if t.entries[i].ID == id {
				t.entries = append(t.entries[:i:i], t.entries[i+1:]...)
				break
			}
		}
		t.mu.Unlock()
		return nil
	})
}

func (t *Thread) owned(id string) (Entry, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, e := range t.entries {
		if e.ID == id {
			if t.actorID == "" || e.AuthorID != t.actorID {
				return Entry{}, fmt.Errorf("%w: %s", ErrNotAuthor, id)
			}
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrCommentNotFound, id)
}

func (t *Thread) run(op string, fn func() error) error {
	if t.readOnly {
		log.Debug("Comment write refused on read-only thread", "op", op, "actor", t.actorID)
		return ErrReadOnly
	}
	err := t.guard.Run(fn)
	switch {
	case err == nil:
		t.metrics.IncCommentsWritten(op)
		log.Debug("Comment written", "op", op, "actor", t.actorID)
	case errors.Is(err, ErrActionInFlight):
		t.metrics.IncInFlightRejected("comment_" + op)
	default:
		log.Warn("Comment action failed", "op", op, "actor", t.actorID, "error", err)
	}
	return err
}
