package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/matchpoint/internal/comments"
	"github.com/mauv0809/matchpoint/internal/result"
	"github.com/mauv0809/matchpoint/internal/scoring"
	"github.com/vmihailenco/msgpack/v5"
)

var _ ResultStore = (*Store)(nil)

// Store is the SQLite implementation of ResultStore.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a store on an initialized database.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) UpsertMatch(ctx context.Context, m Match) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert match: %w", err)
	}
	defer tx.Rollback()

	if m.Competition == "" {
		m.Competition = result.Competitive
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO matches (id, sport, format, competition, venue, start_time, external_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			sport = excluded.sport,
			format = excluded.format,
			competition = excluded.competition,
			venue = excluded.venue,
			start_time = excluded.start_time,
			external_id = excluded.external_id`,
		m.ID, m.Sport, m.Format, m.Competition, m.Venue, m.StartTime.Unix(), nullString(m.ExternalID), s.now().Unix())
	if err != nil {
		return fmt.Errorf("upsert match %s: %w", m.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM participants WHERE match_id = ?`, m.ID); err != nil {
		return fmt.Errorf("reset roster for %s: %w", m.ID, err)
	}
	for _, p := range m.Players {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO participants (match_id, player_id, name, side, is_captain) VALUES (?, ?, ?, ?, ?)`,
			m.ID, p.ID, p.Name, p.Side, p.IsCaptain)
		if err != nil {
			return fmt.Errorf("insert participant %s for %s: %w", p.ID, m.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert match: %w", err)
	}
	log.Debug("Upserted match", "matchID", m.ID, "players", len(m.Players))
	return nil
}

func (s *Store) GetMatch(ctx context.Context, id string) (Match, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, sport, format, competition, venue, start_time, COALESCE(external_id, '')
		FROM matches WHERE id = ?`, id)
	m, err := scanMatch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Match{}, fmt.Errorf("match %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Match{}, fmt.Errorf("get match %s: %w", id, err)
	}
	if m.Players, err = s.players(ctx, id); err != nil {
		return Match{}, err
	}
	return m, nil
}

func (s *Store) ListMatches(ctx context.Context) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sport, format, competition, venue, start_time, COALESCE(external_id, '')
		FROM matches ORDER BY start_time DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list matches: %w", err)
	}
	var matches []Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range matches {
		if matches[i].Players, err = s.players(ctx, matches[i].ID); err != nil {
			return nil, err
		}
	}
	return matches, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMatch(row scanner) (Match, error) {
	var (
		m     Match
		start int64
	)
	if err := row.Scan(&m.ID, &m.Sport, &m.Format, &m.Competition, &m.Venue, &start, &m.ExternalID); err != nil {
		return Match{}, err
	}
	m.StartTime = time.Unix(start, 0).UTC()
	return m, nil
}

func (s *Store) players(ctx context.Context, matchID string) ([]Player, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, name, side, is_captain FROM participants
		WHERE match_id = ? ORDER BY side, rowid`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list participants for %s: %w", matchID, err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Side, &p.IsCaptain); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (s *Store) GetResult(ctx context.Context, matchID string) (*Record, error) {
	var (
		rec       Record
		blob      []byte
		submitted int64
		updated   int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT match_id, kind, status, submitted_by, submitted_side, payload,
			dispute_reason, reviewed_by, submitted_at, updated_at
		FROM results WHERE match_id = ?`, matchID).
		Scan(&rec.MatchID, &rec.Kind, &rec.Status, &rec.SubmittedBy, &rec.SubmittedSide, &blob,
			&rec.DisputeReason, &rec.ReviewedBy, &submitted, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("result for %s: %w", matchID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get result %s: %w", matchID, err)
	}
	if rec.Payload, err = decodePayload(rec.Kind, blob); err != nil {
		return nil, fmt.Errorf("decode result %s: %w", matchID, err)
	}
	rec.SubmittedAt = time.UnixMilli(submitted).UTC()
	rec.UpdatedAt = time.UnixMilli(updated).UTC()
	return &rec, nil
}

// SaveResult stores a new submission, replacing a pending one. Confirmed
// and disputed results cannot be overwritten.
func (s *Store) SaveResult(ctx context.Context, rec Record) error {
	blob, err := msgpack.Marshal(rec.Payload)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", rec.MatchID, err)
	}
	now := s.now().UnixMilli()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO results (match_id, kind, status, submitted_by, submitted_side, payload,
			dispute_reason, reviewed_by, submitted_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, '', '', ?, ?)
		ON CONFLICT(match_id) DO UPDATE SET
			kind = excluded.kind,
			status = excluded.status,
			submitted_by = excluded.submitted_by,
			submitted_side = excluded.submitted_side,
			payload = excluded.payload,
			dispute_reason = '',
			reviewed_by = '',
			submitted_at = excluded.submitted_at,
			updated_at = excluded.updated_at
		WHERE results.status = 'PENDING'`,
		rec.MatchID, rec.Payload.Kind(), StatusPending, rec.SubmittedBy, rec.SubmittedSide, blob, now, now)
	if err != nil {
		return fmt.Errorf("save result %s: %w", rec.MatchID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("save result %s: %w", rec.MatchID, ErrResultLocked)
	}
	log.Info("Saved result", "matchID", rec.MatchID, "kind", rec.Payload.Kind(), "by", rec.SubmittedBy)
	return nil
}

// SetResultStatus moves a pending result to confirmed or disputed.
func (s *Store) SetResultStatus(ctx context.Context, matchID string, status Status, reviewerID, reason string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE results SET status = ?, reviewed_by = ?, dispute_reason = ?, updated_at = ?
		WHERE match_id = ? AND status = 'PENDING'`,
		status, reviewerID, reason, s.now().UnixMilli(), matchID)
	if err != nil {
		return fmt.Errorf("update result %s: %w", matchID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.GetResult(ctx, matchID); err != nil {
			return err
		}
		return fmt.Errorf("update result %s: %w", matchID, ErrResultLocked)
	}
	log.Info("Result status changed", "matchID", matchID, "status", status, "by", reviewerID)
	return nil
}

func (s *Store) ListComments(ctx context.Context, matchID string) ([]comments.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, author_id, text, created_at, updated_at FROM comments
		WHERE match_id = ? ORDER BY created_at, rowid`, matchID)
	if err != nil {
		return nil, fmt.Errorf("list comments for %s: %w", matchID, err)
	}
	defer rows.Close()

	var entries []comments.Entry
	for rows.Next() {
		var (
			e                  comments.Entry
			created, updatedAt int64
		)
		if err := rows.Scan(&e.ID, &e.AuthorID, &e.Text, &created, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		e.CreatedAt = time.UnixMilli(created).UTC()
		e.UpdatedAt = time.UnixMilli(updatedAt).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) InsertComment(ctx context.Context, matchID, authorID, text string) (comments.Entry, error) {
	now := s.now().UTC().Truncate(time.Millisecond)
	e := comments.Entry{ID: uuid.NewString(), AuthorID: authorID, Text: text, CreatedAt: now, UpdatedAt: now}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (id, match_id, author_id, text, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, matchID, authorID, text, now.UnixMilli(), now.UnixMilli())
	if err != nil {
		return comments.Entry{}, fmt.Errorf("insert comment on %s: %w", matchID, err)
	}
	return e, nil
}

func (s *Store) UpdateComment(ctx context.Context, matchID, id, authorID, text string) (comments.Entry, error) {
	e, err := s.comment(ctx, matchID, id, authorID)
	if err != nil {
		return comments.Entry{}, err
	}
	e.Text = text
	e.UpdatedAt = s.now().UTC().Truncate(time.Millisecond)
	_, err = s.db.ExecContext(ctx, `UPDATE comments SET text = ?, updated_at = ? WHERE id = ?`,
		text, e.UpdatedAt.UnixMilli(), id)
	if err != nil {
		return comments.Entry{}, fmt.Errorf("update comment %s: %w", id, err)
	}
	return e, nil
}

func (s *Store) DeleteComment(ctx context.Context, matchID, id, authorID string) error {
	if _, err := s.comment(ctx, matchID, id, authorID); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete comment %s: %w", id, err)
	}
	return nil
}

// comment loads a comment and checks that authorID wrote it.
func (s *Store) comment(ctx context.Context, matchID, id, authorID string) (comments.Entry, error) {
	var (
		e                  comments.Entry
		created, updatedAt int64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, author_id, text, created_at, updated_at FROM comments WHERE id = ? AND match_id = ?`,
		id, matchID).Scan(&e.ID, &e.AuthorID, &e.Text, &created, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return comments.Entry{}, fmt.Errorf("%w: %s", comments.ErrCommentNotFound, id)
	}
	if err != nil {
		return comments.Entry{}, fmt.Errorf("get comment %s: %w", id, err)
	}
	if e.AuthorID != authorID {
		return comments.Entry{}, fmt.Errorf("%w: %s", comments.ErrNotAuthor, id)
	}
	e.CreatedAt = time.UnixMilli(created).UTC()
	e.UpdatedAt = time.UnixMilli(updatedAt).UTC()
	return e, nil
}

// Clear removes all data. Used by the seeder and tests.
func (s *Store) Clear(ctx context.Context) error {
	for _, table := range []string{"comments", "results", "participants", "matches"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	log.Info("Store cleared")
	return nil
}

func decodePayload(kind result.Kind, blob []byte) (result.Payload, error) {
	switch kind {
	case result.KindNormal:
		return decode[result.NormalResult](blob)
	case result.KindCasual:
		return decode[result.CasualResult](blob)
	case result.KindCancelled:
		return decode[result.CancelledResult](blob)
	case result.KindWalkover:
		return decode[result.WalkoverResult](blob)
	default:
		return nil, fmt.Errorf("unknown result kind %q", kind)
	}
}

func decode[T result.Payload](blob []byte) (result.Payload, error) {
	var p T
	if err := msgpack.Unmarshal(blob, &p); err != nil {
		return nil, err
	}
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// sideOf returns the side playerID is on, or SideNone.
func sideOf(m Match, playerID string) scoring.Side {
	if p, ok := m.Player(playerID); ok {
		return p.Side
	}
	return scoring.SideNone
}
