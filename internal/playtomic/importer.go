package playtomic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchpoint/internal/result"
	"github.com/mauv0809/matchpoint/internal/scoring"
	"github.com/mauv0809/matchpoint/internal/store"
	"golang.org/x/sync/errgroup"
)

var ErrUnsupportedMatch = errors.New("playtomic match cannot be imported")

// Imported is a Playtomic match mapped onto a local match, with the score
// sheet pre-filled from the reported sets.
type Imported struct {
	Match  store.Match
	Sheet  scoring.Sheet
	Played bool
}

// Importer pulls matches from Playtomic.
type Importer struct {
	client PlaytomicClient
}

// NewImporter creates an Importer.
func NewImporter(client PlaytomicClient) *Importer {
	return &Importer{client: client}
}

// Import fetches externalID and maps it onto the local match localID.
func (i *Importer) Import(ctx context.Context, localID, externalID string) (Imported, error) {
	pm, err := i.client.GetSpecificMatch(ctx, externalID)
	if err != nil {
		return Imported{}, fmt.Errorf("fetch playtomic match %s: %w", externalID, err)
	}
	imported, err := Convert(localID, pm)
	if err != nil {
		return Imported{}, err
	}
	log.Info("Imported Playtomic match", "matchID", localID, "externalID", externalID, "entries", len(imported.Sheet))
	return imported, nil
}

// Recent fetches the club's matches starting from since and converts every
// one that can be imported. Each match is stored under its Playtomic id.
func (i *Importer) Recent(ctx context.Context, tenantID string, since time.Time) ([]Imported, error) {
	summaries, err := i.client.GetMatches(ctx, &SearchMatchesParams{
		SportID:       "PADEL",
		HasPlayers:    true,
		Sort:          "start_date,ASC",
		TenantIDs:     []string{tenantID},
		FromStartDate: since.Format("2006-01-02") + "T00:00:00",
	})
	if err != nil {
		return nil, err
	}

	out := make([]*Imported, len(summaries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for idx, summary := range summaries {
		g.Go(func() error {
			pm, err := i.client.GetSpecificMatch(gctx, summary.MatchID)
			if err != nil {
				log.Error("Error fetching specific match", "matchID", summary.MatchID, "error", err)
				return nil
			}
			imported, err := Convert(summary.MatchID, pm)
			if err != nil {
				log.Debug("Skipping match", "matchID", summary.MatchID, "reason", err)
				return nil
			}
			out[idx] = &imported
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var imported []Imported
	for _, m := range out {
		if m != nil {
			imported = append(imported, *m)
		}
	}
	log.Info("Fetched recent Playtomic matches", "found", len(summaries), "importable", len(imported))
	return imported, nil
}

// Convert maps a Playtomic match onto a local match. The first team is side
// A; the first player listed on each team is its captain.
func Convert(localID string, pm Match) (Imported, error) {
	if len(pm.Teams) != 2 {
		return Imported{}, fmt.Errorf("%w: expected 2 teams, got %d", ErrUnsupportedMatch, len(pm.Teams))
	}

	sport := scoring.SportPadel
	if pm.SportID != "" {
		s, err := scoring.ParseSport(pm.SportID)
		if err != nil {
			return Imported{}, fmt.Errorf("%w: %v", ErrUnsupportedMatch, err)
		}
		sport = s
	}

	competition := result.Friendly
	if strings.EqualFold(pm.CompetitionMode, string(result.Competitive)) {
		competition = result.Competitive
	}

	m := store.Match{
		ID:          localID,
		Sport:       sport,
		Competition: competition,
		Venue:       pm.ResourceName,
		StartTime:   time.Unix(pm.Start, 0).UTC(),
		ExternalID:  pm.MatchID,
	}
	sides := [2]scoring.Side{scoring.SideA, scoring.SideB}
	for i, team := range pm.Teams {
		for j, p := range team.Players {
			m.Players = append(m.Players, store.Player{
				Participant: result.Participant{ID: p.UserID, Name: p.Name, Side: sides[i]},
				IsCaptain:   j == 0,
			})
		}
	}
	m.Format = scoring.FormatSingles
	if len(m.Players) > 2 {
		m.Format = scoring.FormatDoubles
	}

	var sheet scoring.Sheet
	for i, set := range pm.Results {
		if i >= scoring.MaxEntries {
			log.Warn("Ignoring extra set from Playtomic", "matchID", localID, "set", set.Name)
			break
		}
		sheet = append(sheet, scoring.SetEntry{
			Index: i,
			Team1: set.Scores[pm.Teams[0].ID],
			Team2: set.Scores[pm.Teams[1].ID],
		})
	}

	return Imported{
		Match:  m,
		Sheet:  sheet,
		Played: pm.GameStatus == GameStatusPlayed,
	}, nil
}
