package main

import (
	"context"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mauv0809/matchpoint/internal/database"
	"github.com/mauv0809/matchpoint/internal/result"
	"github.com/mauv0809/matchpoint/internal/scoresheet"
	"github.com/mauv0809/matchpoint/internal/scoring"
	"github.com/mauv0809/matchpoint/internal/store"
)

// Simplified config loading for the script
func loadConfig() map[string]string {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	config := map[string]string{
		"DB_NAME":           "matchpoint.db",
		"TURSO_PRIMARY_URL": "",
		"TURSO_AUTH_TOKEN":  "",
		"SEED_MATCHES":      "50",
	}
	for key := range config {
		if value, ok := os.LookupEnv(key); ok {
			config[key] = value
		}
	}
	return config
}

var dummyPlayers = []result.Participant{
	{ID: "player-1", Name: "Seeder Player A"},
	{ID: "player-2", Name: "Seeder Player B"},
	{ID: "player-3", Name: "Seeder Player C"},
	{ID: "player-4", Name: "Seeder Player D"},
}

func main() {
	log.Info("Starting database seeder...")
	cfg := loadConfig()

	numMatches, err := strconv.Atoi(cfg["SEED_MATCHES"])
	if err != nil || numMatches <= 0 {
		log.Fatalf("SEED_MATCHES must be a positive number, got %q", cfg["SEED_MATCHES"])
	}

	db, teardown, err := database.InitDB(cfg["DB_NAME"], cfg["TURSO_PRIMARY_URL"], cfg["TURSO_AUTH_TOKEN"])
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()
	s := store.New(db)
	ctx := context.Background()

	log.Info("Preparing to insert dummy matches...", "total", numMatches)
	startTime := time.Now()
	sports := []scoring.Sport{scoring.SportTennis, scoring.SportPadel, scoring.SportPickleball}
	validator := scoresheet.New(nil)

	for i := 0; i < numMatches; i++ {
		m := seedMatch(sports[rand.Intn(len(sports))], rand.Intn(2) == 0)
		if err := s.UpsertMatch(ctx, m); err != nil {
			log.Fatalf("Failed to insert match %s: %s", m.ID, err)
		}

		// Leave a third of the matches without a result.
		if i%3 == 0 {
			continue
		}
		scores, err := validator.Validate(m.Sport, randomSheet(m.Sport), false)
		if err != nil {
			log.Fatalf("Generated an invalid sheet for %s: %s", m.ID, err)
		}
		team1, team2 := sides(m)
		err = s.SaveResult(ctx, store.Record{
			MatchID:       m.ID,
			Kind:          result.KindNormal,
			SubmittedBy:   team1[0],
			SubmittedSide: scoring.SideA,
			Payload:       result.NormalResult{Scores: scores, Team1: team1, Team2: team2},
		})
		if err != nil {
			log.Fatalf("Failed to insert result for %s: %s", m.ID, err)
		}
		if i%3 == 2 {
			if err := s.SetResultStatus(ctx, m.ID, store.StatusConfirmed, team2[0], ""); err != nil {
				log.Fatalf("Failed to confirm result for %s: %s", m.ID, err)
			}
		}
	}

	log.Info("Seeding complete", "matches", numMatches, "duration", time.Since(startTime))
}

func seedMatch(sport scoring.Sport, doubles bool) store.Match {
	m := store.Match{
		ID:          uuid.NewString(),
		Sport:       sport,
		Format:      scoring.FormatSingles,
		Competition: result.Competitive,
		Venue:       "Seeded Court",
		StartTime:   time.Now().Add(-time.Duration(rand.Intn(365*24)) * time.Hour),
	}
	players := dummyPlayers[:2]
	if doubles {
		m.Format = scoring.FormatDoubles
		m.Competition = result.Friendly
		players = dummyPlayers
	}
	half := len(players) / 2
	for i, p := range players {
		p.Side = scoring.SideA
		if i >= half {
			p.Side = scoring.SideB
		}
		m.Players = append(m.Players, store.Player{Participant: p, IsCaptain: i == 0 || i == half})
	}
	return m
}

func sides(m store.Match) (team1, team2 []string) {
	for _, p := range m.Players {
		if p.Side == scoring.SideA {
			team1 = append(team1, p.ID)
		} else {
			team2 = append(team2, p.ID)
		}
	}
	return team1, team2
}

// randomSheet returns a straight-sets win for side A that never needs a
// tiebreak or extended score.
func randomSheet(sport scoring.Sport) scoring.Sheet {
	if sport.SetBased() {
		return scoring.NewSheet([2]int{6, rand.Intn(5)}, [2]int{6, rand.Intn(5)})
	}
	return scoring.NewSheet([2]int{15, rand.Intn(13)}, [2]int{15, rand.Intn(13)})
}

