package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mauv0809/matchpoint/internal/config"
	"github.com/mauv0809/matchpoint/internal/notifier/slack"
	"github.com/mauv0809/matchpoint/internal/scoresheet"
	"github.com/mauv0809/matchpoint/internal/scoring"
	"github.com/spf13/cobra"
)

var (
	sport          string
	unfinished     bool
	rulesFile      string
	edit           bool
	kind           string
	comment        string
	walkoverReason string
	walkoverDetail string
	walkoverTeam   string
	team1          []string
	team2          []string
	reason         string
	externalID     string
	days           int
)

func init() {
	validateCmd.Flags().StringVar(&sport, "sport", "padel", "tennis, padel or pickleball")
	validateCmd.Flags().BoolVar(&unfinished, "unfinished", false, "The match was stopped before it finished")
	validateCmd.Flags().StringVar(&rulesFile, "rules", "", "YAML file overriding the scoring rules")

	matchCmd.Flags().BoolVar(&edit, "edit", false, "Reopen your own pending submission")

	submitCmd.Flags().StringVar(&kind, "kind", "NORMAL", "NORMAL, CASUAL, WALKOVER or CANCELLED")
	submitCmd.Flags().BoolVar(&unfinished, "unfinished", false, "The match was stopped before it finished")
	submitCmd.Flags().StringVar(&comment, "comment", "", "Comment sent with the result")
	submitCmd.Flags().StringVar(&walkoverReason, "walkover-reason", "", "NO_SHOW, LATE_CANCELLATION, INJURY, PERSONAL_EMERGENCY or OTHER")
	submitCmd.Flags().StringVar(&walkoverDetail, "walkover-detail", "", "Description, required for OTHER")
	submitCmd.Flags().StringVar(&walkoverTeam, "walkover-team", "", "Defaulting side (A or B), doubles only")
	submitCmd.Flags().StringSliceVar(&team1, "team1", nil, "Player ids on team 1 (doubles friendlies)")
	submitCmd.Flags().StringSliceVar(&team2, "team2", nil, "Player ids on team 2 (doubles friendlies)")
	submitCmd.Flags().BoolVar(&edit, "edit", false, "Replace your own pending submission")

	disputeCmd.Flags().StringVar(&reason, "reason", "", "Why the result is wrong")

	importCmd.Flags().StringVar(&externalID, "playtomic-id", "", "The Playtomic match id")
	_ = importCmd.MarkFlagRequired("playtomic-id")

	syncCmd.Flags().IntVar(&days, "days", 0, "How many days back to look")

	commentCmd.AddCommand(commentAddCmd, commentEditCmd, commentDeleteCmd)

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(disputeCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(syncCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics", nil)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate SCORE...",
	Short: "Check a score sheet offline, e.g. validate --sport tennis 6-4 6-7(5-7) 7-5",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := scoring.ParseSport(sport)
		if err != nil {
			return err
		}
		rules := scoring.DefaultRules()
		if rulesFile != "" {
			if rules, err = config.LoadRules(rulesFile); err != nil {
				return err
			}
		}
		sheet, err := parseSheet(args)
		if err != nil {
			return err
		}
		engine := scoring.NewEngine(rules)
		scores, err := scoresheet.New(engine).Validate(s, sheet, unfinished)
		if err != nil {
			return err
		}
		fmt.Println(slack.FormatScores(scores))
		if winner := engine.MatchWinner(s, scores.Sheet(engine)); winner != scoring.SideNone && !unfinished {
			fmt.Printf("Winner: team %s\n", winner)
		}
		return nil
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List stored matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/matches", nil)
	},
}

var matchCmd = &cobra.Command{
	Use:   "result MATCH_ID",
	Short: "Show a match, its result and what you can do with it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint := "/matches/" + url.PathEscape(args[0])
		if edit {
			endpoint += "?edit=true"
		}
		return performRequest(http.MethodGet, endpoint, nil)
	},
}

var submitCmd = &cobra.Command{
	Use:   "submit MATCH_ID [SCORE...]",
	Short: "Submit a result, e.g. submit m1 6-4 7-6(7-3)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, err := parseSheet(args[1:])
		if err != nil {
			return err
		}
		body := map[string]any{
			"kind":       strings.ToUpper(kind),
			"unfinished": unfinished,
			"comment":    comment,
			"edit":       edit,
			"entries":    sheet,
		}
		if walkoverReason != "" {
			body["walkover"] = map[string]string{
				"defaulting_team": strings.ToUpper(walkoverTeam),
				"reason":          strings.ToUpper(walkoverReason),
				"detail":          walkoverDetail,
			}
		}
		if len(team1) > 0 || len(team2) > 0 {
			body["teams"] = map[string][2]string{"team1": pair(team1), "team2": pair(team2)}
		}
		return performRequest(http.MethodPost, "/matches/"+url.PathEscape(args[0])+"/result", body)
	},
}

var confirmCmd = &cobra.Command{
	Use:   "confirm MATCH_ID",
	Short: "Confirm the result the other side submitted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/matches/"+url.PathEscape(args[0])+"/confirm", nil)
	},
}

var disputeCmd = &cobra.Command{
	Use:   "dispute MATCH_ID",
	Short: "Dispute the result the other side submitted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/matches/"+url.PathEscape(args[0])+"/dispute", map[string]string{"reason": reason})
	},
}

var commentCmd = &cobra.Command{
	Use:   "comment MATCH_ID",
	Short: "List the comments on a match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/matches/"+url.PathEscape(args[0])+"/comments", nil)
	},
}

var commentAddCmd = &cobra.Command{
	Use:   "add MATCH_ID TEXT",
	Short: "Comment on a match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/matches/"+url.PathEscape(args[0])+"/comments", map[string]string{"text": args[1]})
	},
}

var commentEditCmd = &cobra.Command{
	Use:   "edit MATCH_ID COMMENT_ID TEXT",
	Short: "Edit one of your comments",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPut, commentPath(args[0], args[1]), map[string]string{"text": args[2]})
	},
}

var commentDeleteCmd = &cobra.Command{
	Use:   "delete MATCH_ID COMMENT_ID",
	Short: "Delete one of your comments",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodDelete, commentPath(args[0], args[1]), nil)
	},
}

var importCmd = &cobra.Command{
	Use:   "import MATCH_ID",
	Short: "Import a match from Playtomic",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, "/matches/"+url.PathEscape(args[0])+"/import", map[string]string{"external_id": externalID})
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import the club's recent Playtomic matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, fmt.Sprintf("/sync?days=%d", days), nil)
	},
}

func commentPath(matchID, commentID string) string {
	return "/matches/" + url.PathEscape(matchID) + "/comments/" + url.PathEscape(commentID)
}

func pair(ids []string) [2]string {
	var p [2]string
	copy(p[:], ids)
	return p
}

func performRequest(method, endpoint string, body any) error {
	target := host + endpoint
	if dryRun {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		target += sep + "dry_run=true"
	}
	fmt.Printf("Making request to %s %s\n", method, target)

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actor != "" {
		req.Header.Set("X-Actor-ID", actor)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(respBody))

	return nil
}
