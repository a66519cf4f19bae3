package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mauv0809/matchpoint/internal/metrics"
	"github.com/mauv0809/matchpoint/internal/notifier"
	"github.com/mauv0809/matchpoint/internal/result"
	"github.com/mauv0809/matchpoint/internal/scoresheet"
	"github.com/mauv0809/matchpoint/internal/scoring"
	"github.com/slack-go/slack"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

const timeLayout = "Monday 02 Jan, 15:04"

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
	loc       *time.Location
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	return NewNotifierWithAPI(slack.New(token), channelID, metrics)
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	loc, err := time.LoadLocation("Europe/Copenhagen")
	if err != nil {
		loc = time.UTC
	}
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
		loc:       loc,
	}
}

func (s *Notifier) sendMessage(ctx context.Context, message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", s.channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

func (s *Notifier) SendResultSubmitted(ctx context.Context, n notifier.ResultNotification, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatResultSubmitted(n), dryRun)
	return err
}

func (s *Notifier) SendResultConfirmed(ctx context.Context, n notifier.ResultNotification, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatResultConfirmed(n), dryRun)
	return err
}

func (s *Notifier) SendResultDisputed(ctx context.Context, n notifier.ResultNotification, dryRun bool) error {
	_, _, err := s.sendMessage(ctx, s.formatResultDisputed(n), dryRun)
	return err
}

func plainText(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject("plain_text", text, true, false)
}

// matchBlocks renders the header and the court, time and teams of the match.
func (s *Notifier) matchBlocks(header string, n notifier.ResultNotification) []slack.Block {
	blocks := []slack.Block{slack.NewHeaderBlock(plainText(header))}

	details := n.StartTime.In(s.loc).Format(timeLayout)
	if n.Venue != "" {
		details = fmt.Sprintf("%s at %s", n.Venue, details)
	}
	blocks = append(blocks, slack.NewSectionBlock(plainText(details), nil, nil))

	teams := fmt.Sprintf("%s vs %s", teamName(n.Team1), teamName(n.Team2))
	blocks = append(blocks, slack.NewSectionBlock(plainText(teams), nil, nil))
	return blocks
}

// formatResultSubmitted creates the Slack message for a newly submitted result using Block Kit.
func (s *Notifier) formatResultSubmitted(n notifier.ResultNotification) slack.Message {
	blocks := s.matchBlocks("🎾 Result submitted 🎾", n)
	blocks = append(blocks, slack.NewSectionBlock(plainText(describe(n.Payload, n.Team1, n.Team2)), nil, nil))
	if comment := commentOf(n.Payload); comment != "" {
		blocks = append(blocks, slack.NewSectionBlock(plainText(fmt.Sprintf("“%s”", comment)), nil, nil))
	}
	if n.Actor != "" {
		blocks = append(blocks, slack.NewContextBlock("", plainText(fmt.Sprintf("Submitted by %s, waiting for the other side to confirm", n.Actor))))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatResultConfirmed creates the Slack message for a confirmed result.
func (s *Notifier) formatResultConfirmed(n notifier.ResultNotification) slack.Message {
	blocks := s.matchBlocks("🏆 Result confirmed 🏆", n)
	blocks = append(blocks, slack.NewSectionBlock(plainText(describe(n.Payload, n.Team1, n.Team2)), nil, nil))
	if n.Actor != "" {
		blocks = append(blocks, slack.NewContextBlock("", plainText(fmt.Sprintf("Confirmed by %s", n.Actor))))
	}
	return slack.NewBlockMessage(blocks...)
}

// formatResultDisputed creates the Slack message for a disputed result.
func (s *Notifier) formatResultDisputed(n notifier.ResultNotification) slack.Message {
	blocks := s.matchBlocks("⚠️ Result disputed ⚠️", n)
	blocks = append(blocks, slack.NewSectionBlock(plainText(describe(n.Payload, n.Team1, n.Team2)), nil, nil))
	reason := n.Reason
	if reason == "" {
		reason = "No reason given."
	}
	blocks = append(blocks, slack.NewSectionBlock(plainText("Reason: "+reason), nil, nil))
	if n.Actor != "" {
		blocks = append(blocks, slack.NewContextBlock("", plainText(fmt.Sprintf("Disputed by %s", n.Actor))))
	}
	return slack.NewBlockMessage(blocks...)
}

func teamName(names []string) string {
	if len(names) == 0 {
		return "TBD"
	}
	return strings.Join(names, " & ")
}

// describe renders the payload as one line, e.g. "Score: 6-4, 7-6 (7-3)".
func describe(p result.Payload, team1, team2 []string) string {
	switch p := p.(type) {
	case result.NormalResult:
		line := "Score: " + FormatScores(p.Scores)
		if p.Unfinished {
			line += " (unfinished)"
		}
		return line
	case result.CasualResult:
		return "Casual play, no score recorded."
	case result.CancelledResult:
		return "Match cancelled."
	case result.WalkoverResult:
		defaulting := team1
		if p.Walkover.DefaultingTeam == scoring.SideB {
			defaulting = team2
		}
		line := fmt.Sprintf("Walkover: %s did not play (%s)", teamName(defaulting), humanize(string(p.Walkover.Reason)))
		if p.Walkover.Detail != "" {
			line += ": " + p.Walkover.Detail
		}
		return line
	default:
		return "Result: No scores reported."
	}
}

// FormatScores renders sets or games in team 1 / team 2 order.
func FormatScores(s scoresheet.Scores) string {
	parts := make([]string, 0, s.Len())
	for _, set := range s.Sets {
		part := fmt.Sprintf("%d-%d", set.Team1Games, set.Team2Games)
		if set.Team1Tiebreak != nil && set.Team2Tiebreak != nil {
			part += fmt.Sprintf(" (%d-%d)", *set.Team1Tiebreak, *set.Team2Tiebreak)
		}
		parts = append(parts, part)
	}
	for _, game := range s.Games {
		parts = append(parts, fmt.Sprintf("%d-%d", game.Team1Points, game.Team2Points))
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ", ")
}

func commentOf(p result.Payload) string {
	switch p := p.(type) {
	case result.NormalResult:
		return p.Comment
	case result.CasualResult:
		return p.Comment
	case result.CancelledResult:
		return p.Comment
	case result.WalkoverResult:
		return p.Comment
	}
	return ""
}

func humanize(s string) string {
	return strings.ToLower(strings.ReplaceAll(s, "_", " "))
}
