package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/depressed1503/maria-rating/internal/ladder"
	"github.com/depressed1503/maria-rating/internal/metrics"
	"github.com/depressed1503/maria-rating/internal/notifier"
	"github.com/depressed1503/maria-rating/internal/players"
	"github.com/depressed1503/maria-rating/internal/singles"
	"github.com/depressed1503/maria-rating/internal/teams"
)

// slackClient is an interface that contains the methods from the slack.Client that we use.
// This allows for easy mocking in tests.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ notifier.Notifier = &Notifier{}

// Notifier handles sending notifications to Slack.
type Notifier struct {
	api       slackClient
	channelID string
	metrics   metrics.Metrics
}

// NewNotifier creates a new Notifier.
func NewNotifier(token, channelID string, metrics metrics.Metrics) *Notifier {
	api := slack.New(token)
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

// NewNotifierWithAPI creates a new Notifier with a specific slack.Client instance.
// Useful for tests that need to intercept API calls.
func NewNotifierWithAPI(api slackClient, channelID string, metrics metrics.Metrics) *Notifier {
	return &Notifier{
		api:       api,
		channelID: channelID,
		metrics:   metrics,
	}
}

func (s *Notifier) sendMessage(message slack.Message, dryRun bool) (string, string, error) {
	if dryRun {
		jsonMsg, _ := json.MarshalIndent(message, "", "  ")
		log.Info("[Dry Run] Would send Slack message", "channel", s.channelID, "message", string(jsonMsg))
		return "dry-run-ts", "dry-run-thread-ts", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	channelID, timestamp, err := s.api.PostMessageContext(
		ctx,
		s.channelID,
		slack.MsgOptionBlocks(message.Blocks.BlockSet...),
		slack.MsgOptionAsUser(true),
	)

	if err != nil {
		s.metrics.IncSlackNotifFailed()
		log.Error("Failed to send Slack message", "error", err, "channel", channelID)
		return "", "", fmt.Errorf("failed to post message: %w", err)
	}

	s.metrics.IncSlackNotifSent()
	log.Info("Successfully sent Slack message", "channel", channelID, "timestamp", timestamp)
	return channelID, timestamp, nil
}

// Implement the Notifier interface
func (s *Notifier) SendSinglesReported(match *singles.Match, reporter, opponent *players.Player, dryRun bool) error {
	msg := s.formatSinglesReported(match, reporter, opponent)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendSinglesConfirmed(match *singles.Match, winner, loser *players.Player, dryRun bool) error {
	msg := s.formatSinglesConfirmed(match, winner, loser)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendSinglesRejected(match *singles.Match, dryRun bool) error {
	msg := s.formatSinglesRejected(match)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendTeamReported(match *teams.Match, participants []players.Player, dryRun bool) error {
	msg := s.formatTeamMatch("🏓 New 2v2 result reported!", "Waiting for the other three players to confirm.", match, participants)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendTeamFinalized(match *teams.Match, participants []players.Player, dryRun bool) error {
	msg := s.formatTeamMatch("🏓 2v2 match confirmed!", "All players confirmed, ratings updated.", match, participants)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

func (s *Notifier) SendLeaderboard(entries []ladder.Entry, dryRun bool) error {
	msg := s.formatLeaderboard(entries)
	_, _, err := s.sendMessage(msg, dryRun)
	return err
}

// FormatLeaderboardResponse formats a leaderboard message for a command response.
func (s *Notifier) FormatLeaderboardResponse(entries []ladder.Entry) (any, error) {
	return s.formatLeaderboard(entries), nil
}
