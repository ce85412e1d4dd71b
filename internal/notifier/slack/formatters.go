package slack

import (
	"fmt"
	"strings"

	"github.com/slack-go/slack"

	"github.com/depressed1503/maria-rating/internal/ladder"
	"github.com/depressed1503/maria-rating/internal/players"
	"github.com/depressed1503/maria-rating/internal/singles"
	"github.com/depressed1503/maria-rating/internal/teams"
)

// formatSinglesReported creates the Slack message for a freshly reported match using Block Kit.
func (s *Notifier) formatSinglesReported(match *singles.Match, reporter, opponent *players.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏓 New result reported!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s %d:%d %s", reporter.Handle, match.Score1, match.Score2, opponent.Handle)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	contextText := slack.NewTextBlockObject("plain_text", fmt.Sprintf("Waiting for %s to confirm.", opponent.Handle), true, false)
	blocks = append(blocks, slack.NewContextBlock("", contextText))

	return slack.NewBlockMessage(blocks...)
}

// formatSinglesConfirmed creates the Slack message for a confirmed match.
func (s *Notifier) formatSinglesConfirmed(match *singles.Match, winner, loser *players.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏓 Match confirmed!", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("%s beat %s %d:%d\nNew ratings: %s %d, %s %d",
		winner.Handle, loser.Handle, match.Score1, match.Score2,
		winner.Handle, winner.Rating, loser.Handle, loser.Rating)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatSinglesRejected creates the Slack message for a rejected match.
func (s *Notifier) formatSinglesRejected(match *singles.Match) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "❌ Match rejected", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	detailsText := fmt.Sprintf("The %d:%d result was rejected and will not count.", match.Score1, match.Score2)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}

// formatTeamMatch creates the Slack message for a 2v2 match event.
func (s *Notifier) formatTeamMatch(header, footer string, match *teams.Match, participants []players.Player) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", header, true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	byID := make(map[int64]string, len(participants))
	for _, p := range participants {
		byID[p.ID] = p.Handle
	}
	teamA := fmt.Sprintf("%s & %s", byID[match.ReporterID], byID[match.AllyID])
	teamB := fmt.Sprintf("%s & %s", byID[match.Opponent1ID], byID[match.Opponent2ID])
	detailsText := fmt.Sprintf("%s %d:%d %s", teamA, match.Score1, match.Score2, teamB)
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", detailsText, true, false), nil, nil))

	if footer != "" {
		contextText := slack.NewTextBlockObject("plain_text", footer, true, false)
		blocks = append(blocks, slack.NewContextBlock("", contextText))
	}

	return slack.NewBlockMessage(blocks...)
}

// formatLeaderboard creates the Slack message for the current ladder standings.
func (s *Notifier) formatLeaderboard(entries []ladder.Entry) slack.Message {
	blocks := make([]slack.Block, 0)

	headerText := slack.NewTextBlockObject("plain_text", "🏆 Ladder standings", true, false)
	blocks = append(blocks, slack.NewHeaderBlock(headerText))

	var lines []string
	for i, e := range entries {
		lines = append(lines, fmt.Sprintf("%d. %s  %d", i+1, e.Handle, e.Rating))
	}
	if len(lines) == 0 {
		lines = append(lines, "No players registered yet.")
	}
	blocks = append(blocks, slack.NewSectionBlock(slack.NewTextBlockObject("plain_text", strings.Join(lines, "\n"), true, false), nil, nil))

	return slack.NewBlockMessage(blocks...)
}
