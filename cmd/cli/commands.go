package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(rejectCmd)
	rootCmd.AddCommand(teamReportCmd)
	rootCmd.AddCommand(teamConfirmCmd)
	rootCmd.AddCommand(teamRejectCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List the registered players",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players")
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the current ladder standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/leaderboard")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var playerCmd = &cobra.Command{
	Use:   "player [external-id]",
	Short: "Show a player's rating and games played",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/player?external_id=" + url.QueryEscape(args[0]))
	},
}

var registerCmd = &cobra.Command{
	Use:   "register [external-id] [handle]",
	Short: "Register a new player",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/register", map[string]any{
			"external_id": args[0],
			"handle":      args[1],
		})
	},
}

var reportCmd = &cobra.Command{
	Use:   "report [reporter] [opponent] [score1] [score2]",
	Short: "Report a singles match result",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		score1, score2, err := parseScores(args[2], args[3])
		if err != nil {
			return err
		}
		return performPostRequest("/singles/report", map[string]any{
			"reporter_external_id": args[0],
			"opponent_external_id": args[1],
			"score1":               score1,
			"score2":               score2,
		})
	},
}

var confirmCmd = &cobra.Command{
	Use:   "confirm [match-id] [confirmer]",
	Short: "Confirm a reported singles match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/singles/confirm", map[string]any{
			"match_id":              args[0],
			"confirmer_external_id": args[1],
		})
	},
}

var rejectCmd = &cobra.Command{
	Use:   "reject [match-id] [rejecter]",
	Short: "Reject a reported singles match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/singles/reject", map[string]any{
			"match_id":             args[0],
			"rejecter_external_id": args[1],
		})
	},
}

var teamReportCmd = &cobra.Command{
	Use:   "team-report [reporter] [ally] [opponent1] [opponent2] [score1] [score2]",
	Short: "Report a 2v2 match result",
	Args:  cobra.ExactArgs(6),
	RunE: func(cmd *cobra.Command, args []string) error {
		score1, score2, err := parseScores(args[4], args[5])
		if err != nil {
			return err
		}
		return performPostRequest("/teams/report", map[string]any{
			"reporter_external_id":  args[0],
			"ally_external_id":      args[1],
			"opponent1_external_id": args[2],
			"opponent2_external_id": args[3],
			"score1":                score1,
			"score2":                score2,
		})
	},
}

var teamConfirmCmd = &cobra.Command{
	Use:   "team-confirm [match-id] [confirmer]",
	Short: "Confirm a reported 2v2 match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/teams/confirm", map[string]any{
			"match_id":              args[0],
			"confirmer_external_id": args[1],
		})
	},
}

var teamRejectCmd = &cobra.Command{
	Use:   "team-reject [match-id] [rejecter]",
	Short: "Reject a reported 2v2 match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performPostRequest("/teams/reject", map[string]any{
			"match_id":             args[0],
			"rejecter_external_id": args[1],
		})
	},
}

func parseScores(a, b string) (int, int, error) {
	var score1, score2 int
	if _, err := fmt.Sscanf(a, "%d", &score1); err != nil {
		return 0, 0, fmt.Errorf("invalid score %q: %w", a, err)
	}
	if _, err := fmt.Sscanf(b, "%d", &score2); err != nil {
		return 0, 0, fmt.Errorf("invalid score %q: %w", b, err)
	}
	return score1, score2, nil
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint string, payload any) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
