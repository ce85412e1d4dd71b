package http

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/slack-go/slack"

	"github.com/depressed1503/maria-rating/internal/players"
	"github.com/depressed1503/maria-rating/internal/pubsub"
	"github.com/depressed1503/maria-rating/internal/singles"
	"github.com/depressed1503/maria-rating/internal/teams"
)

func (s *Server) HealthCheckHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Debug("Received health check request")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK!")
	}
}

// respondJSON writes v as a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("Failed to encode response to JSON", "error", err)
	}
}

// decodeJSON parses the request body into v and writes a 400 on failure.
// It returns false when the caller should stop processing the request.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Error("Failed to decode request body", "error", err)
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return false
	}
	return true
}

// resolvePlayer looks up a registered player by external id and writes a 404
// when nothing is found. The caller should stop when the result is nil.
func (s *Server) resolvePlayer(w http.ResponseWriter, externalID string) *players.Player {
	player, err := s.Players.FindByExternalID(externalID)
	if err != nil {
		log.Error("Failed to look up player", "externalID", externalID, "error", err)
		http.Error(w, "Failed to look up player", http.StatusInternalServerError)
		return nil
	}
	if player == nil {
		http.Error(w, fmt.Sprintf("Unknown player %q", externalID), http.StatusNotFound)
		return nil
	}
	return player
}

func (s *Server) RegisterPlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExternalID string `json:"external_id"`
			Handle     string `json:"handle"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}

		id, err := s.Players.Register(req.ExternalID, req.Handle)
		if err != nil {
			if errors.Is(err, players.ErrValidation) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("Failed to register player", "externalID", req.ExternalID, "error", err)
			http.Error(w, "Failed to register player", http.StatusInternalServerError)
			return
		}

		event := pubsub.PlayerRegisteredEvent{PlayerID: id, Handle: req.Handle}
		if err := s.pubsub.SendMessage(r.Context(), pubsub.EventPlayerRegistered, event); err != nil {
			log.Error("Failed to publish registration event", "playerID", id, "error", err)
		}

		log.Info("Registered player", "externalID", req.ExternalID, "playerID", id)
		respondJSON(w, http.StatusOK, map[string]any{"player_id": id})
	}
}

func (s *Server) UpdateHandleHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExternalID string `json:"external_id"`
			Handle     string `json:"handle"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := s.Players.UpdateHandle(req.ExternalID, req.Handle); err != nil {
			if errors.Is(err, players.ErrValidation) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("Failed to update handle", "externalID", req.ExternalID, "error", err)
			http.Error(w, "Failed to update handle", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}
}

func (s *Server) ListPlayersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.Ladder.Leaderboard()
		if err != nil {
			http.Error(w, "Failed to get players", http.StatusInternalServerError)
			log.Error("Failed to get players from store", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}

// PlayerHandler serves a single player's profile, including how many
// confirmed singles matches they have played.
func (s *Server) PlayerHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		externalID := r.URL.Query().Get("external_id")
		handle := r.URL.Query().Get("handle")

		var player *players.Player
		var err error
		switch {
		case externalID != "":
			player, err = s.Players.FindByExternalID(externalID)
		case handle != "":
			player, err = s.Players.FindByHandle(handle)
		default:
			http.Error(w, "external_id or handle is required", http.StatusBadRequest)
			return
		}
		if err != nil {
			http.Error(w, "Failed to look up player", http.StatusInternalServerError)
			log.Error("Failed to look up player", "error", err)
			return
		}
		if player == nil {
			http.Error(w, "Player not found", http.StatusNotFound)
			return
		}

		games, err := s.Ladder.GamesPlayed(player.ID)
		if err != nil {
			http.Error(w, "Failed to count games", http.StatusInternalServerError)
			log.Error("Failed to count games played", "playerID", player.ID, "error", err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"player":       player,
			"games_played": games,
		})
	}
}

func (s *Server) LeaderboardHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.Ladder.Leaderboard()
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard from store", "error", err)
			return
		}
		respondJSON(w, http.StatusOK, entries)
	}
}

func (s *Server) ReportSinglesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ReporterExternalID string `json:"reporter_external_id"`
			OpponentExternalID string `json:"opponent_external_id"`
			Score1             int    `json:"score1"`
			Score2             int    `json:"score2"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		isDryRun := isDryRunFromContext(r)

		reporter := s.resolvePlayer(w, req.ReporterExternalID)
		if reporter == nil {
			return
		}
		opponent := s.resolvePlayer(w, req.OpponentExternalID)
		if opponent == nil {
			return
		}

		matchID, err := s.Singles.Report(reporter.ID, opponent.ID, req.Score1, req.Score2)
		if err != nil {
			if errors.Is(err, singles.ErrValidation) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("Failed to report match", "error", err)
			http.Error(w, "Failed to report match", http.StatusInternalServerError)
			return
		}
		s.Metrics.IncMatchesReported()

		match, err := s.Singles.Get(matchID)
		if err == nil && match != nil {
			if err := s.Notifier.SendSinglesReported(match, reporter, opponent, isDryRun); err != nil {
				log.Error("Failed to send report notification", "matchID", matchID, "error", err)
			}
		}

		log.Info("Reported singles match", "matchID", matchID, "reporter", reporter.Handle, "opponent", opponent.Handle)
		respondJSON(w, http.StatusOK, map[string]any{"match_id": matchID, "state": singles.StatePending})
	}
}

func (s *Server) ConfirmSinglesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MatchID             string `json:"match_id"`
			ConfirmerExternalID string `json:"confirmer_external_id"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		isDryRun := isDryRunFromContext(r)

		// Snapshot the pre-confirmation ratings so the published event can
		// carry the rating deltas.
		oldRatings := map[int64]int{}
		if match, err := s.Singles.Get(req.MatchID); err == nil && match != nil {
			for _, id := range []int64{match.ReporterID, match.OpponentID} {
				if p, err := s.Players.FindByID(id); err == nil && p != nil {
					oldRatings[id] = p.Rating
				}
			}
		}

		start := time.Now()
		outcome, err := s.Singles.Confirm(req.MatchID, req.ConfirmerExternalID)
		if err != nil {
			log.Error("Failed to confirm match", "matchID", req.MatchID, "error", err)
			http.Error(w, "Failed to confirm match", http.StatusInternalServerError)
			return
		}

		switch outcome {
		case singles.OutcomeApplied:
			s.Metrics.IncMatchesConfirmed()
			s.Metrics.ObserveConfirmDuration(time.Since(start).Seconds())
			s.notifySinglesConfirmed(r.Context(), req.MatchID, oldRatings, isDryRun)
			respondJSON(w, http.StatusOK, map[string]any{"outcome": outcome})
		case singles.OutcomeNotFound:
			http.Error(w, "Match not found", http.StatusNotFound)
		default:
			respondJSON(w, http.StatusOK, map[string]any{"outcome": outcome})
		}
	}
}

// notifySinglesConfirmed sends the confirmation notification and publishes
// the rating changes. Both are best effort and never fail the request.
func (s *Server) notifySinglesConfirmed(ctx context.Context, matchID string, oldRatings map[int64]int, dryRun bool) {
	match, err := s.Singles.Get(matchID)
	if err != nil || match == nil {
		log.Error("Failed to load confirmed match", "matchID", matchID, "error", err)
		return
	}

	winner, err := s.Players.FindByID(match.WinnerID)
	if err != nil || winner == nil {
		log.Error("Failed to load winner", "matchID", matchID, "error", err)
		return
	}
	loser, err := s.Players.FindByID(match.LoserID())
	if err != nil || loser == nil {
		log.Error("Failed to load loser", "matchID", matchID, "error", err)
		return
	}

	if err := s.Notifier.SendSinglesConfirmed(match, winner, loser, dryRun); err != nil {
		log.Error("Failed to send confirmation notification", "matchID", matchID, "error", err)
	}

	event := pubsub.MatchResolvedEvent{
		MatchID: matchID,
		Changes: []pubsub.RatingChange{
			{PlayerID: winner.ID, Handle: winner.Handle, OldRating: oldRatings[winner.ID], NewRating: winner.Rating},
			{PlayerID: loser.ID, Handle: loser.Handle, OldRating: oldRatings[loser.ID], NewRating: loser.Rating},
		},
	}
	if err := s.pubsub.SendMessage(ctx, pubsub.EventSinglesConfirmed, event); err != nil {
		log.Error("Failed to publish confirmation event", "matchID", matchID, "error", err)
	}
}

func (s *Server) RejectSinglesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MatchID            string `json:"match_id"`
			RejecterExternalID string `json:"rejecter_external_id"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		isDryRun := isDryRunFromContext(r)

		// The match row disappears on rejection, so fetch it up front for
		// the notification.
		match, err := s.Singles.Get(req.MatchID)
		if err != nil {
			log.Error("Failed to load match", "matchID", req.MatchID, "error", err)
			http.Error(w, "Failed to load match", http.StatusInternalServerError)
			return
		}

		outcome, err := s.Singles.Reject(req.MatchID, req.RejecterExternalID)
		if err != nil {
			log.Error("Failed to reject match", "matchID", req.MatchID, "error", err)
			http.Error(w, "Failed to reject match", http.StatusInternalServerError)
			return
		}

		switch outcome {
		case singles.OutcomeRemoved:
			s.Metrics.IncMatchesRejected()
			if match != nil {
				if err := s.Notifier.SendSinglesRejected(match, isDryRun); err != nil {
					log.Error("Failed to send rejection notification", "matchID", req.MatchID, "error", err)
				}
			}
			if err := s.pubsub.SendMessage(r.Context(), pubsub.EventSinglesRejected, pubsub.MatchResolvedEvent{MatchID: req.MatchID}); err != nil {
				log.Error("Failed to publish rejection event", "matchID", req.MatchID, "error", err)
			}
			respondJSON(w, http.StatusOK, map[string]any{"outcome": outcome})
		case singles.OutcomeNotFound:
			http.Error(w, "Match not found", http.StatusNotFound)
		default:
			respondJSON(w, http.StatusOK, map[string]any{"outcome": outcome})
		}
	}
}

func (s *Server) ReportTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ReporterExternalID  string `json:"reporter_external_id"`
			AllyExternalID      string `json:"ally_external_id"`
			Opponent1ExternalID string `json:"opponent1_external_id"`
			Opponent2ExternalID string `json:"opponent2_external_id"`
			Score1              int    `json:"score1"`
			Score2              int    `json:"score2"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		isDryRun := isDryRunFromContext(r)

		reporter := s.resolvePlayer(w, req.ReporterExternalID)
		if reporter == nil {
			return
		}
		ally := s.resolvePlayer(w, req.AllyExternalID)
		if ally == nil {
			return
		}
		opponent1 := s.resolvePlayer(w, req.Opponent1ExternalID)
		if opponent1 == nil {
			return
		}
		opponent2 := s.resolvePlayer(w, req.Opponent2ExternalID)
		if opponent2 == nil {
			return
		}

		matchID, err := s.Teams.Report(reporter.ID, ally.ID, opponent1.ID, opponent2.ID, req.Score1, req.Score2)
		if err != nil {
			if errors.Is(err, teams.ErrValidation) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			log.Error("Failed to report team match", "error", err)
			http.Error(w, "Failed to report match", http.StatusInternalServerError)
			return
		}
		s.Metrics.IncMatchesReported()

		match, err := s.Teams.Get(matchID)
		if err == nil && match != nil {
			participants := []players.Player{*reporter, *ally, *opponent1, *opponent2}
			if err := s.Notifier.SendTeamReported(match, participants, isDryRun); err != nil {
				log.Error("Failed to send report notification", "matchID", matchID, "error", err)
			}
		}

		log.Info("Reported team match", "matchID", matchID, "reporter", reporter.Handle)
		respondJSON(w, http.StatusOK, map[string]any{"match_id": matchID, "state": teams.StatePending})
	}
}

func (s *Server) ConfirmTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MatchID             string `json:"match_id"`
			ConfirmerExternalID string `json:"confirmer_external_id"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		isDryRun := isDryRunFromContext(r)

		oldRatings := map[int64]int{}
		if match, err := s.Teams.Get(req.MatchID); err == nil && match != nil {
			for _, id := range []int64{match.ReporterID, match.AllyID, match.Opponent1ID, match.Opponent2ID} {
				if p, err := s.Players.FindByID(id); err == nil && p != nil {
					oldRatings[id] = p.Rating
				}
			}
		}

		start := time.Now()
		outcome, err := s.Teams.Confirm(req.MatchID, req.ConfirmerExternalID)
		if err != nil {
			log.Error("Failed to confirm team match", "matchID", req.MatchID, "error", err)
			http.Error(w, "Failed to confirm match", http.StatusInternalServerError)
			return
		}

		switch outcome {
		case teams.OutcomeFinalized:
			s.Metrics.IncMatchesConfirmed()
			s.Metrics.ObserveConfirmDuration(time.Since(start).Seconds())
			s.notifyTeamFinalized(r.Context(), req.MatchID, oldRatings, isDryRun)
			respondJSON(w, http.StatusOK, map[string]any{"outcome": outcome})
		case teams.OutcomeNotFound:
			http.Error(w, "Match not found", http.StatusNotFound)
		case teams.OutcomeNotParticipant:
			http.Error(w, "Not a participant of this match", http.StatusForbidden)
		default:
			respondJSON(w, http.StatusOK, map[string]any{"outcome": outcome})
		}
	}
}

// notifyTeamFinalized sends the finalization notification and publishes the
// rating changes for all four participants. Best effort.
func (s *Server) notifyTeamFinalized(ctx context.Context, matchID string, oldRatings map[int64]int, dryRun bool) {
	match, err := s.Teams.Get(matchID)
	if err != nil || match == nil {
		log.Error("Failed to load finalized match", "matchID", matchID, "error", err)
		return
	}

	var participants []players.Player
	var changes []pubsub.RatingChange
	for _, id := range []int64{match.ReporterID, match.AllyID, match.Opponent1ID, match.Opponent2ID} {
		p, err := s.Players.FindByID(id)
		if err != nil || p == nil {
			log.Error("Failed to load participant", "matchID", matchID, "playerID", id, "error", err)
			return
		}
		participants = append(participants, *p)
		changes = append(changes, pubsub.RatingChange{
			PlayerID:  p.ID,
			Handle:    p.Handle,
			OldRating: oldRatings[p.ID],
			NewRating: p.Rating,
		})
	}

	if err := s.Notifier.SendTeamFinalized(match, participants, dryRun); err != nil {
		log.Error("Failed to send finalization notification", "matchID", matchID, "error", err)
	}

	event := pubsub.MatchResolvedEvent{MatchID: matchID, Changes: changes}
	if err := s.pubsub.SendMessage(ctx, pubsub.EventTeamFinalized, event); err != nil {
		log.Error("Failed to publish finalization event", "matchID", matchID, "error", err)
	}
}

func (s *Server) RejectTeamHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			MatchID            string `json:"match_id"`
			RejecterExternalID string `json:"rejecter_external_id"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}

		outcome, err := s.Teams.Reject(req.MatchID, req.RejecterExternalID)
		if err != nil {
			log.Error("Failed to reject team match", "matchID", req.MatchID, "error", err)
			http.Error(w, "Failed to reject match", http.StatusInternalServerError)
			return
		}

		switch outcome {
		case teams.OutcomeRemoved:
			s.Metrics.IncMatchesRejected()
			if err := s.pubsub.SendMessage(r.Context(), pubsub.EventTeamRejected, pubsub.MatchResolvedEvent{MatchID: req.MatchID}); err != nil {
				log.Error("Failed to publish rejection event", "matchID", req.MatchID, "error", err)
			}
			respondJSON(w, http.StatusOK, map[string]any{"outcome": outcome})
		case teams.OutcomeNotFound:
			http.Error(w, "Match not found", http.StatusNotFound)
		case teams.OutcomeNotParticipant:
			http.Error(w, "Not a participant of this match", http.StatusForbidden)
		default:
			respondJSON(w, http.StatusOK, map[string]any{"outcome": outcome})
		}
	}
}

// MatchResolvedEventHandler consumes pushed match-resolved events and posts
// the refreshed standings to the channel.
func (s *Server) MatchResolvedEventHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bodyBytes, err := io.ReadAll(r.Body)
		if err != nil {
			log.Error("Failed to read request body", "error", err)
			http.Error(w, "Failed to read request body", http.StatusInternalServerError)
			return
		}
		log.Debug("Received match resolved message", "body", string(bodyBytes))
		// Decode the push wrapper to get the base64-encoded payload.
		var pubsubMsg struct {
			Subscription string `json:"subscription"`
			Message      struct {
				Data string `json:"data"`
			} `json:"message"`
		}
		if err := json.Unmarshal(bodyBytes, &pubsubMsg); err != nil {
			log.Error("Failed to unmarshal wrapper JSON", "error", err)
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		rawData, err := base64.StdEncoding.DecodeString(pubsubMsg.Message.Data)
		if err != nil {
			log.Error("Failed to decode base64 data", "error", err)
			http.Error(w, "Invalid base64 data", http.StatusBadRequest)
			return
		}

		event := pubsub.MatchResolvedEvent{}
		if err := s.pubsub.ProcessMessage(rawData, &event); err != nil {
			http.Error(w, "Invalid event payload", http.StatusBadRequest)
			return
		}
		log.Info("Processing match resolved event", "matchID", event.MatchID)

		entries, err := s.Ladder.Leaderboard()
		if err != nil {
			log.Error("Failed to get leaderboard", "matchID", event.MatchID, "error", err)
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			return
		}
		isDryRun := isDryRunFromContext(r)
		if err := s.Notifier.SendLeaderboard(entries, isDryRun); err != nil {
			log.Error("Failed to post leaderboard", "matchID", event.MatchID, "error", err)
			http.Error(w, "Failed to post leaderboard", http.StatusInternalServerError)
			return
		}
		w.Write([]byte("OK"))
	}
}

// respondWithSlackMsg is a helper to format and write a Slack message as an HTTP response.
func respondWithSlackMsg(w http.ResponseWriter, msg slack.Message) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(msg); err != nil {
		log.Error("Failed to encode slack message to JSON", "error", err)
	}
}

// LeaderboardCommandHandler returns a handler for the /leaderboard Slack command.
func (s *Server) LeaderboardCommandHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := s.Ladder.Leaderboard()
		if err != nil {
			http.Error(w, "Failed to get leaderboard", http.StatusInternalServerError)
			log.Error("Failed to get leaderboard from store", "error", err)
			return
		}

		msg, err := s.Notifier.FormatLeaderboardResponse(entries)
		if err != nil {
			http.Error(w, "Failed to format leaderboard", http.StatusInternalServerError)
			log.Error("Failed to format leaderboard", "error", err)
			return
		}

		slackMsg, ok := msg.(slack.Message)
		if !ok {
			http.Error(w, "Invalid message format for Slack", http.StatusInternalServerError)
			log.Error("Failed to cast message to slack.Message")
			return
		}

		respondWithSlackMsg(w, slackMsg)
	}
}
