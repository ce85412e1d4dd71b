package http

import (
	"net/http"

	"github.com/depressed1503/maria-rating/internal/config"
	"github.com/depressed1503/maria-rating/internal/ladder"
	"github.com/depressed1503/maria-rating/internal/metrics"
	"github.com/depressed1503/maria-rating/internal/notifier"
	"github.com/depressed1503/maria-rating/internal/players"
	"github.com/depressed1503/maria-rating/internal/pubsub"
	"github.com/depressed1503/maria-rating/internal/singles"
	"github.com/depressed1503/maria-rating/internal/teams"
)

func NewServer(directory players.Directory, singlesWF singles.Workflow, teamsWF teams.Workflow, ladderQ ladder.Query, metricsSvc metrics.Metrics, metricsHandler http.Handler, cfg config.Config, notifier notifier.Notifier, pubsub pubsub.PubSubClient) *Server {
	server := &Server{
		Players:        directory,
		Singles:        singlesWF,
		Teams:          teamsWF,
		Ladder:         ladderQ,
		Metrics:        metricsSvc,
		MetricsHandler: metricsHandler,
		Cfg:            cfg,
		Notifier:       notifier,
		Router:         http.NewServeMux(),
		pubsub:         pubsub,
	}

	server.routes()
	return server
}

func (s *Server) routes() {
	// All handlers are wrapped with middleware using the Chain helper.
	// This makes it easy to add more middlewares in the future, like an authentication middleware.
	// e.g. Chain(s.MyHandler(), paramsMiddleware, authMiddleware)
	s.Router.Handle("/metrics", s.MetricsHandler)
	s.Router.Handle("/health", Chain(s.HealthCheckHandler(), paramsMiddleware))
	s.Router.Handle("/register", Chain(s.RegisterPlayerHandler(), paramsMiddleware))
	s.Router.Handle("/players", Chain(s.ListPlayersHandler(), paramsMiddleware))
	s.Router.Handle("/player", Chain(s.PlayerHandler(), paramsMiddleware))
	s.Router.Handle("/player/handle", Chain(s.UpdateHandleHandler(), paramsMiddleware))
	s.Router.Handle("/leaderboard", Chain(s.LeaderboardHandler(), paramsMiddleware))
	s.Router.Handle("/singles/report", Chain(s.ReportSinglesHandler(), paramsMiddleware))
	s.Router.Handle("/singles/confirm", Chain(s.ConfirmSinglesHandler(), paramsMiddleware))
	s.Router.Handle("/singles/reject", Chain(s.RejectSinglesHandler(), paramsMiddleware))
	s.Router.Handle("/teams/report", Chain(s.ReportTeamHandler(), paramsMiddleware))
	s.Router.Handle("/teams/confirm", Chain(s.ConfirmTeamHandler(), paramsMiddleware))
	s.Router.Handle("/teams/reject", Chain(s.RejectTeamHandler(), paramsMiddleware))
	s.Router.Handle("/slack/command/leaderboard", Chain(s.LeaderboardCommandHandler(), paramsMiddleware))
	s.Router.Handle("/events/match-resolved", Chain(s.MatchResolvedEventHandler(), paramsMiddleware))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}
