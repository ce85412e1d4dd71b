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

type Server struct {
	Players        players.Directory
	Singles        singles.Workflow
	Teams          teams.Workflow
	Ladder         ladder.Query
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Notifier       notifier.Notifier
	Router         *http.ServeMux
	pubsub         pubsub.PubSubClient
}
