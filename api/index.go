package handler

import (
	"context"
	"net/http"

	"pcns-backend/bootstrap"
	"pcns-backend/internal/config"
	"pcns-backend/internal/interfaces/router"
	"pcns-backend/internal/pkg/logger"

	"github.com/rs/zerolog/log"
)

var httpHandler http.Handler

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("loading config")
	}
	// The log file stays open for the life of the function instance.
	_ = logger.Setup(cfg)
	rt, err := bootstrap.New(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("starting runtime")
	}
	httpHandler = router.Handler(rt.App)
}

// Handler is the serverless entry point.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()
	httpHandler.ServeHTTP(w, r)
}
