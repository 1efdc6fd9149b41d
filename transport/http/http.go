package http

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"innstay/config"
	"innstay/shared/constant"
	"innstay/transport/http/response"
	"innstay/transport/http/router"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type ServerState int

const (
	ServerStateReady ServerState = iota + 1
	ServerStateInGracePeriod
	ServerStateInCleanupPeriod
)

const readHeaderTimeout = 10 * time.Second

type HTTP struct {
	Config *config.Config
	Router router.Router
	State  ServerState
	server *http.Server
}

func New(cfg *config.Config, r router.Router) *HTTP {
	return &HTTP{
		Config: cfg,
		Router: r,
	}
}

func (h *HTTP) Serve() {
	h.setup()

	log.Info().Str("port", h.Config.Server.Port).Msg("Starting up HTTP server.")

	if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func (h *HTTP) setup() {
	h.setupRoutes()
	h.setupGracefulShutdown()
	h.State = ServerStateReady
}

func (h *HTTP) setupRoutes() {
	mux := chi.NewRouter()

	mux.Get("/health", h.healthCheck)

	h.Router.SetupRoutes(mux)

	h.server = &http.Server{
		Addr:              net.JoinHostPort("0.0.0.0", h.Config.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// healthCheck reports draining during the shutdown grace period so load
// balancers stop routing here before in-flight requests are cut off.
func (h *HTTP) healthCheck(writer http.ResponseWriter, _ *http.Request) {
	if h.State != ServerStateReady {
		response.WithPreparingShutdown(writer)

		return
	}

	response.WithMessage(writer, http.StatusOK, "OK")
}

func (h *HTTP) setupGracefulShutdown() {
	serverStateCh := make(chan os.Signal, 1)

	signal.Notify(serverStateCh, os.Interrupt, syscall.SIGTERM)

	go h.respondToSigterm(serverStateCh)
}

func (h *HTTP) respondToSigterm(done chan os.Signal) {
	<-done

	defer os.Exit(0)

	if h.Config.Server.Env == constant.ServerEnvDevelopment {
		log.Warn().Msg("Received SIGTERM. Shutting down now.")

		return
	}

	shutdownConfig := h.Config.Server.Shutdown

	log.Info().Msg("Received SIGTERM.")
	log.Info().Int64("seconds", shutdownConfig.GracePeriodSeconds).Msg("Entering grace period.")

	h.State = ServerStateInGracePeriod

	time.Sleep(time.Duration(shutdownConfig.GracePeriodSeconds) * time.Second)

	log.Info().Int64("seconds", shutdownConfig.CleanupPeriodSeconds).Msg("Entering cleanup period.")

	h.State = ServerStateInCleanupPeriod

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(shutdownConfig.CleanupPeriodSeconds)*time.Second)
	defer cancel()

	if err := h.server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down HTTP server cleanly")
	}

	log.Info().Msg("Cleaning up completed. Shutting down now.")
}
