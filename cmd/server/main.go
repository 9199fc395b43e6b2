package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DoyleJ11/slap-backend/internal/config"
	"github.com/DoyleJ11/slap-backend/internal/httpapi"
	"github.com/DoyleJ11/slap-backend/internal/hub"
	"github.com/DoyleJ11/slap-backend/internal/lobby"
	"github.com/DoyleJ11/slap-backend/internal/logging"
	"github.com/DoyleJ11/slap-backend/internal/relay"
	"github.com/DoyleJ11/slap-backend/internal/store"
	"github.com/DoyleJ11/slap-backend/internal/ws"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	recorderBacklog = 128
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := openStore(cfg, log)
	if err != nil {
		return err
	}
	recorder := store.NewRecorder(repo, log.Named("store"), recorderBacklog)

	var (
		sink lobby.Sink
		rl   *relay.Relay
	)
	if cfg.NatsURL != "" {
		rl, err = relay.Connect(cfg.NatsURL, log.Named("relay"))
		if err != nil {
			return multierr.Append(err, repo.Close())
		}
		sink = rl
		log.Info("relaying lobby events", zap.String("nats", cfg.NatsURL))
	}

	h := hub.NewHub(context.Background(), hub.Options{
		Rules:       cfg.Rules(),
		IdleTimeout: cfg.LobbyIdleTimeout,
		Logger:      log.Named("lobby"),
		Sink:        sink,
		Recorder:    recorder,
	})

	// Build the router *with* the hub injected
	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: httpapi.SetupRoutes(httpapi.Deps{
			Hub:       h,
			Rounds:    repo,
			Logger:    log.Named("http"),
			PublicURL: cfg.PublicURL,
			WS:        ws.Options{Logger: log.Named("ws")},
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	recCtx, stopRecorder := context.WithCancel(context.Background())
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return recorder.Run(recCtx) })
	g.Go(func() error {
		log.Info("listening", zap.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		// Lobbies close their sockets; finished rounds are flushed after.
		h.Shutdown()
		stopRecorder()
		return err
	})

	err = g.Wait()
	err = multierr.Append(err, repo.Close())
	if rl != nil {
		err = multierr.Append(err, rl.Close())
	}
	return err
}

func openStore(cfg config.Config, log *zap.Logger) (store.Repository, error) {
	if cfg.DatabaseURL == "" {
		log.Info("round history kept in memory")
		return store.NewMemoryRepository(), nil
	}
	repo, err := store.OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Info("round history stored in postgres")
	return repo, nil
}
