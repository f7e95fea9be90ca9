package main

import (
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/session-sentry/sentry/internal/config"
	"github.com/session-sentry/sentry/internal/dispatch"
	"github.com/session-sentry/sentry/internal/logger"
	"github.com/session-sentry/sentry/internal/session"
	"github.com/session-sentry/sentry/internal/simulate"
	"github.com/session-sentry/sentry/internal/sysinfo"
	"github.com/session-sentry/sentry/internal/ws"
	"github.com/session-sentry/sentry/internal/wts"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (built-in defaults when empty)")
	port := flag.Int("port", 0, "Override server port")
	simulateMode := flag.Bool("simulate", false, "Replay scripted session events instead of watching the OS")
	simulateInterval := flag.Duration("simulate-interval", 2*time.Second, "Delay between simulated events")
	flag.Parse()

	lg := logger.New("info", false)

	cfg, err := config.Load(*configPath)
	if err != nil {
		lg.Fatal().Err(err).Str("path", *configPath).Msg("failed to load config")
	}
	lg = logger.New(cfg.Log.Level, cfg.Log.Pretty)

	if *port > 0 {
		cfg.Server.Port = *port
	}

	store := session.NewStore(cfg.Events.HistorySize)
	broadcaster := ws.NewBroadcaster(store, cfg.Events.SnapshotInterval)
	server := ws.NewServer(cfg.Server, store, broadcaster)
	server.SetHostInfo(sysinfo.Collect)

	dispatcher, err := dispatch.New(cfg.Dispatch, lg)
	if err != nil {
		lg.Fatal().Err(err).Msg("invalid dispatch config")
	}
	lg.Info().Int("actions", dispatcher.ActionCount()).Msg("dispatcher ready")

	var sys wts.System
	if *simulateMode {
		lg.Info().Msg("simulate mode: replaying scripted session events")
		sys = simulate.NewSystem(*simulateInterval)
	} else {
		sys, err = wts.NewSystem()
		if err != nil {
			lg.Fatal().Err(err).Msg("session watching unavailable here; try -simulate")
		}
	}

	listener := wts.NewListener(sys, lg)
	if err := listener.Start(); err != nil {
		lg.Fatal().Err(err).Msg("failed to start session listener")
	}

	mux := http.NewServeMux()
	server.SetupRoutes(mux)
	go func() {
		if err := ws.ListenAndServe(cfg.Server.Host, cfg.Server.Port, mux); err != nil {
			lg.Fatal().Err(err).Msg("server error")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		lg.Info().Msg("shutting down")
		listener.Close()
		os.Exit(0)
	}()

	// The message loop owns this goroutine until retrieval reports
	// termination.
	for {
		ev, ok := listener.Next()
		if !ok {
			break
		}
		rec := store.Record(ev, time.Now())
		lg.Info().Stringer("event", ev).Uint64("seq", rec.Seq).Msg("session event")
		broadcaster.Publish(rec)
		dispatcher.Handle(ev)
	}

	listener.Close()
}
