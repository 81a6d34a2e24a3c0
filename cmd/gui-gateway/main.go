// Command gui-gateway serves the HTML-over-SSE GUI for an OVOS voice
// assistant: it connects to the core messagebus, maintains the GUI
// coordinator's namespace/page state, and streams rendered fragments to
// connected browsers.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"ovos-htmx-gui-gateway/internal/bus"
	"ovos-htmx-gui-gateway/internal/config"
	"ovos-htmx-gui-gateway/internal/eventbus"
	"ovos-htmx-gui-gateway/internal/gui"
	"ovos-htmx-gui-gateway/internal/pages"
	"ovos-htmx-gui-gateway/internal/render"
	"ovos-htmx-gui-gateway/internal/server"
	"ovos-htmx-gui-gateway/internal/status"
	"ovos-htmx-gui-gateway/internal/util"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Get()
	config.InitLogger(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	registry := pages.NewRegistry()
	clock := gui.NewClock()
	pages.RegisterHomeScreen(registry, clock)
	pages.RegisterHelloWorld(registry)
	registry.Register(status.PageURI, func() (*gui.PageManager, error) {
		return status.BuildPage(), nil
	})

	coordinator := gui.NewCoordinator(nil, registry)
	frames := eventbus.New[render.Frame]()
	renderer := render.New(coordinator, frames)
	coordinator.SetRenderer(renderer)
	defer renderer.Close()

	coordinator.ActivateNamespace(util.StatusNamespace)
	statusIDs, err := coordinator.InsertPages(util.StatusNamespace, []gui.PageArg{{URI: status.PageURI}})
	if err != nil {
		slog.Error("failed to insert status page", "error", err)
		os.Exit(1)
	}
	statusPM, _ := coordinator.Manager(util.StatusNamespace, statusIDs[0])

	sessionOpts := []eventbus.Option{}
	if cfg.Redis != nil && cfg.Redis.URL != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.URL})
		sessionOpts = append(sessionOpts, eventbus.WithRedis(rdb, cfg.Redis.KeyPrefix))
	}
	sessions := eventbus.NewSessionRegistry(cfg.Bus.PingPeriod, util.DefaultSessionGraceFactor, slog.Default(), sessionOpts...)
	go sessions.Run(ctx)

	statusMachine := status.NewMachine(statusRenderer(statusPM, renderer))
	statusMachine.Start(ctx)
	defer statusMachine.Stop()

	busClient := bus.NewClient(cfg.Bus.URL, cfg.Bus.ClientID, cfg.Bus.Framework, slog.Default())
	wireBusHandlers(busClient, coordinator, statusMachine)
	go busClient.Run(ctx)

	go clock.Run(ctx)

	srv := server.New(coordinator, renderer, frames, sessions, cfg.Server.AssetsDirectory, cfg.Bus.PingPeriod)

	port := cfg.Server.Port
	if port == 0 {
		port = 8089
	}
	httpServer := &http.Server{
		Addr:              cfg.Server.Host + ":" + strconv.Itoa(port),
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("gui-gateway listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}
