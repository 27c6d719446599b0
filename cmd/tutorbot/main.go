package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	audioimpl "github.com/foxseedlab/sprachpartner/external/audio"
	configloader "github.com/foxseedlab/sprachpartner/external/config"
	"github.com/foxseedlab/sprachpartner/external/discord"
	generatorimpl "github.com/foxseedlab/sprachpartner/external/generator"
	repositoryimpl "github.com/foxseedlab/sprachpartner/external/repository"
	synthesizerimpl "github.com/foxseedlab/sprachpartner/external/synthesizer"
	"github.com/foxseedlab/sprachpartner/external/telegram"
	transcriberimpl "github.com/foxseedlab/sprachpartner/external/transcriber"
	webhookimpl "github.com/foxseedlab/sprachpartner/external/webhook"
	"github.com/foxseedlab/sprachpartner/internal/api"
	"github.com/foxseedlab/sprachpartner/internal/config"
	"github.com/foxseedlab/sprachpartner/internal/dialog"
	"github.com/foxseedlab/sprachpartner/internal/repository"
	"github.com/foxseedlab/sprachpartner/internal/stats"
	"github.com/foxseedlab/sprachpartner/internal/transcriber"
	"github.com/foxseedlab/sprachpartner/internal/tutor"
	"github.com/joho/godotenv"
	"github.com/samber/do/v2"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "store_driver", cfg.StoreDriver)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, injector); err != nil {
		slog.Error("bot stopped with error", "error", err)
		closeResources(injector)
		os.Exit(1)
	}
	closeResources(injector)
	slog.Info("shutdown complete")
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	audioimpl.RegisterDI(injector)
	generatorimpl.RegisterDI(injector)
	synthesizerimpl.RegisterDI(injector)
	transcriberimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	stats.RegisterDI(injector)
	tutor.RegisterDI(injector)
	dialog.RegisterDI(injector)
	api.RegisterDI(injector)
	telegram.RegisterDI(injector)
	discord.RegisterDI(injector)

	return injector
}

func run(ctx context.Context, cfg *config.Config, injector do.Injector) error {
	g, ctx := errgroup.WithContext(ctx)

	if cfg.TelegramBotToken != "" {
		tg, err := do.Invoke[*telegram.Bot](injector)
		if err != nil {
			return err
		}
		g.Go(func() error { return tg.Run(ctx) })
	}
	if cfg.DiscordToken != "" {
		dc, err := do.Invoke[*discord.Client](injector)
		if err != nil {
			return err
		}
		g.Go(func() error { return dc.Run(ctx) })
	}

	scheduler, err := do.Invoke[*stats.Scheduler](injector)
	if err != nil {
		return err
	}
	g.Go(func() error { return scheduler.Run(ctx) })

	handler, err := do.Invoke[*api.Handler](injector)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	g.Go(func() error {
		slog.Info("admin http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func closeResources(injector do.Injector) {
	if tr, err := do.Invoke[transcriber.Transcriber](injector); err == nil {
		if c, ok := tr.(io.Closer); ok {
			if err := c.Close(); err != nil {
				slog.Error("failed to close transcriber", "error", err)
			}
		}
	}
	repo, err := do.Invoke[repository.Repository](injector)
	if err != nil {
		return
	}
	if err := repo.Close(); err != nil {
		slog.Error("failed to close repository", "error", err)
	}
}
