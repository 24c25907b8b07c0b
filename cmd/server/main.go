package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/csg33k/ldpr-reports/internal/adapters/pdf"
	"github.com/csg33k/ldpr-reports/internal/adapters/reportapi"
	sqliteadapter "github.com/csg33k/ldpr-reports/internal/adapters/sqlite"
	"github.com/csg33k/ldpr-reports/internal/adapters/telegram"
	"github.com/csg33k/ldpr-reports/internal/catalog"
	"github.com/csg33k/ldpr-reports/internal/config"
	"github.com/csg33k/ldpr-reports/internal/handlers"
	"github.com/csg33k/ldpr-reports/internal/logging"
	"github.com/csg33k/ldpr-reports/internal/ports"
	"github.com/csg33k/ldpr-reports/internal/report"
)

func main() {
	cfg, err := config.Load()
	log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	for _, w := range cfg.Warnings() {
		log.Warn().Msg(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	store, err := sqliteadapter.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := os.MkdirAll(cfg.MediaDir, 0o755); err != nil {
		return err
	}

	var notifier ports.Notifier = telegram.Nop{}
	if cfg.TelegramToken != "" {
		n, err := telegram.New(cfg.TelegramToken, cfg.TelegramChat)
		if err != nil {
			return err
		}
		notifier = n
	}

	reports := report.NewService(store, pdf.New(cfg.FontPath), notifier, cfg.MediaDir, log)
	h := handlers.New(handlers.Deps{
		Reports:       reports,
		Drafts:        func(id int64) ports.DraftRepository { return store.Drafts(id) },
		API:           reportapi.New(cfg.ReportAPIURL, reportapi.WithDownloadDir(cfg.DownloadDir)),
		Catalog:       catalog.Default(),
		PublicBaseURL: cfg.PublicBaseURL,
		SessionTTL:    cfg.SessionTTL,
		Logger:        log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Str("db", cfg.DBPath).Msg("deputy report server running")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
