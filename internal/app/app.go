// Package app provides top-level lifecycle management for botnanny. It wires
// together the platform client, notification sink, optional journal, and the
// polling supervisor, and blocks until the context is cancelled.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"botnanny/internal/config"
	"botnanny/internal/nanny"
	"botnanny/internal/notify"
	"botnanny/internal/store/postgres"
	"botnanny/internal/threecommas"
)

// App is the root application object. It owns the configuration, logger, and
// a list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	version string
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, version string, logger *slog.Logger) *App {
	return &App{
		cfg:     cfg,
		version: version,
		logger:  logger.With(slog.String("component", "app")),
	}
}

// Run wires all dependencies and runs the polling supervisor until ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	cfg := a.cfg

	a.logger.InfoContext(ctx, "starting botnanny",
		slog.String("version", a.version),
		slog.Int("interval_seconds", cfg.IntervalSeconds),
		slog.Float64("target_pnl_percent", cfg.TargetPnLPercent),
		slog.Float64("adjusted_sl_percent", cfg.AdjustedSLPercent),
		slog.Int("selected_accounts", len(cfg.ThreeCommas.AccountIDs)),
		slog.Int("selected_bots", len(cfg.ThreeCommas.BotIDs)),
		slog.Int("selected_deals", len(cfg.ThreeCommas.DealIDs)),
	)

	client := threecommas.NewClient(
		cfg.ThreeCommas.BaseURL,
		cfg.ThreeCommas.ApiKey,
		cfg.ThreeCommas.ApiSecret,
	)

	var senders []notify.Sender
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		senders = append(senders, notify.NewTelegramSender(cfg.Telegram.BotToken, cfg.Telegram.ChatID))
	}
	if cfg.Discord.WebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Discord.WebhookURL))
	}
	notifier := notify.NewNotifier(senders, cfg.Notify.Events, a.logger)

	var journal nanny.Journal
	if cfg.Journal.DSN != "" {
		pg, err := postgres.New(ctx, cfg.Journal.DSN)
		if err != nil {
			return fmt.Errorf("app: connect journal: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		if err := pg.RunMigrations(ctx); err != nil {
			return fmt.Errorf("app: migrate journal: %w", err)
		}
		journal = postgres.NewJournalStore(pg.Pool())
		a.logger.InfoContext(ctx, "protection journal enabled")
	}

	discovery := nanny.NewDiscovery(client, a.logger)
	engine := nanny.NewEngine(client, notifier, journal, nanny.ProtectionPolicy{
		TargetPnLPercent:  cfg.TargetPnLPercent,
		AdjustedSLPercent: cfg.AdjustedSLPercent,
	}, a.logger)

	supervisor := nanny.NewSupervisor(
		client,
		discovery,
		engine,
		notifier,
		nanny.Selection{
			AccountIDs: cfg.ThreeCommas.AccountIDs,
			BotIDs:     cfg.ThreeCommas.BotIDs,
			DealIDs:    cfg.ThreeCommas.DealIDs,
		},
		time.Duration(cfg.IntervalSeconds)*time.Second,
		a.logger,
	)

	return supervisor.Run(ctx, a.version)
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
