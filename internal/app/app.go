// Package app wires configuration, logging, and dependencies behind the CLI
// commands.
package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"currency-watch/internal/alerting"
	"currency-watch/internal/config"
	"currency-watch/internal/fetcher"
	"currency-watch/internal/scheduler"
	"currency-watch/internal/service"
	"currency-watch/internal/storage"
)

const sessionIDLayout = "20060102_150405"

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	sessionID string
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config:    cfg,
		Logger:    logger.With().Str("component", "app").Logger(),
		sessionID: time.Now().UTC().Format(sessionIDLayout),
	}
}

func (a *App) openStore() (*storage.Store, error) {
	if a.Config.Database.Path == "" {
		return nil, nil
	}
	return storage.Open(a.Config.Database.Path, a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	if !a.Config.Alerting.Enabled {
		return nil
	}
	var channels alerting.Multi
	for _, channel := range a.Config.Alerting.Channels {
		switch channel {
		case "log":
			channels = append(channels, alerting.NewLogNotifier(a.Logger))
		case "telegram":
			tg := a.Config.Alerting.Telegram
			channels = append(channels, alerting.NewTelegramNotifier(tg.BotToken, tg.ChatID, tg.APIBase, 10*time.Second, a.Logger))
		}
	}
	if len(channels) == 0 {
		return nil
	}
	return channels
}

func (a *App) newService(store *storage.Store, notifier alerting.Notifier) *service.Service {
	client := fetcher.NewClient(a.Config.Source.RequestTimeout, a.Logger)
	return service.New(a.Config, client, store, notifier, a.Logger)
}

// Run executes the long-running monitoring loop: one fetch cycle per
// scheduler tick, with session export files refreshed after each cycle when
// configured.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := a.openStore()
	if err != nil {
		return err
	}
	if store == nil {
		a.Logger.Warn().Msg("database.path not configured; persistence disabled")
	} else {
		defer store.Close()
	}

	svc := a.newService(store, a.newNotifier())
	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Scheduler.Interval,
		AlignToStart: a.Config.Scheduler.AlignToStart,
		StartupDelay: a.Config.Scheduler.StartupDelay,
	}, a.Logger)

	a.Logger.Info().
		Str("url", a.Config.Source.BaseURL).
		Dur("interval", a.Config.Scheduler.Interval).
		Str("session", a.sessionID).
		Msg("starting monitoring loop")

	err = sched.Run(ctx, func(ctx context.Context, _ time.Time) error {
		if _, err := svc.RunCycle(ctx); err != nil {
			return err
		}
		a.refreshSessionFiles(svc)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("monitoring loop terminated with error")
		return err
	}

	a.Logger.Info().Msg("monitoring loop stopped")
	return nil
}
