package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/posclub/cashier/internal/api"
	"github.com/posclub/cashier/internal/cashier"
	"github.com/posclub/cashier/internal/config"
	"github.com/posclub/cashier/internal/realtime"
	"github.com/posclub/cashier/internal/session"
	"github.com/posclub/cashier/pkg/logging"
)

const (
	appName    = "cashier"
	appVersion = "0.1.0"
)

func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("%s(%s) invalid timezone %q: %v", appName, appVersion, cfg.Timezone, err)
	}

	store := session.NewStore(logger)
	client := api.NewClient(cfg.APIBaseURL, store,
		api.WithLogger(logger),
		api.WithOnUnauthorized(store.Clear),
	)

	if cfg.Username != "" {
		result, err := client.Login(ctx, cfg.Username, cfg.Password)
		if err != nil {
			log.Fatalf("%s(%s) cannot log in: %v", appName, appVersion, err)
		}
		user := result.User
		store.Install(result.Token, &user)
	}

	var feed realtime.Subscriber
	nats, err := realtime.NewNATSSubscriber(cfg.NATSURL, logger)
	if err != nil {
		// The view still works without push events; refreshes fall back
		// to the in-process bus and explicit user action.
		logger.Warn("event stream unavailable, using local bus", "error", err)
		feed = realtime.NewBus()
	} else {
		feed = nats
		defer nats.Close()
	}

	manager := cashier.NewManager(cashier.Options{
		Backend:  client,
		Session:  store,
		Logger:   logger,
		Now:      func() time.Time { return time.Now().In(loc) },
		PageSize: cfg.HistoryPageSize,
	})

	if err := manager.Refresh(ctx); err != nil {
		logger.Error("initial refresh failed", "error", err)
	}
	if err := manager.FetchOutletConfig(ctx); err != nil {
		logger.Warn("outlet config unavailable", "error", err)
	}

	unsubscribe, err := manager.Subscribe(ctx, feed)
	if err != nil {
		log.Fatalf("%s(%s) cannot subscribe to events: %v", appName, appVersion, err)
	}
	defer unsubscribe()

	logger.Info("cashier terminal ready", "outlet", cfg.OutletCode, "api", cfg.APIBaseURL)
	<-ctx.Done()
	logger.Info("shutting down")
}
