package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/forexadvisor/forexadvisor/internal/clients/exchangerate"
	"github.com/forexadvisor/forexadvisor/internal/config"
	"github.com/forexadvisor/forexadvisor/internal/database"
	"github.com/forexadvisor/forexadvisor/internal/events"
	"github.com/forexadvisor/forexadvisor/internal/modules/budget"
	"github.com/forexadvisor/forexadvisor/internal/modules/forex"
	"github.com/forexadvisor/forexadvisor/internal/modules/investments"
	"github.com/forexadvisor/forexadvisor/internal/notify"
	"github.com/forexadvisor/forexadvisor/internal/remote"
	"github.com/forexadvisor/forexadvisor/internal/scheduler"
	"github.com/forexadvisor/forexadvisor/internal/server"
	"github.com/forexadvisor/forexadvisor/internal/storage"
	"github.com/forexadvisor/forexadvisor/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; fall back to a bare one
		fallback := logger.New(logger.Config{})
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting ForexAdvisor")

	// Local cache
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	blob, err := storage.NewBlob(db.Conn(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize blob store")
	}

	// Remote record store, optional: without it the app runs offline
	var remoteStore investments.RemoteStore
	if cfg.RemoteDSN != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		client, err := remote.New(ctx, cfg.RemoteDSN, log)
		cancel()
		if err != nil {
			log.Error().Err(err).Msg("Remote store unavailable, continuing offline")
		} else {
			defer client.Close()
			remoteStore = remote.NewInvestmentStore(client, log)
		}
	}

	// Scheduler and notifications
	sched := scheduler.New(log)
	sched.Start()
	defer sched.Stop()

	notifier := notify.NewManager([]notify.Sender{notify.NewLogSender(log)}, sched, log)
	ev := events.NewManager(log)

	// Investments
	store, err := investments.NewStore(investments.StoreConfig{
		Blob:          blob,
		Remote:        remoteStore,
		Notifier:      notifier,
		Events:        ev,
		UserID:        cfg.UserID,
		WalletDefault: cfg.WalletDefault,
		Log:           log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize position store")
	}

	// Pull once after startup; remote is authoritative at session start
	if remoteStore != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := store.Pull(ctx); err != nil {
			log.Error().Err(err).Msg("Initial pull failed, serving cached state")
		}
		cancel()
	}

	alerts := investments.NewAlertBook(blob, ev, log)
	milestones := investments.NewMilestoneChecker(blob, notifier, ev, log)
	reminders := investments.NewReminders(notifier, ev, log)

	// Forex
	rateClient := exchangerate.NewClient(cfg.ExchangeRateURL, "", log)
	forexService := forex.NewService(rateClient, log)

	// Rate alerts are checked against the live rate every 15 minutes
	alertWatch := investments.NewAlertWatchJob(investments.AlertWatchConfig{
		Alerts:   alerts,
		Rates:    rateClient,
		Notifier: notifier,
		Log:      log,
	})
	if _, err := sched.AddJob("0 */15 * * * *", alertWatch); err != nil {
		log.Error().Err(err).Msg("Failed to schedule alert watch")
	}

	// Budget
	budgetService := budget.NewService(blob, ev, log)

	srv := server.New(server.Config{
		Port:        cfg.Port,
		Log:         log,
		Investments: investments.NewHandler(store, alerts, milestones, reminders, log),
		Forex:       forex.NewHandler(forexService, log),
		Budget:      budget.NewHandler(budgetService, log),
		DevMode:     cfg.DevMode,
	})

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
