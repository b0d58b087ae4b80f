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

	"office_presence_bot/internal/app"
	"office_presence_bot/internal/domain/crossing"
	"office_presence_bot/internal/domain/location"
	"office_presence_bot/internal/domain/region"
	"office_presence_bot/internal/infra/config"
	idb "office_presence_bot/internal/infra/database"
	"office_presence_bot/internal/infra/fcm"
	"office_presence_bot/internal/infra/geotracker"
	"office_presence_bot/internal/infra/googleauth"
	"office_presence_bot/internal/infra/httpserver"
	"office_presence_bot/internal/infra/logger"
	"office_presence_bot/internal/infra/scheduler"
	"office_presence_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

func main() {
	fmt.Println("Office Presence Bot starting...")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Office region: %s", cfg.LogLevel, cfg.Environment, cfg.OfficeRegionID)

	ctx := context.Background()

	// Identity session: the service is useless without a signed-in user,
	// every push send borrows the session's bearer token.
	session, err := googleauth.NewSession(ctx, googleauth.Config{
		Issuer:       cfg.OIDCIssuer,
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RefreshToken: cfg.GoogleRefreshToken,
	})
	if err != nil {
		log.Fatalf("FATAL: Could not establish identity session: %v", err)
	}
	signedIn := session.CurrentUser()
	log.Infof("Signed in as %s <%s>.", signedIn.Name, signedIn.Email)

	// Crossing history is optional; the notification path works without it.
	var history crossing.Repository
	if cfg.DatabaseURL != "" {
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to database: %v", err)
		}
		defer db.Close()
		if err := idb.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("FATAL: Could not prepare database schema: %v", err)
		}
		history = idb.NewPostgresCrossingRepository(db)
		log.Info("Crossing history repository initialized.")
	} else {
		log.Info("DATABASE_URL not set. Crossing history disabled.")
	}

	officeRegion := region.New(cfg.OfficeRegionID, cfg.OfficeLat, cfg.OfficeLon, cfg.OfficeRadiusM)
	tracker := geotracker.New(location.AuthorizationNotDetermined, cfg.LocationAutoGrant, log)
	monitor := app.NewMonitorService(tracker, officeRegion, log)

	pushClient := fcm.NewClient(cfg.FCMSendURL, cfg.FCMSubscribeURL, session, log)

	var sender telegram.Sender
	if cfg.TelegramToken != "" {
		bot, err := telebot.NewBot(telebot.Settings{Token: cfg.TelegramToken})
		if err != nil {
			log.Fatalf("FATAL: Could not create Telegram bot: %v", err)
		}
		sender = bot
		log.Info("Telegram local-notification sink initialized.")
	} else {
		log.Info("TELEGRAM_TOKEN not set. Local notifications disabled.")
	}
	localNotifier := telegram.NewNotifier(sender, cfg.OwnerChatID, log)

	notifications := app.NewNotificationService(pushClient, localNotifier, history, log)
	state := app.NewStateController(monitor, notifications, session, log)
	state.ObserveRegionBoundaryCrossing()

	granted, err := notifications.RequestAuthorization(ctx, signedIn)
	if err != nil {
		log.Errorf("Local notification authorization failed: %v", err)
	} else {
		log.Infof("Local notification authorization granted: %v", granted)
	}

	if monitor.CanMonitor() {
		monitor.StartMonitoring(func(ok bool) {
			log.Infof("Office region monitoring active: %v", ok)
		})
	} else {
		log.Warn("Platform does not support region monitoring.")
	}

	presenceScheduler := scheduler.NewPresenceScheduler(monitor, cfg.CronSpecPresenceRefresh, log)
	if err := presenceScheduler.Start(); err != nil {
		log.Fatalf("FATAL: Could not start presence scheduler: %v", err)
	}

	server := httpserver.New(state, monitor, tracker, history, log)
	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("HTTP server listening on %s.", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down application...")
	presenceScheduler.Stop()
	monitor.StopMonitoring()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown: %v", err)
	}
	log.Info("Application shut down gracefully.")
}
