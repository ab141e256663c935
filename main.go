package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"github.com/connorkuehl/dinklebot/config"
	"github.com/connorkuehl/dinklebot/internal/telegram"
)

var configPath = flag.String("config", "", "path to a config file; DINKLEBOT_* environment variables are used when empty")

func main() {
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		log.WithError(err).Error("shutting down")
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.LoadFromFile(*configPath)
	} else {
		cfg, err = config.FromEnv()
	}
	if err != nil {
		return config.Config{}, err
	}
	return cfg, cfg.Validate()
}

func configureLogging(cfg config.Config) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if cfg.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
	return nil
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if err := configureLogging(cfg); err != nil {
		return err
	}

	app, cleanup, err := InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	secret := telegram.WebhookSecret(cfg.WebhookSecret)

	if cfg.WebhookURL != "" {
		url := strings.TrimRight(cfg.WebhookURL, "/") + "/webhook/" + cfg.WebhookSecret
		if err := app.session.SetWebhook(url); err != nil {
			return err
		}
		log.WithField("url", cfg.WebhookURL).Info("webhook registered")
	}

	router := chi.NewRouter()
	router.Get("/health", healthHandler(map[string]healthCheck{
		"database": app.db.Ping,
	}))
	router.Mount("/", app.session.Handler(secret))

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 2)
	go func() {
		log.WithField("listen", cfg.Listen).Info("serving webhook")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
	go func() {
		errs <- app.bot.Listen(ctx)
	}()

	select {
	case <-ctx.Done():
		err = nil
	case err = <-errs:
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdown); serr != nil {
		log.WithError(serr).Warn("webhook server did not shut down cleanly")
	}

	return err
}
