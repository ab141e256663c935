package main

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/connorkuehl/dinklebot/config"
	"github.com/connorkuehl/dinklebot/internal/bot"
	"github.com/connorkuehl/dinklebot/internal/command"
	"github.com/connorkuehl/dinklebot/internal/database/sqlite"
	"github.com/connorkuehl/dinklebot/internal/dinkle"
	"github.com/connorkuehl/dinklebot/internal/event"
	"github.com/connorkuehl/dinklebot/internal/imagesearch"
	"github.com/connorkuehl/dinklebot/internal/rsvp"
	"github.com/connorkuehl/dinklebot/internal/telegram"
)

type app struct {
	bot     *bot.Bot
	session *telegram.Session
	db      *sqlite.DB
}

func newApp(b *bot.Bot, s *telegram.Session, db *sqlite.DB) *app {
	return &app{bot: b, session: s, db: db}
}

func provideSQLitePath(cfg config.Config) sqlite.Path {
	return sqlite.Path(cfg.DBPath)
}

func provideTelegramToken(cfg config.Config) telegram.Token {
	return telegram.Token(cfg.Token)
}

func provideTelegramAPI(token telegram.Token) (telegram.API, error) {
	api, err := telegram.Dial(token)
	if err != nil {
		return nil, err
	}
	return api, nil
}

var _ telegram.API = (*tgbotapi.BotAPI)(nil)

func provideMessageTimeout(cfg config.Config) bot.MessageTimeout {
	return bot.MessageTimeout(cfg.MessageTimeout)
}

func provideClock(cfg config.Config) (rsvp.Clock, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	return rsvp.NewClock(loc), nil
}

func providePublisher(cfg config.Config) (rsvp.Publisher, func(), error) {
	if cfg.AMQPURL == "" {
		return event.Discard{}, func() {}, nil
	}

	p, cleanup, err := event.Dial(event.URL(cfg.AMQPURL), event.DefaultExchange)
	if err != nil {
		return nil, nil, err
	}
	return p, cleanup, nil
}

// provideImageSearch reads the API key once. A missing key is not fatal; the
// search API will reject requests and !img reports the failure.
func provideImageSearch(cfg config.Config, db *sqlite.DB) *imagesearch.Client {
	key, err := db.Secret(context.Background(), dinkle.SecretGoogleSearch)
	if err != nil {
		log.WithError(err).WithField("secret", dinkle.SecretGoogleSearch).Warn("image search key unavailable")
	}

	limit := rate.Inf
	if cfg.SearchRate > 0 {
		limit = rate.Limit(cfg.SearchRate)
	}

	return imagesearch.New(
		imagesearch.Key(key),
		imagesearch.CX(cfg.SearchCX),
		imagesearch.WithLimiter(rate.NewLimiter(limit, 1)),
	)
}

func provideRegistry(session *telegram.Session, search *imagesearch.Client, r *rsvp.Rsvp) (*command.Registry, error) {
	registry := command.NewRegistry()

	cmds := []command.Command{
		command.NewEcho(session),
		command.NewImage(session, search),
		r,
	}
	for _, cmd := range cmds {
		if err := registry.Register(cmd); err != nil {
			return nil, err
		}
	}

	return registry, nil
}
