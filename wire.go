//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/connorkuehl/dinklebot/config"
	"github.com/connorkuehl/dinklebot/internal/bot"
	"github.com/connorkuehl/dinklebot/internal/command"
	"github.com/connorkuehl/dinklebot/internal/database/sqlite"
	"github.com/connorkuehl/dinklebot/internal/rsvp"
	"github.com/connorkuehl/dinklebot/internal/telegram"
)

var TelegramSet = wire.NewSet(
	telegram.NewSession,
	provideTelegramAPI,
	provideTelegramToken,
)

var SQLiteSet = wire.NewSet(
	sqlite.New,
	provideSQLitePath,
)

var RsvpSet = wire.NewSet(
	rsvp.New,
	provideClock,
	providePublisher,
	wire.Bind(new(rsvp.Store), new(*sqlite.DB)),
	wire.Bind(new(command.Sender), new(*telegram.Session)),
)

func InitializeApp(cfg config.Config) (*app, func(), error) {
	wire.Build(
		newApp,
		bot.New,
		provideMessageTimeout,
		provideRegistry,
		provideImageSearch,
		wire.Bind(new(bot.Session), new(*telegram.Session)),
		wire.Bind(new(bot.Registry), new(*command.Registry)),
		TelegramSet,
		SQLiteSet,
		RsvpSet,
	)
	return nil, nil, nil
}
