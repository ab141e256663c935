// dinkleadmin seeds the dinklebot database with players, event types and
// secrets.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/connorkuehl/dinklebot/cmd/dinkleadmin/internal/cli"
	"github.com/connorkuehl/dinklebot/internal/database/sqlite"
)

var errUsage = errors.New("bad usage")

func main() {
	flag.Parse()

	if err := run(context.Background(), flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			flag.Usage()
			os.Exit(2)
		}
		log.WithError(err).Fatal("dinkleadmin failed")
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	db, cleanup, err := sqlite.New(sqlite.Path(*cli.DatabasePath))
	if err != nil {
		return err
	}
	defer cleanup()

	verb, args := args[0], args[1:]
	ll := log.WithFields(log.Fields{
		"verb":     verb,
		"database": *cli.DatabasePath,
	})

	switch verb {
	case "player":
		if len(args) < 1 || len(args) > 2 {
			return errUsage
		}

		player, err := db.PutPlayer(ctx, args[0])
		if err != nil {
			return err
		}
		ll = ll.WithField("psn_id", player.PsnID)

		if len(args) == 2 {
			telegramID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("telegram id %q: %w", args[1], errUsage)
			}
			if err := db.RegisterTelegramID(ctx, player.ID, telegramID); err != nil {
				return err
			}
			ll = ll.WithField("telegram_id", telegramID)
		}
		ll.Info("player saved")
	case "event-type":
		if len(args) != 1 {
			return errUsage
		}

		t, err := db.PutEventType(ctx, args[0])
		if err != nil {
			return err
		}
		ll.WithField("event_type", t.Name).Info("event type saved")
	case "secret":
		if len(args) != 2 {
			return errUsage
		}

		if err := db.PutSecret(ctx, args[0], args[1]); err != nil {
			return err
		}
		ll.WithField("secret", args[0]).Info("secret saved")
	default:
		return errUsage
	}

	return nil
}
