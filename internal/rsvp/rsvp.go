package rsvp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"

	"github.com/connorkuehl/dinklebot/internal/command"
	"github.com/connorkuehl/dinklebot/internal/database"
	"github.com/connorkuehl/dinklebot/internal/dinkle"
	"github.com/connorkuehl/dinklebot/internal/event"
)

const registrationHint = "Introduce yourself by providing your psn id: !r register <psn-id>"

const help = `Usage
register:
    !r register <psn-id>

list all events:
    !r list

list your events:
    !r list my

add event:
    !r new <event type> <date> at <time>

join event:
    !r join <event id>

leave event:
    !r leave <event id>

delete event:
    !r rm <event id>

update event:
    !r <event id> <event type> <date> at <time>
`

type Store interface {
	PlayerByPsnID(ctx context.Context, psnID string) (dinkle.Player, error)
	PlayerByTelegramID(ctx context.Context, telegramID int64) (dinkle.Player, error)
	RegisterTelegramID(ctx context.Context, playerID, telegramID int64) error
	Events(ctx context.Context) ([]dinkle.Event, error)
	EventsFor(ctx context.Context, playerID int64) ([]dinkle.Event, error)
	Event(ctx context.Context, id int64) (dinkle.Event, error)
	EventTypeByName(ctx context.Context, name string) (dinkle.EventType, error)
	CreateEvent(ctx context.Context, evt dinkle.Event) (int64, error)
	UpdateEvent(ctx context.Context, evt dinkle.Event) error
	DeleteEvent(ctx context.Context, id int64) error
	Join(ctx context.Context, eventID, playerID int64) error
	Leave(ctx context.Context, eventID, playerID int64) error
}

type Publisher interface {
	Publish(ctx context.Context, evt event.Event) error
}

// Clock reports the current time in the location events are shown in.
type Clock func() time.Time

func NewClock(loc *time.Location) Clock {
	return func() time.Time { return time.Now().In(loc) }
}

type Rsvp struct {
	sender    command.Sender
	store     Store
	publisher Publisher
	now       Clock
}

func New(sender command.Sender, store Store, publisher Publisher, now Clock) *Rsvp {
	return &Rsvp{
		sender:    sender,
		store:     store,
		publisher: publisher,
		now:       now,
	}
}

func (*Rsvp) Name() string        { return "!r" }
func (*Rsvp) Description() string { return "Heliosphere LFG" }
func (*Rsvp) Help() string        { return help }

func (r *Rsvp) Invoke(ctx context.Context, in command.Input) {
	ll := log.WithFields(log.Fields{
		"chat_id":   in.ChatID,
		"author_id": in.AuthorID,
		"content":   in.Args,
		"handler":   "rsvp",
	})

	args, remainder := route(in.Args)

	if reg, ok := args.(*RegisterArgs); ok {
		r.handleRegister(ctx, reg, in, remainder)
		return
	}

	player, err := r.store.PlayerByTelegramID(ctx, in.AuthorID)
	if errors.Is(err, database.ErrNotFound) {
		r.send(ll, in.ChatID, registrationHint)
		return
	}
	if err != nil {
		ll.WithError(err).Error("PlayerByTelegramID")
		return
	}

	if args == nil {
		r.send(ll, in.ChatID, r.Help())
		return
	}

	if err := args.ParseArg(remainder); err != nil {
		if !errors.Is(err, ErrMissingArgument) && !errors.Is(err, ErrInvalidArgument) {
			ll.WithError(err).Error("unexpected error from arg parser")
		}
		r.send(ll, in.ChatID, args.Usage())
		return
	}

	switch a := args.(type) {
	case *ListArgs:
		r.handleList(ctx, a, player, in)
	case *NewArgs:
		r.handleNew(ctx, a, player, in)
	case *JoinArgs:
		r.handleJoin(ctx, a, player, in)
	case *LeaveArgs:
		r.handleLeave(ctx, a, player, in)
	case *RemoveArgs:
		r.handleRemove(ctx, a, player, in)
	case *UpdateArgs:
		r.handleUpdate(ctx, a, player, in)
	}
}

func (r *Rsvp) handleRegister(ctx context.Context, args *RegisterArgs, in command.Input, content string) {
	ll := log.WithFields(log.Fields{
		"chat_id":   in.ChatID,
		"author_id": in.AuthorID,
		"content":   content,
		"handler":   "rsvp_register",
	})

	if err := args.ParseArg(content); err != nil {
		r.send(ll, in.ChatID, args.Usage())
		return
	}

	player, err := r.store.PlayerByPsnID(ctx, args.PsnID)
	if errors.Is(err, database.ErrNotFound) {
		ll.Debug("unknown psn id")
		return
	}
	if err != nil {
		ll.WithError(err).Error("PlayerByPsnID")
		return
	}

	if err := r.store.RegisterTelegramID(ctx, player.ID, in.AuthorID); err != nil {
		ll.WithError(err).Error("RegisterTelegramID")
		return
	}

	r.send(ll, in.ChatID, args.PsnID+" registered")
	r.publish(ctx, ll, event.KindRegistered, 0, player, in)
}

func (r *Rsvp) handleList(ctx context.Context, args *ListArgs, player dinkle.Player, in command.Input) {
	ll := log.WithFields(log.Fields{
		"chat_id":   in.ChatID,
		"author_id": in.AuthorID,
		"mine":      args.Mine,
		"handler":   "rsvp_list",
	})

	var (
		events []dinkle.Event
		err    error
	)
	if args.Mine {
		events, err = r.store.EventsFor(ctx, player.ID)
	} else {
		events, err = r.store.Events(ctx)
	}
	if err != nil {
		ll.WithError(err).Error("list events")
		return
	}

	if len(events) == 0 {
		r.send(ll, in.AuthorID, "No events")
		return
	}

	now := r.now()
	lines := lo.Map(events, func(evt dinkle.Event, _ int) string {
		if args.Mine {
			return fmt.Sprintf("#%d\t%s", evt.ID, prettyEvent(evt, now))
		}
		return prettyEvent(evt, now)
	})

	r.send(ll, in.ChatID, strings.Join(lines, "\n"))
}

func (r *Rsvp) handleNew(ctx context.Context, args *NewArgs, player dinkle.Player, in command.Input) {
	ll := log.WithFields(log.Fields{
		"chat_id":    in.ChatID,
		"author_id":  in.AuthorID,
		"event_type": args.Type,
		"handler":    "rsvp_new",
	})

	typ, ok := r.eventType(ctx, ll, args.Type, in.ChatID)
	if !ok {
		return
	}

	id, err := r.store.CreateEvent(ctx, dinkle.Event{
		TypeID:  typ.ID,
		Date:    args.At(r.now()),
		Comment: args.Comment,
		OwnerID: player.ID,
	})
	if err != nil {
		ll.WithError(err).Error("CreateEvent")
		return
	}

	r.announce(ctx, ll, in.ChatID, id, "created")
	r.publish(ctx, ll, event.KindCreated, id, player, in)
}

func (r *Rsvp) handleJoin(ctx context.Context, args *JoinArgs, player dinkle.Player, in command.Input) {
	ll := log.WithFields(log.Fields{
		"chat_id":   in.ChatID,
		"author_id": in.AuthorID,
		"event_id":  args.EventID,
		"handler":   "rsvp_join",
	})

	err := r.store.Join(ctx, args.EventID, player.ID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		r.send(ll, in.ChatID, fmt.Sprintf("No event #%d", args.EventID))
		return
	case errors.Is(err, database.ErrAlreadyJoined):
		r.send(ll, in.ChatID, fmt.Sprintf("You already joined event #%d", args.EventID))
		return
	case err != nil:
		ll.WithError(err).Error("Join")
		return
	}

	r.send(ll, in.ChatID, fmt.Sprintf("Joined event #%d", args.EventID))
	r.publish(ctx, ll, event.KindJoined, args.EventID, player, in)
}

func (r *Rsvp) handleLeave(ctx context.Context, args *LeaveArgs, player dinkle.Player, in command.Input) {
	ll := log.WithFields(log.Fields{
		"chat_id":   in.ChatID,
		"author_id": in.AuthorID,
		"event_id":  args.EventID,
		"handler":   "rsvp_leave",
	})

	err := r.store.Leave(ctx, args.EventID, player.ID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		r.send(ll, in.ChatID, fmt.Sprintf("No event #%d", args.EventID))
		return
	case errors.Is(err, database.ErrNotJoined):
		r.send(ll, in.ChatID, fmt.Sprintf("You are not in event #%d", args.EventID))
		return
	case err != nil:
		ll.WithError(err).Error("Leave")
		return
	}

	r.send(ll, in.ChatID, fmt.Sprintf("Left event #%d", args.EventID))
	r.publish(ctx, ll, event.KindLeft, args.EventID, player, in)
}

func (r *Rsvp) handleRemove(ctx context.Context, args *RemoveArgs, player dinkle.Player, in command.Input) {
	ll := log.WithFields(log.Fields{
		"chat_id":   in.ChatID,
		"author_id": in.AuthorID,
		"event_id":  args.EventID,
		"handler":   "rsvp_remove",
	})

	err := r.store.DeleteEvent(ctx, args.EventID)
	if errors.Is(err, database.ErrNotFound) {
		r.send(ll, in.ChatID, fmt.Sprintf("No event #%d", args.EventID))
		return
	}
	if err != nil {
		ll.WithError(err).Error("DeleteEvent")
		return
	}

	r.send(ll, in.ChatID, fmt.Sprintf("Event #%d removed", args.EventID))
	r.publish(ctx, ll, event.KindRemoved, args.EventID, player, in)
}

func (r *Rsvp) handleUpdate(ctx context.Context, args *UpdateArgs, player dinkle.Player, in command.Input) {
	ll := log.WithFields(log.Fields{
		"chat_id":    in.ChatID,
		"author_id":  in.AuthorID,
		"event_id":   args.EventID,
		"event_type": args.Type,
		"handler":    "rsvp_update",
	})

	typ, ok := r.eventType(ctx, ll, args.Type, in.ChatID)
	if !ok {
		return
	}

	err := r.store.UpdateEvent(ctx, dinkle.Event{
		ID:      args.EventID,
		TypeID:  typ.ID,
		Date:    args.At(r.now()),
		Comment: args.Comment,
	})
	if errors.Is(err, database.ErrNotFound) {
		r.send(ll, in.ChatID, fmt.Sprintf("No event #%d", args.EventID))
		return
	}
	if err != nil {
		ll.WithError(err).Error("UpdateEvent")
		return
	}

	r.announce(ctx, ll, in.ChatID, args.EventID, "updated")
	r.publish(ctx, ll, event.KindUpdated, args.EventID, player, in)
}

func (r *Rsvp) eventType(ctx context.Context, ll *log.Entry, name string, chatID int64) (dinkle.EventType, bool) {
	typ, err := r.store.EventTypeByName(ctx, name)
	if errors.Is(err, database.ErrNotFound) {
		r.send(ll, chatID, "Unknown event type: "+name)
		return dinkle.EventType{}, false
	}
	if err != nil {
		ll.WithError(err).Error("EventTypeByName")
		return dinkle.EventType{}, false
	}
	return typ, true
}

// announce replies with the stored state of an event that was just written.
func (r *Rsvp) announce(ctx context.Context, ll *log.Entry, chatID, eventID int64, verb string) {
	evt, err := r.store.Event(ctx, eventID)
	if err != nil {
		ll.WithError(err).Error("Event")
		return
	}

	r.send(ll, chatID, fmt.Sprintf("Event #%d %s: %s", eventID, verb, prettyEvent(evt, r.now())))
}

func (r *Rsvp) send(ll *log.Entry, chatID int64, msg string) {
	if err := r.sender.SendMessage(chatID, msg); err != nil {
		ll.WithError(err).Error("send message to chat")
	}
}

func (r *Rsvp) publish(ctx context.Context, ll *log.Entry, kind event.Kind, eventID int64, player dinkle.Player, in command.Input) {
	evt := event.Event{
		Kind:    kind,
		EventID: eventID,
		PsnID:   player.PsnID,
		ChatID:  in.ChatID,
		At:      r.now(),
	}
	if err := r.publisher.Publish(ctx, evt); err != nil {
		ll.WithError(err).WithField("kind", kind).Warn("publish event")
	}
}
