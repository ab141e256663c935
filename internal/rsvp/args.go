package rsvp

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/connorkuehl/dinklebot/internal/command"
)

var (
	ErrMissingArgument = errors.New("missing argument")
	ErrInvalidArgument = errors.New("invalid argument")
)

type ArgParser interface {
	ParseArg(s string) error
	Usage() string
}

// route picks the sub-command named by the first token of s and returns the
// text its arguments are parsed from.
func route(s string) (args ArgParser, remainder string) {
	sub, rest, _ := command.Parse(s)

	switch sub {
	case "register":
		return new(RegisterArgs), rest
	case "list":
		return new(ListArgs), rest
	case "new":
		return new(NewArgs), rest
	case "join":
		return new(JoinArgs), rest
	case "leave":
		return new(LeaveArgs), rest
	case "rm":
		return new(RemoveArgs), rest
	}

	if _, err := strconv.ParseInt(strings.TrimPrefix(sub, "#"), 10, 64); err == nil {
		return new(UpdateArgs), s
	}

	return nil, s
}

type RegisterArgs struct {
	PsnID string
}

func (args *RegisterArgs) ParseArg(s string) error {
	args.PsnID = strings.TrimSpace(s)
	if args.PsnID == "" {
		return ErrMissingArgument
	}
	return nil
}

func (*RegisterArgs) Usage() string { return "Usage: !r register <psn-id>" }

type ListArgs struct {
	Mine bool
}

func (args *ListArgs) ParseArg(s string) error {
	switch strings.TrimSpace(s) {
	case "":
		args.Mine = false
	case "my":
		args.Mine = true
	default:
		return ErrInvalidArgument
	}
	return nil
}

func (*ListArgs) Usage() string { return "Usage: !r list [my]" }

type EventIDArgs struct {
	EventID int64
}

func (args *EventIDArgs) ParseArg(s string) error {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ErrMissingArgument
	}
	if len(fields) > 1 {
		return ErrInvalidArgument
	}
	return args.parseID(fields[0])
}

func (args *EventIDArgs) parseID(s string) error {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id < 1 {
		return ErrInvalidArgument
	}
	args.EventID = id
	return nil
}

type JoinArgs struct{ EventIDArgs }

func (*JoinArgs) Usage() string { return "Usage: !r join <event id>" }

type LeaveArgs struct{ EventIDArgs }

func (*LeaveArgs) Usage() string { return "Usage: !r leave <event id>" }

type RemoveArgs struct{ EventIDArgs }

func (*RemoveArgs) Usage() string { return "Usage: !r rm <event id>" }

// Schedule is "<event type> <date> at <time> [comment]". The date is kept
// unresolved until the current day is known.
type Schedule struct {
	Type    string
	Day     string
	Hour    int
	Minute  int
	Comment string
}

func (sched *Schedule) parse(s string) error {
	typ, rest, _ := command.Parse(s)
	if typ == "" {
		return ErrMissingArgument
	}

	day, rest, _ := command.Parse(rest)
	at, rest, _ := command.Parse(rest)
	clock, comment, _ := command.Parse(rest)
	if day == "" || at == "" || clock == "" {
		return ErrMissingArgument
	}
	if !strings.EqualFold(at, "at") || !validDay(day) {
		return ErrInvalidArgument
	}

	t, err := time.Parse("15:04", clock)
	if err != nil {
		return ErrInvalidArgument
	}

	sched.Type = typ
	sched.Day = strings.ToLower(day)
	sched.Hour = t.Hour()
	sched.Minute = t.Minute()
	sched.Comment = strings.TrimSpace(comment)
	return nil
}

// At resolves the schedule against now, in now's location. Weekdays refer to
// their next occurrence, today included.
func (sched Schedule) At(now time.Time) time.Time {
	y, m, d := now.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	switch sched.Day {
	case "today":
	case "tomorrow":
		day = day.AddDate(0, 0, 1)
	default:
		if wd, ok := weekday(sched.Day); ok {
			day = day.AddDate(0, 0, (int(wd)-int(day.Weekday())+7)%7)
		} else if t, err := time.ParseInLocation("2006-01-02", sched.Day, now.Location()); err == nil {
			day = t
		}
	}

	return time.Date(day.Year(), day.Month(), day.Day(), sched.Hour, sched.Minute, 0, 0, now.Location())
}

func validDay(s string) bool {
	s = strings.ToLower(s)
	if s == "today" || s == "tomorrow" {
		return true
	}
	if _, ok := weekday(s); ok {
		return true
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func weekday(s string) (time.Weekday, bool) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if s == name || s == name[:3] {
			return wd, true
		}
	}
	return 0, false
}

type NewArgs struct {
	Schedule
}

func (args *NewArgs) ParseArg(s string) error {
	return args.Schedule.parse(s)
}

func (*NewArgs) Usage() string { return "Usage: !r new <event type> <date> at <time>" }

type UpdateArgs struct {
	EventIDArgs
	Schedule
}

func (args *UpdateArgs) ParseArg(s string) error {
	id, rest, _ := command.Parse(s)
	if id == "" {
		return ErrMissingArgument
	}
	if err := args.parseID(id); err != nil {
		return err
	}
	return args.Schedule.parse(rest)
}

func (*UpdateArgs) Usage() string { return "Usage: !r <event id> <event type> <date> at <time>" }
