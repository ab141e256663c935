package rsvp

import (
	"strings"
	"time"

	"github.com/connorkuehl/dinklebot/internal/dinkle"
)

// prettyDate names the event's calendar day relative to now.
func prettyDate(date, now time.Time) string {
	date = date.In(now.Location())

	switch {
	case sameDay(date, now):
		return "Today"
	case sameDay(date, now.AddDate(0, 0, 1)):
		return "Tomorrow"
	default:
		return date.Format("Monday, January 02")
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// prettyEvent renders an event as one tab separated line.
func prettyEvent(evt dinkle.Event, now time.Time) string {
	fields := []string{
		prettyDate(evt.Date, now),
		evt.Date.In(now.Location()).Format("15:04"),
		evt.Type,
		"[" + strings.Join(evt.Participants, ", ") + "]",
	}
	if evt.Comment != "" {
		fields = append(fields, "–", evt.Comment)
	}
	return strings.Join(fields, "\t")
}
