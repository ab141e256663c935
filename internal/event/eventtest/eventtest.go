package eventtest

import (
	"context"

	"github.com/connorkuehl/dinklebot/internal/event"
)

type Recorder struct {
	Events []event.Event
}

func (r *Recorder) Publish(_ context.Context, evt event.Event) error {
	r.Events = append(r.Events, evt)
	return nil
}
