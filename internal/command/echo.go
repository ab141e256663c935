package command

import (
	"context"

	log "github.com/sirupsen/logrus"
)

type Echo struct {
	sender Sender
}

func NewEcho(sender Sender) *Echo {
	return &Echo{sender: sender}
}

func (*Echo) Name() string        { return "!echo" }
func (*Echo) Description() string { return "Send back message" }
func (*Echo) Help() string        { return "Usage: !echo <string>" }

func (e *Echo) Invoke(_ context.Context, in Input) {
	ll := log.WithFields(log.Fields{
		"chat_id":   in.ChatID,
		"author_id": in.AuthorID,
		"handler":   "echo",
	})

	if err := e.sender.SendMessage(in.ChatID, in.Args); err != nil {
		ll.WithError(err).Error("send message to chat")
	}
}
