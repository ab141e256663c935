package bot

import (
	"context"
	"errors"
	"strings"
	"text/template"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/connorkuehl/dinklebot/internal/command"
	"github.com/connorkuehl/dinklebot/internal/telegram"
)

const helpCommand = command.Prefix + "help"

var templateHelp = template.Must(template.New("help").Parse(
	`Commands:{{ range . }}
{{ .Name }}: {{ .Description }}{{ end }}

Type !help <command> to know more`))

type Session interface {
	SendMessage(chatID int64, text string) error
	Messages() <-chan telegram.Message
}

type Registry interface {
	Lookup(name string) (command.Command, bool)
	Commands() []command.Command
}

// MessageTimeout bounds the handling of a single message. Zero means no
// limit.
type MessageTimeout time.Duration

type Bot struct {
	session  Session
	registry Registry
	timeout  MessageTimeout
}

func New(session Session, registry Registry, timeout MessageTimeout) *Bot {
	return &Bot{
		session:  session,
		registry: registry,
		timeout:  timeout,
	}
}

// Listen handles incoming messages one at a time until ctx is done or the
// session stops delivering messages.
func (b *Bot) Listen(ctx context.Context) error {
	messages := b.session.Messages()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return errors.New("telegram message stream closed")
			}

			b.handle(ctx, msg)
		}
	}
}

func (b *Bot) handle(ctx context.Context, msg telegram.Message) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(b.timeout))
		defer cancel()
	}

	b.dispatch(ctx, msg)
}

func (b *Bot) dispatch(ctx context.Context, msg telegram.Message) {
	if !strings.HasPrefix(msg.Text, command.Prefix) {
		return
	}

	name, args, hasArgs := command.Parse(msg.Text)

	if name == helpCommand {
		b.handleHelp(msg, args, hasArgs)
		return
	}

	cmd, ok := b.registry.Lookup(name)
	if !ok {
		log.WithFields(log.Fields{
			"chat_id": msg.ChatID,
			"command": name,
		}).Debug("ignoring unknown command")
		return
	}

	cmd.Invoke(ctx, command.Input{
		ChatID:   msg.ChatID,
		AuthorID: msg.AuthorID,
		Args:     args,
		HasArgs:  hasArgs,
	})
}

func (b *Bot) handleHelp(msg telegram.Message, args string, hasArgs bool) {
	ll := log.WithFields(log.Fields{
		"chat_id":   msg.ChatID,
		"author_id": msg.AuthorID,
		"content":   args,
		"handler":   "help",
	})

	var rsp string
	if hasArgs {
		if cmd, ok := b.registry.Lookup(command.Prefix + args); ok {
			rsp = cmd.Help()
		} else {
			rsp = "Unknown command: " + args
		}
	} else {
		var r strings.Builder
		if err := templateHelp.Execute(&r, b.registry.Commands()); err != nil {
			ll.WithError(err).Error("apply help template")
			return
		}
		rsp = r.String()
	}

	if err := b.session.SendMessage(msg.ChatID, rsp); err != nil {
		ll.WithError(err).Error("send message to chat")
	}
}
