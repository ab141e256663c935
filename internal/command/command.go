package command

import (
	"context"

	"github.com/connorkuehl/dinklebot/internal/telegram"
)

// Prefix marks a chat message as a bot command.
const Prefix = "!"

// Input is a single command invocation.
type Input struct {
	ChatID   int64
	AuthorID int64

	// Args is the message text following the command token. HasArgs is
	// false when the command was sent on its own.
	Args    string
	HasArgs bool
}

type Command interface {
	Name() string
	Description() string
	Help() string
	Invoke(ctx context.Context, in Input)
}

type Sender interface {
	SendMessage(chatID int64, text string) error
}

type ImageSender interface {
	Sender
	SendImage(chatID int64, img telegram.Image) error
}
