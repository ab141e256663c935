package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Token string

// API is the part of *tgbotapi.BotAPI the session needs.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

func Dial(token Token) (*tgbotapi.BotAPI, error) {
	return tgbotapi.NewBotAPI(string(token))
}

type Message struct {
	ID       int
	ChatID   int64
	AuthorID int64
	Text     string
}

type Image struct {
	Name     string
	MimeType string
	Bytes    []byte
}

type Session struct {
	api      API
	messages chan Message
}

func NewSession(api API) *Session {
	return &Session{
		api:      api,
		messages: make(chan Message),
	}
}

func (s *Session) SendMessage(chatID int64, text string) error {
	_, err := s.api.Send(tgbotapi.NewMessage(chatID, text))
	return err
}

// SendImage uploads img. GIFs go out as animations and other images as
// photos; anything else is sent as a document.
func (s *Session) SendImage(chatID int64, img Image) error {
	file := tgbotapi.FileBytes{Name: img.Name, Bytes: img.Bytes}

	var c tgbotapi.Chattable
	switch {
	case img.MimeType == "image/gif":
		c = tgbotapi.NewAnimation(chatID, file)
	case strings.HasPrefix(img.MimeType, "image/"):
		c = tgbotapi.NewPhoto(chatID, file)
	default:
		c = tgbotapi.NewDocument(chatID, file)
	}

	_, err := s.api.Send(c)
	return err
}

// Messages delivers text messages received by the webhook, one at a time.
func (s *Session) Messages() <-chan Message {
	return s.messages
}

// SetWebhook asks Telegram to deliver updates to url.
func (s *Session) SetWebhook(url string) error {
	wh, err := tgbotapi.NewWebhook(url)
	if err != nil {
		return err
	}
	_, err = s.api.Request(wh)
	return err
}
