package telegram

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger().WithFields(logrus.Fields{
	"component": "telegram",
})

// WebhookSecret is the path segment Telegram must post updates to. It keeps
// strangers from injecting updates.
type WebhookSecret string

// Handler routes webhook updates into the session's message stream and serves
// a health check.
func (s *Session) Handler(secret WebhookSecret) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Post("/webhook/{secret}", s.handleUpdate(secret))
	return r
}

func (s *Session) handleUpdate(secret WebhookSecret) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := log.WithFields(logrus.Fields{
			"handler": "webhook",
		})

		got := chi.URLParam(r, "secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(secret)) != 1 {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		var update tgbotapi.Update
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			logger.WithError(err).Warn("decode update")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		msg, ok := messageFromUpdate(update)
		if !ok {
			w.WriteHeader(http.StatusOK)
			return
		}

		select {
		case s.messages <- msg:
			w.WriteHeader(http.StatusOK)
		case <-r.Context().Done():
			logger.WithField("update_id", update.UpdateID).Warn("update dropped, request ended before it was handled")
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}
}

func messageFromUpdate(update tgbotapi.Update) (Message, bool) {
	m := update.Message
	if m == nil || m.Chat == nil || m.From == nil || m.Text == "" {
		return Message{}, false
	}

	return Message{
		ID:       m.MessageID,
		ChatID:   m.Chat.ID,
		AuthorID: m.From.ID,
		Text:     m.Text,
	}, true
}
