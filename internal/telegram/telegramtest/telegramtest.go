package telegramtest

import "github.com/connorkuehl/dinklebot/internal/telegram"

type Message struct {
	ChatID  int64
	Content string
}

type Image struct {
	ChatID   int64
	Name     string
	MimeType string
	Bytes    []byte
}

type Response struct {
	Message Message
	Image   Image
}

// ResponseRecorder replays a fixed list of incoming messages and records
// everything sent back.
type ResponseRecorder struct {
	Responses []Response
	messages  []telegram.Message
}

func NewResponseRecorder(messages []telegram.Message) *ResponseRecorder {
	return &ResponseRecorder{messages: messages}
}

func (r *ResponseRecorder) SendMessage(chatID int64, text string) error {
	r.Responses = append(r.Responses, Response{Message: Message{ChatID: chatID, Content: text}})
	return nil
}

func (r *ResponseRecorder) SendImage(chatID int64, img telegram.Image) error {
	r.Responses = append(r.Responses, Response{Image: Image{ChatID: chatID, Name: img.Name, MimeType: img.MimeType, Bytes: img.Bytes}})
	return nil
}

func (r *ResponseRecorder) Messages() <-chan telegram.Message {
	ch := make(chan telegram.Message, len(r.messages))
	for _, msg := range r.messages {
		ch <- msg
	}
	close(ch)
	return ch
}
