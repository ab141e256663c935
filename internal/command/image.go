package command

import (
	"context"
	"net/url"
	"path"

	"github.com/gabriel-vasile/mimetype"
	log "github.com/sirupsen/logrus"

	"github.com/connorkuehl/dinklebot/internal/imagesearch"
	"github.com/connorkuehl/dinklebot/internal/telegram"
)

type ImageSearcher interface {
	Search(ctx context.Context, query string) ([]imagesearch.Item, error)
	Fetch(ctx context.Context, link string) ([]byte, error)
}

type Image struct {
	sender   ImageSender
	searcher ImageSearcher
}

func NewImage(sender ImageSender, searcher ImageSearcher) *Image {
	return &Image{sender: sender, searcher: searcher}
}

func (*Image) Name() string        { return "!img" }
func (*Image) Description() string { return "Google Image Search" }
func (*Image) Help() string        { return "Usage: !img <query>" }

func (c *Image) Invoke(ctx context.Context, in Input) {
	ll := log.WithFields(log.Fields{
		"chat_id":   in.ChatID,
		"author_id": in.AuthorID,
		"query":     in.Args,
		"handler":   "image",
	})

	reply := func(msg string) {
		if err := c.sender.SendMessage(in.ChatID, msg); err != nil {
			ll.WithError(err).Error("send message to chat")
		}
	}

	if !in.HasArgs {
		reply(c.Help())
		return
	}

	items, err := c.searcher.Search(ctx, in.Args)
	if err != nil {
		ll.WithError(err).Error("search")
		reply("Error retrieving image")
		return
	}

	if len(items) == 0 {
		reply("Nothing found")
		return
	}

	item := items[0]
	b, err := c.searcher.Fetch(ctx, item.Link)
	if err != nil {
		ll.WithError(err).WithField("link", item.Link).Warn("fetch image")
		reply("Error retrieving image")
		return
	}

	img := telegram.Image{
		Name:     imageName(item.Link),
		MimeType: item.Mime,
		Bytes:    b,
	}
	if img.MimeType == "" {
		img.MimeType = mimetype.Detect(b).String()
	}

	if err := c.sender.SendImage(in.ChatID, img); err != nil {
		ll.WithError(err).Error("send image to chat")
	}
}

// imageName is the last path segment of link.
func imageName(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.Path == "" {
		return "image"
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." {
		return "image"
	}
	return name
}
