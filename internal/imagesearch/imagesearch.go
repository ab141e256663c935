package imagesearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultEndpoint = "https://www.googleapis.com/customsearch/v1"
	DefaultCX       = "009373417816394415455:i3e_omr58us"
)

// MaxImageSize is the largest photo upload Telegram accepts from a bot.
const MaxImageSize = 10 << 20

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrTooLarge         = errors.New("image too large")
)

// Key is the Custom Search API key.
type Key string

// CX identifies the custom search engine to query.
type CX string

type Item struct {
	Link string `json:"link"`
	Mime string `json:"mime"`
}

type Client struct {
	http     *http.Client
	endpoint string
	key      Key
	cx       CX
	limiter  *rate.Limiter
}

type Option func(*Client)

func WithEndpoint(endpoint string) Option {
	return func(c *Client) { c.endpoint = endpoint }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLimiter bounds the rate of search requests. Image fetches are not
// limited.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

func New(key Key, cx CX, opts ...Option) *Client {
	c := &Client{
		http:     &http.Client{Timeout: 15 * time.Second},
		endpoint: DefaultEndpoint,
		key:      key,
		cx:       cx,
		limiter:  rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search returns at most one image result for query.
func (c *Client) Search(ctx context.Context, query string) ([]Item, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{
		"key":        {string(c.key)},
		"cx":         {string(c.cx)},
		"q":          {query},
		"searchType": {"image"},
		"num":        {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	rsp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode < 200 || rsp.StatusCode > 299 {
		return nil, fmt.Errorf("search: %w: %d", ErrUnexpectedStatus, rsp.StatusCode)
	}

	// The API leaves out "items" entirely when nothing matched.
	var body struct {
		Items []Item `json:"items"`
	}
	if err := json.NewDecoder(rsp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	return body.Items, nil
}

// Fetch downloads the resource at link.
func (c *Client) Fetch(ctx context.Context, link string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return nil, err
	}

	rsp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()

	if rsp.StatusCode < 200 || rsp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch: %w: %d", ErrUnexpectedStatus, rsp.StatusCode)
	}

	b, err := io.ReadAll(io.LimitReader(rsp.Body, MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if len(b) > MaxImageSize {
		return nil, fmt.Errorf("fetch: %w: more than %d bytes", ErrTooLarge, MaxImageSize)
	}
	return b, nil
}
