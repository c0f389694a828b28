// Package trading implements the Alpaca trading API endpoints: orders,
// positions, portfolio history, account activities, account and assets.
//
// List and create operations are built as single-use query objects:
//
//	orders, err := client.NewGetOrdersQuery().Status("open").Limit(50).Send(ctx)
//
// Each query is consumed by its terminal call and returns query.ErrConsumed
// if sent again.
package trading

import (
	"github.com/sirupsen/logrus"

	"github.com/betbot/alpaca/pkg/logger"
	sdkhttp "github.com/betbot/alpaca/pkg/sdk/http"
)

type Client struct {
	dispatcher sdkhttp.Dispatcher
	env        Environment
	baseURL    string
	log        *logrus.Entry
}

type Option func(*Client)

// WithBaseURL overrides the environment host, e.g. for a test server.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

func WithLogger(l *logrus.Entry) Option {
	return func(c *Client) {
		c.log = l
	}
}

func NewClient(d sdkhttp.Dispatcher, env Environment, opts ...Option) *Client {
	c := &Client{
		dispatcher: d,
		env:        env,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Component("trading")
	}
	return c
}

func (c *Client) Environment() Environment {
	return c.env
}

func (c *Client) url(path string) string {
	if c.baseURL != "" {
		return c.baseURL + path
	}
	return c.env.BaseURL() + path
}
