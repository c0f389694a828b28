// Package marketdata implements the market data screeners. The data host
// is shared by live and paper accounts.
package marketdata

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	sdkhttp "github.com/betbot/alpaca/pkg/sdk/http"
	"github.com/betbot/alpaca/pkg/sdk/query"
)

const (
	DataBaseURL = "https://data.alpaca.markets"

	EndpointMostActives = "/v1beta1/screener/stocks/most-actives"
)

type MarketType int

const (
	Stocks MarketType = iota + 1
	Crypto
)

func (m MarketType) String() string {
	switch m {
	case Stocks:
		return "stocks"
	case Crypto:
		return "crypto"
	}
	return ""
}

func (m MarketType) MarshalText() ([]byte, error) {
	if s := m.String(); s != "" {
		return []byte(s), nil
	}
	return nil, errors.Errorf("invalid market type %d", int(m))
}

func (m *MarketType) UnmarshalText(text []byte) error {
	switch string(text) {
	case "stocks":
		*m = Stocks
	case "crypto":
		*m = Crypto
	default:
		return errors.Errorf("unknown market type %q", text)
	}
	return nil
}

// MoversURL returns the top movers endpoint for a market.
func MoversURL(baseURL string, m MarketType) string {
	return baseURL + "/v1beta1/screener/" + m.String() + "/movers"
}

type ActiveStock struct {
	Symbol     string `json:"symbol"`
	Volume     uint64 `json:"volume"`
	TradeCount uint64 `json:"trade_count"`
}

type MostActivesResponse struct {
	MostActives []ActiveStock `json:"most_actives"`
	LastUpdated string        `json:"last_updated"`
}

type TopMover struct {
	Symbol        string  `json:"symbol"`
	PercentChange float64 `json:"percent_change"`
	Change        float64 `json:"change"`
	Price         float64 `json:"price"`
}

type TopMoversResponse struct {
	Gainers     []TopMover `json:"gainers"`
	Losers      []TopMover `json:"losers"`
	MarketType  MarketType `json:"market_type"`
	LastUpdated string     `json:"last_updated"`
}

type Client struct {
	dispatcher sdkhttp.Dispatcher
	baseURL    string
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

func NewClient(d sdkhttp.Dispatcher, opts ...Option) *Client {
	c := &Client{dispatcher: d, baseURL: DataBaseURL}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// MostActivesQuery ranks stocks by volume or trade count.
type MostActivesQuery struct {
	client *Client
	once   query.Once
	by     *string
	top    *int
}

func (c *Client) NewMostActivesQuery() *MostActivesQuery {
	return &MostActivesQuery{client: c}
}

// By is volume or trades.
func (q *MostActivesQuery) By(by string) *MostActivesQuery {
	q.by = &by
	return q
}

func (q *MostActivesQuery) Top(n int) *MostActivesQuery {
	q.top = &n
	return q
}

func (q *MostActivesQuery) URL() string {
	var v query.Values
	v.SetString("by", q.by)
	v.SetInt("top", q.top)
	return query.URL(q.client.baseURL+EndpointMostActives, v)
}

// Send returns the ranked list, unwrapped from its envelope.
func (q *MostActivesQuery) Send(ctx context.Context) ([]ActiveStock, error) {
	if err := q.once.Consume(); err != nil {
		return nil, err
	}
	resp, err := sdkhttp.Do[MostActivesResponse](ctx, q.client.dispatcher, &sdkhttp.Request{Method: http.MethodGet, URL: q.URL()})
	if err != nil {
		return nil, err
	}
	return resp.MostActives, nil
}

// TopMoversQuery lists the biggest gainers and losers of a market.
type TopMoversQuery struct {
	client *Client
	once   query.Once
	market MarketType
	top    *int
}

func (c *Client) NewTopMoversQuery(market MarketType) *TopMoversQuery {
	return &TopMoversQuery{client: c, market: market}
}

func (q *TopMoversQuery) Top(n int) *TopMoversQuery {
	q.top = &n
	return q
}

func (q *TopMoversQuery) URL() string {
	var v query.Values
	v.SetInt("top", q.top)
	return query.URL(MoversURL(q.client.baseURL, q.market), v)
}

func (q *TopMoversQuery) Send(ctx context.Context) (*TopMoversResponse, error) {
	if err := q.once.Consume(); err != nil {
		return nil, err
	}
	return sdkhttp.Do[*TopMoversResponse](ctx, q.client.dispatcher, &sdkhttp.Request{Method: http.MethodGet, URL: q.URL()})
}
