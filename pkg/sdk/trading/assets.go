package trading

import (
	"context"
	"net/http"
	"time"

	"github.com/betbot/alpaca/pkg/cache"
	sdkhttp "github.com/betbot/alpaca/pkg/sdk/http"
	"github.com/betbot/alpaca/pkg/sdk/query"
)

type Asset struct {
	ID                           string   `json:"id"`
	Class                        string   `json:"class"`
	Exchange                     string   `json:"exchange"`
	Symbol                       string   `json:"symbol"`
	Name                         string   `json:"name"`
	Status                       string   `json:"status"`
	Tradable                     bool     `json:"tradable"`
	Marginable                   bool     `json:"marginable"`
	Shortable                    bool     `json:"shortable"`
	EasyToBorrow                 bool     `json:"easy_to_borrow"`
	Fractionable                 bool     `json:"fractionable"`
	MaintenanceMarginRequirement *float64 `json:"maintenance_margin_requirement"`
	Attributes                   []string `json:"attributes"`
}

type AssetsQuery struct {
	client     *Client
	once       query.Once
	status     *string
	assetClass *string
	exchange   *string
	attributes []string
}

func (c *Client) NewAssetsQuery() *AssetsQuery {
	return &AssetsQuery{client: c}
}

// Status is active or inactive.
func (q *AssetsQuery) Status(status string) *AssetsQuery {
	q.status = &status
	return q
}

// AssetClass is us_equity or crypto.
func (q *AssetsQuery) AssetClass(class string) *AssetsQuery {
	q.assetClass = &class
	return q
}

func (q *AssetsQuery) Exchange(exchange string) *AssetsQuery {
	q.exchange = &exchange
	return q
}

func (q *AssetsQuery) Attributes(attrs ...string) *AssetsQuery {
	q.attributes = append([]string{}, attrs...)
	return q
}

func (q *AssetsQuery) URL() string {
	var v query.Values
	v.SetString("status", q.status)
	v.SetString("asset_class", q.assetClass)
	v.SetString("exchange", q.exchange)
	v.SetList("attributes", q.attributes)
	return query.URL(q.client.url(EndpointAssets), v)
}

func (q *AssetsQuery) Send(ctx context.Context) ([]Asset, error) {
	if err := q.once.Consume(); err != nil {
		return nil, err
	}
	return sdkhttp.Do[[]Asset](ctx, q.client.dispatcher, &sdkhttp.Request{Method: http.MethodGet, URL: q.URL()})
}

// GetAsset looks up one asset by symbol or asset id.
func (c *Client) GetAsset(ctx context.Context, symbolOrID string) (*Asset, error) {
	return sdkhttp.Do[*Asset](ctx, c.dispatcher, &sdkhttp.Request{
		Method: http.MethodGet,
		URL:    c.url(EndpointAssets + "/" + symbolOrID),
	})
}

// AssetCache memoizes GetAsset for ttl. Errors are not cached.
type AssetCache struct {
	client *Client
	ttl    time.Duration
	cache  cache.Cache[string, *Asset]
}

func NewAssetCache(c *Client, ttl time.Duration) *AssetCache {
	return &AssetCache{client: c, ttl: ttl, cache: cache.NewInMemoryCache[string, *Asset](ttl)}
}

func (a *AssetCache) Get(ctx context.Context, symbolOrID string) (*Asset, error) {
	if asset, ok := a.cache.Get(symbolOrID); ok {
		return asset, nil
	}
	asset, err := a.client.GetAsset(ctx, symbolOrID)
	if err != nil {
		return nil, err
	}
	a.cache.Set(symbolOrID, asset, a.ttl)
	return asset, nil
}
