package trading

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	sdkhttp "github.com/betbot/alpaca/pkg/sdk/http"
	"github.com/betbot/alpaca/pkg/sdk/query"
)

// NewClientOrderID returns a random client order id. Reusing one id across
// retries lets the server reject a duplicate submission.
func NewClientOrderID() string {
	return uuid.NewString()
}

type createOrderBody struct {
	Symbol        string           `json:"symbol"`
	Side          OrderSide        `json:"side"`
	Type          OrderType        `json:"type"`
	TimeInForce   TimeInForce      `json:"time_in_force"`
	ExtendedHours bool             `json:"extended_hours"`
	Qty           *decimal.Decimal `json:"qty,omitempty"`
	Notional      *decimal.Decimal `json:"notional,omitempty"`
	LimitPrice    *decimal.Decimal `json:"limit_price,omitempty"`
	StopPrice     *decimal.Decimal `json:"stop_price,omitempty"`
	TrailPrice    *decimal.Decimal `json:"trail_price,omitempty"`
	TrailPercent  *decimal.Decimal `json:"trail_percent,omitempty"`
	ClientOrderID *string          `json:"client_order_id,omitempty"`
	OrderClass    *OrderClass      `json:"order_class,omitempty"`
	TakeProfit    *TakeProfit      `json:"take_profit,omitempty"`
	StopLoss      *StopLoss        `json:"stop_loss,omitempty"`
}

// CreateOrderQuery submits a new order. Parameter combinations are not
// checked locally; the server rejects invalid ones.
type CreateOrderQuery struct {
	client *Client
	once   query.Once
	body   createOrderBody
}

func (c *Client) NewCreateOrderQuery(symbol string, side OrderSide, typ OrderType) *CreateOrderQuery {
	return &CreateOrderQuery{
		client: c,
		body: createOrderBody{
			Symbol:      symbol,
			Side:        side,
			Type:        typ,
			TimeInForce: Day,
		},
	}
}

func (q *CreateOrderQuery) TimeInForce(tif TimeInForce) *CreateOrderQuery {
	q.body.TimeInForce = tif
	return q
}

func (q *CreateOrderQuery) ExtendedHours(on bool) *CreateOrderQuery {
	q.body.ExtendedHours = on
	return q
}

func (q *CreateOrderQuery) Qty(qty decimal.Decimal) *CreateOrderQuery {
	q.body.Qty = &qty
	return q
}

func (q *CreateOrderQuery) Notional(notional decimal.Decimal) *CreateOrderQuery {
	q.body.Notional = &notional
	return q
}

func (q *CreateOrderQuery) LimitPrice(price decimal.Decimal) *CreateOrderQuery {
	q.body.LimitPrice = &price
	return q
}

func (q *CreateOrderQuery) StopPrice(price decimal.Decimal) *CreateOrderQuery {
	q.body.StopPrice = &price
	return q
}

func (q *CreateOrderQuery) TrailPrice(price decimal.Decimal) *CreateOrderQuery {
	q.body.TrailPrice = &price
	return q
}

func (q *CreateOrderQuery) TrailPercent(pct decimal.Decimal) *CreateOrderQuery {
	q.body.TrailPercent = &pct
	return q
}

func (q *CreateOrderQuery) ClientOrderID(id string) *CreateOrderQuery {
	q.body.ClientOrderID = &id
	return q
}

func (q *CreateOrderQuery) OrderClass(class OrderClass) *CreateOrderQuery {
	q.body.OrderClass = &class
	return q
}

func (q *CreateOrderQuery) TakeProfit(tp *TakeProfit) *CreateOrderQuery {
	q.body.TakeProfit = tp
	return q
}

func (q *CreateOrderQuery) StopLoss(sl *StopLoss) *CreateOrderQuery {
	q.body.StopLoss = sl
	return q
}

// MarshalJSON renders the request body.
func (q *CreateOrderQuery) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.body)
}

func (q *CreateOrderQuery) Send(ctx context.Context) (*Order, error) {
	if err := q.once.Consume(); err != nil {
		return nil, err
	}
	return sdkhttp.Do[*Order](ctx, q.client.dispatcher, &sdkhttp.Request{
		Method: http.MethodPost,
		URL:    q.client.url(EndpointOrders),
		Body:   q.body,
	})
}

// GetOrdersQuery lists orders. It pages by after/until/limit on the
// caller's side, not through a cursor.
type GetOrdersQuery struct {
	client    *Client
	once      query.Once
	status    *string
	limit     *int
	after     *string
	until     *string
	direction *string
	nested    *bool
	symbols   []string
	side      *string
}

func (c *Client) NewGetOrdersQuery() *GetOrdersQuery {
	return &GetOrdersQuery{client: c}
}

// Status is one of open, closed or all.
func (q *GetOrdersQuery) Status(status string) *GetOrdersQuery {
	q.status = &status
	return q
}

func (q *GetOrdersQuery) Limit(limit int) *GetOrdersQuery {
	q.limit = &limit
	return q
}

func (q *GetOrdersQuery) After(after string) *GetOrdersQuery {
	q.after = &after
	return q
}

func (q *GetOrdersQuery) Until(until string) *GetOrdersQuery {
	q.until = &until
	return q
}

func (q *GetOrdersQuery) Direction(direction string) *GetOrdersQuery {
	q.direction = &direction
	return q
}

func (q *GetOrdersQuery) Nested(nested bool) *GetOrdersQuery {
	q.nested = &nested
	return q
}

func (q *GetOrdersQuery) Symbols(symbols ...string) *GetOrdersQuery {
	q.symbols = append([]string{}, symbols...)
	return q
}

func (q *GetOrdersQuery) Side(side OrderSide) *GetOrdersQuery {
	s := side.String()
	q.side = &s
	return q
}

// URL renders the list request.
func (q *GetOrdersQuery) URL() string {
	var v query.Values
	v.SetString("status", q.status)
	v.SetInt("limit", q.limit)
	v.SetString("after", q.after)
	v.SetString("until", q.until)
	v.SetString("direction", q.direction)
	v.SetBool("nested", q.nested)
	v.SetList("symbols", q.symbols)
	v.SetString("side", q.side)
	return query.URL(q.client.url(EndpointOrders), v)
}

func (q *GetOrdersQuery) Send(ctx context.Context) ([]Order, error) {
	if err := q.once.Consume(); err != nil {
		return nil, err
	}
	return sdkhttp.Do[[]Order](ctx, q.client.dispatcher, &sdkhttp.Request{Method: http.MethodGet, URL: q.URL()})
}

// GetByID fetches one order. List parameters set on q are ignored.
func (q *GetOrdersQuery) GetByID(ctx context.Context, id string, nested bool) (*Order, error) {
	if err := q.once.Consume(); err != nil {
		return nil, err
	}
	var v query.Values
	v.Set("nested", strconv.FormatBool(nested))
	url := query.URL(q.client.url(EndpointOrders+"/"+id), v)
	return sdkhttp.Do[*Order](ctx, q.client.dispatcher, &sdkhttp.Request{Method: http.MethodGet, URL: url})
}

func (c *Client) GetByClientOrderID(ctx context.Context, clientOrderID string) (*Order, error) {
	var v query.Values
	v.Set("client_order_id", clientOrderID)
	url := query.URL(c.url(EndpointOrderByClientID), v)
	return sdkhttp.Do[*Order](ctx, c.dispatcher, &sdkhttp.Request{Method: http.MethodGet, URL: url})
}

type replaceOrderBody struct {
	Qty           *decimal.Decimal `json:"qty,omitempty"`
	TimeInForce   *TimeInForce     `json:"time_in_force,omitempty"`
	LimitPrice    *decimal.Decimal `json:"limit_price,omitempty"`
	StopPrice     *decimal.Decimal `json:"stop_price,omitempty"`
	Trail         *decimal.Decimal `json:"trail,omitempty"`
	ClientOrderID *string          `json:"client_order_id,omitempty"`
}

// ReplaceOrderQuery amends an open order. The server answers with the new
// order, which replaces the old one.
type ReplaceOrderQuery struct {
	client  *Client
	once    query.Once
	orderID string
	body    replaceOrderBody
}

func (c *Client) NewReplaceOrderQuery(orderID string) *ReplaceOrderQuery {
	return &ReplaceOrderQuery{client: c, orderID: orderID}
}

func (q *ReplaceOrderQuery) Qty(qty decimal.Decimal) *ReplaceOrderQuery {
	q.body.Qty = &qty
	return q
}

func (q *ReplaceOrderQuery) TimeInForce(tif TimeInForce) *ReplaceOrderQuery {
	q.body.TimeInForce = &tif
	return q
}

func (q *ReplaceOrderQuery) LimitPrice(price decimal.Decimal) *ReplaceOrderQuery {
	q.body.LimitPrice = &price
	return q
}

func (q *ReplaceOrderQuery) StopPrice(price decimal.Decimal) *ReplaceOrderQuery {
	q.body.StopPrice = &price
	return q
}

// Trail updates trail_price or trail_percent, whichever the order uses.
func (q *ReplaceOrderQuery) Trail(trail decimal.Decimal) *ReplaceOrderQuery {
	q.body.Trail = &trail
	return q
}

func (q *ReplaceOrderQuery) ClientOrderID(id string) *ReplaceOrderQuery {
	q.body.ClientOrderID = &id
	return q
}

func (q *ReplaceOrderQuery) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.body)
}

func (q *ReplaceOrderQuery) Send(ctx context.Context) (*Order, error) {
	if err := q.once.Consume(); err != nil {
		return nil, err
	}
	return sdkhttp.Do[*Order](ctx, q.client.dispatcher, &sdkhttp.Request{
		Method: http.MethodPatch,
		URL:    q.client.url(EndpointOrders + "/" + q.orderID),
		Body:   q.body,
	})
}

// CancelOrder requests cancellation of one open order. The server answers
// 204 with no body.
func (c *Client) CancelOrder(ctx context.Context, id string) error {
	_, err := c.dispatcher.Dispatch(ctx, &sdkhttp.Request{
		Method: http.MethodDelete,
		URL:    c.url(EndpointOrders + "/" + id),
		Accept: []int{http.StatusOK, http.StatusNoContent},
	})
	return err
}

// CancelAllOrders cancels every open order. A 207 means some cancels failed;
// inspect each entry's Status.
func (c *Client) CancelAllOrders(ctx context.Context) ([]CanceledOrder, error) {
	return sdkhttp.Do[[]CanceledOrder](ctx, c.dispatcher, &sdkhttp.Request{
		Method: http.MethodDelete,
		URL:    c.url(EndpointOrders),
		Accept: []int{http.StatusOK, http.StatusMultiStatus},
	})
}
