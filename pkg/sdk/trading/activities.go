package trading

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/betbot/alpaca/pkg/sdk/paginate"
	"github.com/betbot/alpaca/pkg/sdk/query"
)

// Activity types accepted by ActivitiesQuery.ActivityTypes.
const (
	ActivityFill          = "FILL"
	ActivityTransaction   = "TRANS"
	ActivityDividend      = "DIV"
	ActivityInterest      = "INT"
	ActivityJournal       = "JNL"
	ActivityFee           = "FEE"
	ActivityCashDeposit   = "CSD"
	ActivityCashWithdraw  = "CSW"
	ActivityAcquisition   = "ACATC"
	ActivityOptionExpired = "OPEXP"
)

// TradeActivity is one account activity. Fill activities carry the trade
// fields; non-trade activities carry Date and NetAmount.
type TradeActivity struct {
	ID              string           `json:"id"`
	ActivityType    string           `json:"activity_type"`
	TransactionTime *time.Time       `json:"transaction_time"`
	Type            string           `json:"type"`
	Price           *decimal.Decimal `json:"price"`
	Qty             *decimal.Decimal `json:"qty"`
	Side            string           `json:"side"`
	Symbol          string           `json:"symbol"`
	LeavesQty       *decimal.Decimal `json:"leaves_qty"`
	OrderID         string           `json:"order_id"`
	CumQty          *decimal.Decimal `json:"cum_qty"`
	OrderStatus     string           `json:"order_status"`
	Date            *string          `json:"date"`
	NetAmount       *decimal.Decimal `json:"net_amount"`
	PerShareAmount  *decimal.Decimal `json:"per_share_amount"`
	GroupID         *string          `json:"group_id"`
	Description     *string          `json:"description"`
	Status          *string          `json:"status"`
}

// ActivitiesQuery lists account activities across as many pages as needed
// to hold Limit records.
type ActivitiesQuery struct {
	client        *Client
	once          query.Once
	activityTypes []string
	category      *string
	date          *string
	until         *string
	after         *string
	direction     *string
	pageSize      *int
	limit         *int
}

func (c *Client) NewActivitiesQuery() *ActivitiesQuery {
	return &ActivitiesQuery{client: c}
}

// ActivityTypes restricts the listing. An empty call leaves it unrestricted.
func (q *ActivitiesQuery) ActivityTypes(types ...string) *ActivitiesQuery {
	if len(types) == 0 {
		return q
	}
	q.activityTypes = append([]string{}, types...)
	return q
}

// Category is trade_activity or non_trade_activity.
func (q *ActivitiesQuery) Category(category string) *ActivitiesQuery {
	q.category = &category
	return q
}

func (q *ActivitiesQuery) Date(date string) *ActivitiesQuery {
	q.date = &date
	return q
}

func (q *ActivitiesQuery) Until(until string) *ActivitiesQuery {
	q.until = &until
	return q
}

func (q *ActivitiesQuery) After(after string) *ActivitiesQuery {
	q.after = &after
	return q
}

func (q *ActivitiesQuery) Direction(direction string) *ActivitiesQuery {
	q.direction = &direction
	return q
}

// PageSize is sent as page_size and is also the short-page threshold that
// ends pagination. Non-positive values are ignored.
func (q *ActivitiesQuery) PageSize(n int) *ActivitiesQuery {
	if n <= 0 {
		return q
	}
	q.pageSize = &n
	return q
}

// Limit caps the accumulated total. It is checked between pages, so the
// result may exceed it by up to one page. It is not sent to the server.
func (q *ActivitiesQuery) Limit(n int) *ActivitiesQuery {
	q.limit = &n
	return q
}

// URL renders the first-page request.
func (q *ActivitiesQuery) URL() string {
	var v query.Values
	v.SetList("activity_types", q.activityTypes)
	v.SetString("category", q.category)
	v.SetString("date", q.date)
	v.SetString("until", q.until)
	v.SetString("after", q.after)
	v.SetString("direction", q.direction)
	v.SetInt("page_size", q.pageSize)
	return query.URL(q.client.url(EndpointActivities), v)
}

func (q *ActivitiesQuery) Send(ctx context.Context) ([]TradeActivity, error) {
	if err := q.once.Consume(); err != nil {
		return nil, err
	}
	p := &paginate.Pager[TradeActivity]{
		Dispatcher: q.client.dispatcher,
		URL:        q.URL(),
		MaxTotal:   paginate.DefaultMaxTotal,
		PageSize:   paginate.DefaultPageSize,
		Cursor:     func(a TradeActivity) string { return a.ID },
		Logger:     q.client.log,
	}
	if q.limit != nil {
		p.MaxTotal = *q.limit
	}
	if q.pageSize != nil {
		p.PageSize = *q.pageSize
	}
	return p.Collect(ctx)
}
