package trading

import (
	"context"
	"encoding/json"
	"net/http"

	sdkhttp "github.com/betbot/alpaca/pkg/sdk/http"
	"github.com/betbot/alpaca/pkg/sdk/query"
)

// PortfolioHistory is the account equity curve. The series are parallel:
// index i of each slice belongs to Timestamp[i].
type PortfolioHistory struct {
	Timestamp     []int64         `json:"timestamp"`
	Equity        []float64       `json:"equity"`
	ProfitLoss    []float64       `json:"profit_loss"`
	ProfitLossPct []float64       `json:"profit_loss_pct"`
	BaseValue     float64         `json:"base_value"`
	BaseValueAsOf *string         `json:"base_value_asof"`
	TimeFrame     string          `json:"timeframe"`
	Cashflow      json.RawMessage `json:"cashflow,omitempty"`
}

type PortfolioHistoryQuery struct {
	client            *Client
	once              query.Once
	period            *string
	timeframe         *string
	intradayReporting *string
	start             *string
	end               *string
	pnlReset          *string
	dateEnd           *string
	extendedHours     *bool
	cashflowTypes     []string
}

func (c *Client) NewPortfolioHistoryQuery() *PortfolioHistoryQuery {
	return &PortfolioHistoryQuery{client: c}
}

// Period is a duration such as 1D, 1W, 1M or 1A.
func (q *PortfolioHistoryQuery) Period(period string) *PortfolioHistoryQuery {
	q.period = &period
	return q
}

func (q *PortfolioHistoryQuery) TimeFrame(tf TimeFrame) *PortfolioHistoryQuery {
	s := tf.String()
	q.timeframe = &s
	return q
}

// IntradayReporting is one of market_hours, extended_hours or continuous.
func (q *PortfolioHistoryQuery) IntradayReporting(mode string) *PortfolioHistoryQuery {
	q.intradayReporting = &mode
	return q
}

func (q *PortfolioHistoryQuery) Start(start string) *PortfolioHistoryQuery {
	q.start = &start
	return q
}

func (q *PortfolioHistoryQuery) End(end string) *PortfolioHistoryQuery {
	q.end = &end
	return q
}

// PnLReset is per_day or no_reset.
func (q *PortfolioHistoryQuery) PnLReset(mode string) *PortfolioHistoryQuery {
	q.pnlReset = &mode
	return q
}

func (q *PortfolioHistoryQuery) DateEnd(date string) *PortfolioHistoryQuery {
	q.dateEnd = &date
	return q
}

func (q *PortfolioHistoryQuery) ExtendedHours(on bool) *PortfolioHistoryQuery {
	q.extendedHours = &on
	return q
}

func (q *PortfolioHistoryQuery) CashflowTypes(types ...string) *PortfolioHistoryQuery {
	q.cashflowTypes = append([]string{}, types...)
	return q
}

func (q *PortfolioHistoryQuery) URL() string {
	var v query.Values
	v.SetString("period", q.period)
	v.SetString("timeframe", q.timeframe)
	v.SetString("intraday_reporting", q.intradayReporting)
	v.SetString("start", q.start)
	v.SetString("end", q.end)
	v.SetString("pnl_reset", q.pnlReset)
	v.SetString("date_end", q.dateEnd)
	v.SetBool("extended_hours", q.extendedHours)
	v.SetList("cashflow_types", q.cashflowTypes)
	return query.URL(q.client.url(EndpointPortfolioHistory), v)
}

func (q *PortfolioHistoryQuery) Send(ctx context.Context) (*PortfolioHistory, error) {
	if err := q.once.Consume(); err != nil {
		return nil, err
	}
	return sdkhttp.Do[*PortfolioHistory](ctx, q.client.dispatcher, &sdkhttp.Request{Method: http.MethodGet, URL: q.URL()})
}
