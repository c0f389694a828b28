package trading

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an order as reported by the server. Optional fields are nil when
// absent or null.
type Order struct {
	ID             string           `json:"id"`
	ClientOrderID  string           `json:"client_order_id"`
	CreatedAt      *time.Time       `json:"created_at"`
	UpdatedAt      *time.Time       `json:"updated_at"`
	SubmittedAt    *time.Time       `json:"submitted_at"`
	FilledAt       *time.Time       `json:"filled_at"`
	ExpiredAt      *time.Time       `json:"expired_at"`
	CanceledAt     *time.Time       `json:"canceled_at"`
	FailedAt       *time.Time       `json:"failed_at"`
	ReplacedAt     *time.Time       `json:"replaced_at"`
	ReplacedBy     *string          `json:"replaced_by"`
	Replaces       *string          `json:"replaces"`
	AssetID        string           `json:"asset_id"`
	Symbol         string           `json:"symbol"`
	AssetClass     string           `json:"asset_class"`
	Notional       *decimal.Decimal `json:"notional"`
	Qty            *decimal.Decimal `json:"qty"`
	FilledQty      *decimal.Decimal `json:"filled_qty"`
	FilledAvgPrice *decimal.Decimal `json:"filled_avg_price"`
	OrderClass     string           `json:"order_class"`
	OrderType      string           `json:"order_type"`
	Type           string           `json:"type"`
	Side           OrderSide        `json:"side"`
	TimeInForce    string           `json:"time_in_force"`
	LimitPrice     *decimal.Decimal `json:"limit_price"`
	StopPrice      *decimal.Decimal `json:"stop_price"`
	Status         string           `json:"status"`
	ExtendedHours  bool             `json:"extended_hours"`
	Legs           []Order          `json:"legs"`
	TrailPercent   *decimal.Decimal `json:"trail_percent"`
	TrailPrice     *decimal.Decimal `json:"trail_price"`
	HWM            *decimal.Decimal `json:"hwm"`
}

// CanceledOrder is one entry of a bulk cancel. Status is the per-order HTTP
// status; Body is the order when the cancel succeeded.
type CanceledOrder struct {
	ID     string `json:"id"`
	Status int    `json:"status"`
	Body   *Order `json:"body"`
}

// TakeProfit is the limit leg of a bracket order.
type TakeProfit struct {
	LimitPrice decimal.Decimal `json:"limit_price"`
}

// StopLoss is the stop leg of a bracket order. LimitPrice turns it into a
// stop-limit.
type StopLoss struct {
	StopPrice  decimal.Decimal  `json:"stop_price"`
	LimitPrice *decimal.Decimal `json:"limit_price,omitempty"`
}

func NewTakeProfit(limit decimal.Decimal) *TakeProfit {
	return &TakeProfit{LimitPrice: limit}
}

func NewStopLoss(stop, limit decimal.Decimal) *StopLoss {
	return &StopLoss{StopPrice: stop, LimitPrice: &limit}
}
