package trading

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	sdkhttp "github.com/betbot/alpaca/pkg/sdk/http"
)

type Account struct {
	ID                    string          `json:"id"`
	AccountNumber         string          `json:"account_number"`
	Status                string          `json:"status"`
	CryptoStatus          string          `json:"crypto_status"`
	Currency              string          `json:"currency"`
	Cash                  decimal.Decimal `json:"cash"`
	PortfolioValue        decimal.Decimal `json:"portfolio_value"`
	Equity                decimal.Decimal `json:"equity"`
	LastEquity            decimal.Decimal `json:"last_equity"`
	BuyingPower           decimal.Decimal `json:"buying_power"`
	RegTBuyingPower       decimal.Decimal `json:"regt_buying_power"`
	DaytradingBuyingPower decimal.Decimal `json:"daytrading_buying_power"`
	NonMarginBuyingPower  decimal.Decimal `json:"non_marginable_buying_power"`
	LongMarketValue       decimal.Decimal `json:"long_market_value"`
	ShortMarketValue      decimal.Decimal `json:"short_market_value"`
	InitialMargin         decimal.Decimal `json:"initial_margin"`
	MaintenanceMargin     decimal.Decimal `json:"maintenance_margin"`
	Multiplier            decimal.Decimal `json:"multiplier"`
	DaytradeCount         int             `json:"daytrade_count"`
	PatternDayTrader      bool            `json:"pattern_day_trader"`
	TradingBlocked        bool            `json:"trading_blocked"`
	TransfersBlocked      bool            `json:"transfers_blocked"`
	AccountBlocked        bool            `json:"account_blocked"`
	ShortingEnabled       bool            `json:"shorting_enabled"`
	TradeSuspendedByUser  bool            `json:"trade_suspended_by_user"`
	CreatedAt             *time.Time      `json:"created_at"`
}

func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	return sdkhttp.Do[*Account](ctx, c.dispatcher, &sdkhttp.Request{
		Method: http.MethodGet,
		URL:    c.url(EndpointAccount),
	})
}
