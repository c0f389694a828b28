package trading

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAccount(t *testing.T) {
	c, m := newTestClient()
	m.QueueJSON(map[string]any{
		"id":                 "acct-1",
		"status":             "ACTIVE",
		"currency":           "USD",
		"cash":               "1000.50",
		"buying_power":       "4002",
		"daytrade_count":     2,
		"pattern_day_trader": false,
		"created_at":         "2023-01-02T15:04:05Z",
	})

	acct, err := c.GetAccount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ACTIVE", acct.Status)
	assert.True(t, decimal.RequireFromString("1000.5").Equal(acct.Cash))
	assert.Equal(t, 2, acct.DaytradeCount)
	require.NotNil(t, acct.CreatedAt)
	assert.Equal(t, "https://paper-api.alpaca.markets/v2/account", m.Requests[0].URL)
	assert.Equal(t, http.MethodGet, m.Requests[0].Method)
}

func TestAssets(t *testing.T) {
	ctx := context.Background()
	const base = "https://paper-api.alpaca.markets/v2/assets"

	c, m := newTestClient()
	assert.Equal(t, base+"?", c.NewAssetsQuery().URL())
	assert.Equal(t, base+"?&status=active&asset_class=us_equity&attributes=ptp_no_exception,has_options",
		c.NewAssetsQuery().Attributes("ptp_no_exception", "has_options").AssetClass("us_equity").Status("active").URL())

	m.QueueJSON([]map[string]any{{"symbol": "AAPL", "tradable": true, "fractionable": true}})
	assets, err := c.NewAssetsQuery().Status("active").Send(ctx)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.True(t, assets[0].Fractionable)

	m.QueueJSON(map[string]any{"symbol": "BTC/USD", "class": "crypto", "maintenance_margin_requirement": 100})
	asset, err := c.GetAsset(ctx, "BTC/USD")
	require.NoError(t, err)
	assert.Equal(t, "crypto", asset.Class)
	require.NotNil(t, asset.MaintenanceMarginRequirement)
	assert.Equal(t, 100.0, *asset.MaintenanceMarginRequirement)
	assert.Equal(t, base+"/BTC/USD", m.Requests[1].URL)
}

func TestPortfolioHistory(t *testing.T) {
	const base = "https://paper-api.alpaca.markets/v2/account/portfolio/history"
	c, m := newTestClient()

	assert.Equal(t, base+"?", c.NewPortfolioHistoryQuery().URL())
	assert.Equal(t, base+"?&period=1M&timeframe=1D&pnl_reset=no_reset&extended_hours=true&cashflow_types=DIV,FEE",
		c.NewPortfolioHistoryQuery().
			CashflowTypes(ActivityDividend, ActivityFee).
			ExtendedHours(true).
			PnLReset("no_reset").
			TimeFrame(OneDay).
			Period("1M").
			URL())

	m.QueueJSON(map[string]any{
		"timestamp":       []int64{1700000000, 1700086400},
		"equity":          []any{100000.0, nil},
		"profit_loss":     []float64{0, 12.5},
		"profit_loss_pct": []float64{0, 0.000125},
		"base_value":      100000,
		"timeframe":       "1D",
		"cashflow":        map[string]any{},
	})

	h, err := c.NewPortfolioHistoryQuery().Period("1W").Send(context.Background())
	require.NoError(t, err)
	assert.Len(t, h.Timestamp, 2)
	assert.Equal(t, []float64{100000, 0}, h.Equity)
	assert.Equal(t, "1D", h.TimeFrame)
	assert.Nil(t, h.BaseValueAsOf)
	assert.Equal(t, base+"?&period=1W", m.Requests[0].URL)
}

func TestAssetCache(t *testing.T) {
	ctx := context.Background()
	c, m := newTestClient()
	m.QueueStatus(http.StatusServiceUnavailable, map[string]any{"message": "try later"})
	m.QueueJSON(map[string]any{"symbol": "AAPL", "tradable": true})

	ac := NewAssetCache(c, time.Hour)
	_, err := ac.Get(ctx, "AAPL")
	require.Error(t, err)

	for i := 0; i < 3; i++ {
		asset, err := ac.Get(ctx, "AAPL")
		require.NoError(t, err)
		assert.True(t, asset.Tradable)
	}
	assert.Equal(t, 2, m.Calls())
}
