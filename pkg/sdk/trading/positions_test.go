package trading

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdkhttp "github.com/betbot/alpaca/pkg/sdk/http"
)

const paperPositions = "https://paper-api.alpaca.markets/v2/positions"

func TestPositionQueries(t *testing.T) {
	ctx := context.Background()
	position := map[string]any{
		"asset_id": "904837e3-3b76-47ec-b432-046db621571b", "symbol": "AAPL",
		"qty": "10", "avg_entry_price": "150.25", "side": "long", "cost_basis": "1502.5",
		"market_value": "1600", "unrealized_pl": "97.5",
	}

	t.Run("all open", func(t *testing.T) {
		c, m := newTestClient()
		m.QueueJSON([]map[string]any{position})

		got, err := c.AllOpenPositions(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, Long, got[0].Side)
		assert.True(t, decimal.RequireFromString("150.25").Equal(got[0].AvgEntryPrice))
		assert.Nil(t, got[0].CurrentPrice)
		assert.Equal(t, paperPositions, m.Requests[0].URL)
	})

	t.Run("by symbol", func(t *testing.T) {
		c, m := newTestClient()
		m.QueueJSON(position)

		got, err := c.PositionBySymbol(ctx, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, "AAPL", got.Symbol)
		assert.Equal(t, paperPositions+"/AAPL", m.Requests[0].URL)
	})

	t.Run("by asset id", func(t *testing.T) {
		c, m := newTestClient()
		m.QueueJSON(position)

		id := uuid.MustParse("904837e3-3b76-47ec-b432-046db621571b")
		_, err := c.PositionByAssetID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, paperPositions+"/904837e3-3b76-47ec-b432-046db621571b", m.Requests[0].URL)
	})
}

func TestClosePositions(t *testing.T) {
	ctx := context.Background()

	t.Run("close all accepts multi-status", func(t *testing.T) {
		c, m := newTestClient()
		m.QueueStatus(http.StatusMultiStatus, []map[string]any{
			{"symbol": "AAPL", "status": 200, "body": map[string]any{"id": "o-1", "side": "sell"}},
			{"symbol": "TSLA", "status": 403},
		})

		got, err := c.CloseAllPositions(ctx, true)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "o-1", got[0].Body.ID)
		assert.Equal(t, 403, got[1].Status)

		req := m.Requests[0]
		assert.Equal(t, http.MethodDelete, req.Method)
		assert.Equal(t, paperPositions+"?&cancel_orders=true", req.URL)
	})

	t.Run("close all rejects other statuses", func(t *testing.T) {
		c, m := newTestClient()
		m.QueueStatus(http.StatusInternalServerError, map[string]any{"message": "boom"})

		_, err := c.CloseAllPositions(ctx, false)
		var se *sdkhttp.StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
		assert.Equal(t, paperPositions+"?&cancel_orders=false", m.Requests[0].URL)
	})

	t.Run("partial close by quantity", func(t *testing.T) {
		c, m := newTestClient()
		m.QueueJSON(map[string]any{"id": "o-2", "side": "sell", "qty": "2.5"})

		qty := decimal.RequireFromString("2.5")
		order, err := c.ClosePosition(ctx, "AAPL", &qty, nil)
		require.NoError(t, err)
		assert.Equal(t, "o-2", order.ID)
		assert.Equal(t, paperPositions+"/AAPL?&qty=2.5", m.Requests[0].URL)
	})

	t.Run("close by percentage", func(t *testing.T) {
		c, m := newTestClient()
		m.QueueJSON(map[string]any{"id": "o-3", "side": "sell"})

		pct := decimal.NewFromInt(50)
		_, err := c.ClosePosition(ctx, "AAPL", nil, &pct)
		require.NoError(t, err)
		assert.Equal(t, paperPositions+"/AAPL?&percentage=50", m.Requests[0].URL)
	})

	t.Run("full close", func(t *testing.T) {
		c, m := newTestClient()
		m.QueueJSON(map[string]any{"id": "o-4", "side": "sell"})

		_, err := c.ClosePosition(ctx, "AAPL", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, paperPositions+"/AAPL?", m.Requests[0].URL)
	})
}
