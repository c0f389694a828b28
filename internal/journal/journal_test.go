package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/alpaca/pkg/sdk/trading"
)

func fill(id string, at time.Time, qty string) trading.TradeActivity {
	q := decimal.RequireFromString(qty)
	p := decimal.RequireFromString("180.25")
	return trading.TradeActivity{
		ID:              id,
		ActivityType:    trading.ActivityFill,
		TransactionTime: &at,
		Symbol:          "AAPL",
		Side:            "buy",
		Qty:             &q,
		Price:           &p,
		OrderID:         "order-" + id,
		OrderStatus:     "filled",
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	j, err := Open(ctx, filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	base := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	batch := []trading.TradeActivity{
		fill("a", base, "1"),
		fill("b", base.Add(500*time.Millisecond), "2"),
	}

	added, err := j.Upsert(ctx, batch)
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	batch[1] = fill("b", base.Add(500*time.Millisecond), "3")
	added, err = j.Upsert(ctx, append(batch, fill("c", base.Add(time.Second), "1")))
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	n, err := j.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	list, err := j.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
	assert.True(t, decimal.NewFromInt(3).Equal(*list[1].Qty))
	assert.Equal(t, "order-b", list[1].OrderID)
	assert.Nil(t, list[1].NetAmount)
}

func TestLatestTransactionTime(t *testing.T) {
	ctx := context.Background()
	j, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer j.Close()

	_, ok, err := j.LatestTransactionTime(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	base := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	_, err = j.Upsert(ctx, []trading.TradeActivity{
		fill("a", base.Add(1500*time.Millisecond), "1"),
		fill("b", base.Add(time.Second), "1"),
	})
	require.NoError(t, err)

	latest, ok, err := j.LatestTransactionTime(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, latest.Equal(base.Add(1500*time.Millisecond)))
}

func TestNonTradeActivity(t *testing.T) {
	ctx := context.Background()
	j, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer j.Close()

	date := "2024-03-01"
	amount := decimal.RequireFromString("12.34")
	_, err = j.Upsert(ctx, []trading.TradeActivity{{
		ID:           "div-1",
		ActivityType: trading.ActivityDividend,
		Date:         &date,
		NetAmount:    &amount,
	}})
	require.NoError(t, err)

	list, err := j.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].TransactionTime)
	require.NotNil(t, list[0].Date)
	assert.Equal(t, date, *list[0].Date)
	assert.True(t, amount.Equal(*list[0].NetAmount))
}
