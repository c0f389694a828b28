package trading

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/alpaca/pkg/sdk/query"
)

const paperActivities = "https://paper-api.alpaca.markets/v2/account/activities"

func fills(prefix string, n int) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		out[i] = map[string]any{
			"id":               fmt.Sprintf("%s::%d", prefix, i),
			"activity_type":    "FILL",
			"transaction_time": "2024-03-01T14:30:00Z",
			"symbol":           "AAPL",
			"side":             "buy",
			"qty":              "1",
			"price":            "180.5",
		}
	}
	return out
}

func TestActivitiesURL(t *testing.T) {
	c, _ := newTestClient()
	assert.Equal(t, paperActivities+"?", c.NewActivitiesQuery().URL())

	got := c.NewActivitiesQuery().
		Limit(500).
		PageSize(50).
		Direction("desc").
		ActivityTypes(ActivityFill, ActivityDividend).
		URL()
	assert.Equal(t, paperActivities+"?&activity_types=FILL,DIV&direction=desc&page_size=50", got)

	assert.Equal(t, paperActivities+"?", c.NewActivitiesQuery().ActivityTypes().PageSize(0).PageSize(-5).URL())
	assert.Equal(t, paperActivities+"?&page_size=20", c.NewActivitiesQuery().PageSize(20).PageSize(0).URL())
}

func TestActivitiesSend(t *testing.T) {
	ctx := context.Background()

	t.Run("follows cursor until a short page", func(t *testing.T) {
		c, m := newTestClient()
		m.QueueJSON(fills("a", 100)).QueueJSON(fills("b", 100)).QueueJSON(fills("c", 37))

		got, err := c.NewActivitiesQuery().ActivityTypes(ActivityFill).Send(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 237)
		assert.Equal(t, 3, m.Calls())
		assert.Equal(t, paperActivities+"?&activity_types=FILL", m.Requests[0].URL)
		assert.Equal(t, paperActivities+"?&activity_types=FILL&page_token=a::99", m.Requests[1].URL)
		assert.Equal(t, paperActivities+"?&activity_types=FILL&page_token=b::99", m.Requests[2].URL)

		require.NotNil(t, got[0].TransactionTime)
		assert.Equal(t, 2024, got[0].TransactionTime.Year())
	})

	t.Run("limit stops between pages", func(t *testing.T) {
		c, m := newTestClient()
		m.QueueJSON(fills("a", 100)).QueueJSON(fills("b", 100))

		got, err := c.NewActivitiesQuery().Limit(150).Send(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 200)
		assert.Equal(t, 2, m.Calls())
		for _, r := range m.Requests {
			assert.NotContains(t, r.URL, "limit")
		}
	})

	t.Run("page size drives continuation", func(t *testing.T) {
		c, m := newTestClient()
		m.QueueJSON(fills("a", 10)).QueueJSON(fills("b", 3))

		got, err := c.NewActivitiesQuery().PageSize(10).Send(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 13)
		assert.True(t, strings.HasSuffix(m.Requests[1].URL, "&page_size=10&page_token=a::9"))
	})

	t.Run("ignored page size keeps the default threshold", func(t *testing.T) {
		c, m := newTestClient()
		m.QueueJSON(fills("a", 100)).QueueJSON(fills("b", 5))

		got, err := c.NewActivitiesQuery().PageSize(0).ActivityTypes().Send(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 105)
		assert.Equal(t, 2, m.Calls())
		assert.Equal(t, paperActivities+"?", m.Requests[0].URL)
		assert.Equal(t, paperActivities+"?&page_token=a::99", m.Requests[1].URL)
	})

	t.Run("dividend fields", func(t *testing.T) {
		c, m := newTestClient()
		m.QueueJSON([]map[string]any{{
			"id":               "20240301::div",
			"activity_type":    "DIV",
			"date":             "2024-03-01",
			"net_amount":       "12.40",
			"per_share_amount": "0.24",
			"group_id":         "grp-1",
			"symbol":           "AAPL",
		}})

		got, err := c.NewActivitiesQuery().ActivityTypes(ActivityDividend).Send(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NotNil(t, got[0].PerShareAmount)
		assert.Equal(t, "0.24", got[0].PerShareAmount.String())
		require.NotNil(t, got[0].GroupID)
		assert.Equal(t, "grp-1", *got[0].GroupID)
		assert.Nil(t, got[0].TransactionTime)
	})

	t.Run("error mid-way returns nothing", func(t *testing.T) {
		c, m := newTestClient()
		boom := errors.New("reset by peer")
		m.QueueJSON(fills("a", 100))
		m.ErrorOnCall[2] = boom

		got, err := c.NewActivitiesQuery().Send(ctx)
		assert.ErrorIs(t, err, boom)
		assert.Nil(t, got)
	})

	t.Run("single use", func(t *testing.T) {
		c, _ := newTestClient()
		q := c.NewActivitiesQuery()
		_, err := q.Send(ctx)
		require.NoError(t, err)
		_, err = q.Send(ctx)
		assert.ErrorIs(t, err, query.ErrConsumed)
	})
}
