package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betbot/alpaca/pkg/ratelimit"
)

func TestClientDispatch(t *testing.T) {
	ctx := context.Background()

	t.Run("sends credentials and json body", func(t *testing.T) {
		var gotMethod, gotKey, gotSecret, gotType string
		var gotBody map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotKey = r.Header.Get(HeaderKeyID)
			gotSecret = r.Header.Get(HeaderSecretKey)
			gotType = r.Header.Get("Content-Type")
			b, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(b, &gotBody)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"abc"}`))
		}))
		defer srv.Close()

		c := NewClient(WithCredentials(Credentials{KeyID: "key", SecretKey: "secret"}))
		resp, err := c.Dispatch(ctx, &Request{
			Method: http.MethodPost,
			URL:    srv.URL + "/v2/orders",
			Body:   map[string]string{"symbol": "AAPL"},
		})
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "key", gotKey)
		assert.Equal(t, "secret", gotSecret)
		assert.Contains(t, gotType, "application/json")
		assert.Equal(t, "AAPL", gotBody["symbol"])
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		out, err := Decode[struct {
			ID string `json:"id"`
		}](resp)
		require.NoError(t, err)
		assert.Equal(t, "abc", out.ID)
	})

	t.Run("non-2xx surfaces status error without retry", func(t *testing.T) {
		var hits int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"message":"down"}`))
		}))
		defer srv.Close()

		_, err := NewClient().Dispatch(ctx, &Request{Method: http.MethodGet, URL: srv.URL})
		require.Error(t, err)

		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
		assert.Contains(t, string(se.Body), "down")
		assert.EqualValues(t, 1, atomic.LoadInt32(&hits))
	})

	t.Run("accept list overrides 2xx rule", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusMultiStatus)
			_, _ = w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		c := NewClient()
		resp, err := c.Dispatch(ctx, &Request{Method: http.MethodDelete, URL: srv.URL, Accept: []int{200, 207}})
		require.NoError(t, err)
		assert.Equal(t, http.StatusMultiStatus, resp.StatusCode)

		_, err = c.Dispatch(ctx, &Request{Method: http.MethodDelete, URL: srv.URL, Accept: []int{200}})
		var se *StatusError
		assert.True(t, errors.As(err, &se))
	})

	t.Run("transport failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		_, err := NewClient(WithTimeout(time.Second)).Dispatch(ctx, &Request{Method: http.MethodGet, URL: url})
		var te *TransportError
		require.True(t, errors.As(err, &te))
		assert.Equal(t, url, te.URL)
	})

	t.Run("logs limiter state", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"message":"slow down"}`))
		}))
		defer srv.Close()

		l, hook := logtest.NewNullLogger()
		l.SetLevel(logrus.DebugLevel)
		limiter := ratelimit.NewSlidingWindow(5, time.Minute)

		c := NewClient(WithRateLimiter(limiter), WithLogger(logrus.NewEntry(l)))
		_, err := c.Dispatch(ctx, &Request{Method: http.MethodGet, URL: srv.URL})
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)

		entries := hook.AllEntries()
		require.Len(t, entries, 2)
		assert.Equal(t, logrus.DebugLevel, entries[0].Level)
		assert.Equal(t, 4, entries[0].Data["rate_remaining"])
		assert.Equal(t, logrus.WarnLevel, entries[1].Level)
		assert.Contains(t, entries[1].Data, "reset_at")
	})

	t.Run("rate limiter canceled context", func(t *testing.T) {
		limiter := ratelimit.NewSlidingWindow(1, time.Minute)
		require.True(t, limiter.Allow())

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := NewClient(WithRateLimiter(limiter)).Dispatch(cctx, &Request{Method: http.MethodGet, URL: "http://127.0.0.1:1"})
		var te *TransportError
		require.True(t, errors.As(err, &te))
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDecodeError(t *testing.T) {
	_, err := Decode[[]int](&Response{StatusCode: 200, Body: []byte(`{"not":"a list"}`)})
	var de *DecodeError
	require.True(t, errors.As(err, &de))
	assert.Contains(t, de.Error(), "not")
}

func TestMockDispatcher(t *testing.T) {
	ctx := context.Background()
	m := NewMockDispatcher().QueueJSON([]int{1, 2}).QueueStatus(http.StatusNotFound, map[string]string{"message": "nope"})
	m.ErrorOnCall[3] = errors.New("boom")

	got, err := Do[[]int](ctx, m, &Request{Method: http.MethodGet, URL: "u1"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, got)

	_, err = m.Dispatch(ctx, &Request{Method: http.MethodGet, URL: "u2"})
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)

	_, err = m.Dispatch(ctx, &Request{Method: http.MethodGet, URL: "u3"})
	assert.EqualError(t, err, "boom")

	assert.Equal(t, 3, m.Calls())
	assert.Equal(t, "u2", m.Requests[1].URL)
}
