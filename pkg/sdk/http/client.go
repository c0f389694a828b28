package http

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/betbot/alpaca/pkg/logger"
	"github.com/betbot/alpaca/pkg/ratelimit"
)

const (
	HeaderKeyID     = "APCA-API-KEY-ID"
	HeaderSecretKey = "APCA-API-SECRET-KEY"

	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "betbot-alpaca"
)

// Request describes one REST call.
type Request struct {
	Method string
	URL    string
	// Body is JSON-encoded when non-nil.
	Body any
	// Accept lists the status codes treated as success. Empty means any 2xx.
	Accept []int
}

// Response is a received HTTP response with its body fully read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Dispatcher performs a single REST call.
type Dispatcher interface {
	Dispatch(ctx context.Context, req *Request) (*Response, error)
}

// Credentials are the API key pair sent on every request.
type Credentials struct {
	KeyID     string
	SecretKey string
}

// Client is a Dispatcher over resty. It never retries.
type Client struct {
	client  *resty.Client
	limiter ratelimit.RateLimiter
	log     *logrus.Entry
}

type options struct {
	creds      Credentials
	timeout    time.Duration
	userAgent  string
	httpClient *http.Client
	limiter    ratelimit.RateLimiter
	log        *logrus.Entry
}

type Option func(*options)

// WithCredentials sets the APCA key headers.
func WithCredentials(creds Credentials) Option {
	return func(o *options) {
		o.creds = creds
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithRateLimiter makes every call wait on l first.
func WithRateLimiter(l ratelimit.RateLimiter) Option {
	return func(o *options) {
		o.limiter = l
	}
}

func WithLogger(l *logrus.Entry) Option {
	return func(o *options) {
		o.log = l
	}
}

func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithHTTPClient replaces the underlying net/http client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// NewClient creates a dispatcher.
func NewClient(opts ...Option) *Client {
	o := options{
		timeout:   defaultTimeout,
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(&o)
	}

	var client *resty.Client
	if o.httpClient != nil {
		client = resty.NewWithClient(o.httpClient)
	} else {
		client = resty.New()
	}
	client.
		SetTimeout(o.timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", o.userAgent)
	if o.creds.KeyID != "" {
		client.SetHeader(HeaderKeyID, o.creds.KeyID)
		client.SetHeader(HeaderSecretKey, o.creds.SecretKey)
	}

	log := o.log
	if log == nil {
		log = logger.Component("dispatcher")
	}
	return &Client{
		client:  client,
		limiter: o.limiter,
		log:     log,
	}
}

// Dispatch performs req and checks its status against req.Accept.
func (c *Client) Dispatch(ctx context.Context, req *Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Method: req.Method, URL: req.URL, Err: errors.Wrap(err, "rate limiter")}
		}
	}

	r := c.client.R().SetContext(ctx)
	if req.Body != nil {
		r.SetHeader("Content-Type", "application/json")
		r.SetBody(req.Body)
	}

	start := time.Now()
	resp, err := r.Execute(req.Method, req.URL)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL, Err: err}
	}

	fields := logrus.Fields{
		"method":   req.Method,
		"url":      req.URL,
		"status":   resp.StatusCode(),
		"duration": time.Since(start),
	}
	if c.limiter != nil {
		fields["rate_remaining"] = c.limiter.GetRemaining()
	}
	c.log.WithFields(fields).Debug("alpaca request")
	if resp.StatusCode() == http.StatusTooManyRequests && c.limiter != nil {
		c.log.WithFields(logrus.Fields{
			"url":      req.URL,
			"reset_at": c.limiter.GetResetTime(),
		}).Warn("rate limited by server")
	}

	out := &Response{
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}
	if !accepted(out.StatusCode, req.Accept) {
		return nil, &StatusError{
			Method:     req.Method,
			URL:        req.URL,
			StatusCode: out.StatusCode,
			Body:       out.Body,
		}
	}
	return out, nil
}

func accepted(code int, accept []int) bool {
	if len(accept) == 0 {
		return code >= 200 && code < 300
	}
	return slices.Contains(accept, code)
}

// Decode unmarshals a JSON response body into T.
func Decode[T any](resp *Response) (T, error) {
	var out T
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, &DecodeError{Body: resp.Body, Err: err}
	}
	return out, nil
}

// Do dispatches req and decodes the response into T.
func Do[T any](ctx context.Context, d Dispatcher, req *Request) (T, error) {
	resp, err := d.Dispatch(ctx, req)
	if err != nil {
		var zero T
		return zero, err
	}
	return Decode[T](resp)
}
