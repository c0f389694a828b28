// Package query renders the optional query parameters of a REST call.
//
// Parameters are kept in the order they were set, not sorted, and values are
// written verbatim. Every parameter carries a leading '&', so a rendered URL
// looks like "https://host/v2/orders?&status=open&limit=5". A query with no
// parameters renders as a bare trailing '?'.
package query

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrConsumed is returned when a query that was already sent is sent again.
var ErrConsumed = errors.New("query already consumed")

type pair struct {
	key   string
	value string
}

// Values is an ordered set of query parameters.
type Values struct {
	pairs []pair
}

// Set appends key=value.
func (v *Values) Set(key, value string) {
	v.pairs = append(v.pairs, pair{key: key, value: value})
}

// SetString appends key if s is non-nil.
func (v *Values) SetString(key string, s *string) {
	if s != nil {
		v.Set(key, *s)
	}
}

// SetInt appends key if n is non-nil.
func (v *Values) SetInt(key string, n *int) {
	if n != nil {
		v.Set(key, strconv.Itoa(*n))
	}
}

// SetBool appends key if b is non-nil.
func (v *Values) SetBool(key string, b *bool) {
	if b != nil {
		v.Set(key, strconv.FormatBool(*b))
	}
}

// SetList appends key with the items joined by commas. A nil list is unset;
// an empty non-nil list renders as "key=".
func (v *Values) SetList(key string, list []string) {
	if list != nil {
		v.Set(key, strings.Join(list, ","))
	}
}

// Len returns the number of parameters set.
func (v Values) Len() int {
	return len(v.pairs)
}

// Encode renders the parameters as "&k1=v1&k2=v2".
func (v Values) Encode() string {
	var sb strings.Builder
	for _, p := range v.pairs {
		sb.WriteByte('&')
		sb.WriteString(p.key)
		sb.WriteByte('=')
		sb.WriteString(p.value)
	}
	return sb.String()
}

// URL joins base and the encoded parameters with '?'.
func URL(base string, v Values) string {
	return base + "?" + v.Encode()
}

// Once guards the terminal operation of a query.
type Once struct {
	consumed bool
}

// Consume marks the query as sent. It returns ErrConsumed if it was already.
func (o *Once) Consume() error {
	if o.consumed {
		return ErrConsumed
	}
	o.consumed = true
	return nil
}

// Consumed reports whether Consume has been called.
func (o *Once) Consumed() bool {
	return o.consumed
}
