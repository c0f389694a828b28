// Package paginate accumulates records from a page-token paginated listing.
package paginate

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/betbot/alpaca/pkg/logger"
	sdkhttp "github.com/betbot/alpaca/pkg/sdk/http"
)

const (
	DefaultMaxTotal = 1000
	DefaultPageSize = 100

	// PageTokenParam carries the cursor on follow-up requests.
	PageTokenParam = "page_token"
)

// ShouldContinue reports whether a page of pageLen records implies another
// page. The server sends no explicit flag, so only a full page continues.
// A last page that happens to be full costs one extra request.
func ShouldContinue(pageLen, expectedPageSize int) bool {
	return expectedPageSize > 0 && pageLen == expectedPageSize
}

// Pager fetches pages of T from URL until MaxTotal records are held or a
// page comes back short.
type Pager[T any] struct {
	Dispatcher sdkhttp.Dispatcher
	// URL is the fully rendered first-page URL. It must already contain '?'.
	URL string
	// MaxTotal is checked between pages only, so the result may overshoot it
	// by up to one page.
	MaxTotal int
	// PageSize is the page length the server uses for full pages.
	PageSize int
	// Cursor extracts the page token from the last record of a full page.
	Cursor func(T) string
	Logger *logrus.Entry
}

// Collect runs the fetch loop. Any failure discards what was accumulated.
func (p *Pager[T]) Collect(ctx context.Context) ([]T, error) {
	if p.Dispatcher == nil {
		return nil, errors.New("paginate: nil dispatcher")
	}
	if p.Cursor == nil {
		return nil, errors.New("paginate: nil cursor func")
	}
	maxTotal := p.MaxTotal
	if maxTotal <= 0 {
		maxTotal = DefaultMaxTotal
	}
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	log := p.Logger
	if log == nil {
		log = logger.Component("paginate")
	}

	var (
		records []T
		cursor  string
	)
	for page := 1; len(records) < maxTotal; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		url := p.URL
		if cursor != "" {
			url += "&" + PageTokenParam + "=" + cursor
		}

		batch, err := sdkhttp.Do[[]T](ctx, p.Dispatcher, &sdkhttp.Request{Method: http.MethodGet, URL: url})
		if err != nil {
			return nil, errors.Wrapf(err, "fetch page %d", page)
		}
		records = append(records, batch...)

		cursor = ""
		if ShouldContinue(len(batch), pageSize) {
			cursor = p.Cursor(batch[len(batch)-1])
		}

		log.WithFields(logrus.Fields{
			"page":  page,
			"size":  len(batch),
			"total": len(records),
			"more":  cursor != "",
		}).Debug("fetched page")

		if cursor == "" {
			break
		}
	}
	return records, nil
}
