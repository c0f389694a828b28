// Package journal records fetched account activities in a local SQLite
// database so repeated pulls only add what is new.
package journal

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/betbot/alpaca/pkg/sdk/trading"
)

// timeLayout is fixed width so stored times sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type Journal struct {
	db *sql.DB
}

func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	j := &Journal{db: db}
	if err := j.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

func (j *Journal) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA journal_mode=WAL;`,
		`
CREATE TABLE IF NOT EXISTS activities (
  id TEXT PRIMARY KEY,
  activity_type TEXT NOT NULL,
  transaction_time TEXT,
  date TEXT,
  symbol TEXT,
  side TEXT,
  qty TEXT,
  price TEXT,
  net_amount TEXT,
  order_id TEXT,
  order_status TEXT,
  recorded_at TEXT NOT NULL
);`,
		`CREATE INDEX IF NOT EXISTS idx_activities_time ON activities(transaction_time DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := j.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "migrate")
		}
	}
	return nil
}

// Upsert stores activities keyed by id, replacing earlier copies. It returns
// how many ids were not in the journal before.
func (j *Journal) Upsert(ctx context.Context, activities []trading.TradeActivity) (int, error) {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(timeLayout)
	added := 0
	for _, a := range activities {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM activities WHERE id=?`, a.ID).Scan(&exists); err != nil {
			return 0, errors.Wrapf(err, "lookup %s", a.ID)
		}
		if exists == 0 {
			added++
		}
		_, err := tx.ExecContext(ctx, `
INSERT INTO activities (id, activity_type, transaction_time, date, symbol, side, qty, price, net_amount, order_id, order_status, recorded_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(id) DO UPDATE SET
  activity_type=excluded.activity_type,
  transaction_time=excluded.transaction_time,
  date=excluded.date,
  symbol=excluded.symbol,
  side=excluded.side,
  qty=excluded.qty,
  price=excluded.price,
  net_amount=excluded.net_amount,
  order_id=excluded.order_id,
  order_status=excluded.order_status,
  recorded_at=excluded.recorded_at
`, a.ID, a.ActivityType, timeString(a.TransactionTime), nullString(a.Date), a.Symbol, a.Side,
			decimalString(a.Qty), decimalString(a.Price), decimalString(a.NetAmount), a.OrderID, a.OrderStatus, now)
		if err != nil {
			return 0, errors.Wrapf(err, "upsert %s", a.ID)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return added, nil
}

func (j *Journal) Count(ctx context.Context) (int, error) {
	var n int
	err := j.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM activities`).Scan(&n)
	return n, err
}

// LatestTransactionTime returns the newest recorded transaction time, for
// use as the after= bound of the next pull.
func (j *Journal) LatestTransactionTime(ctx context.Context) (time.Time, bool, error) {
	var ts sql.NullString
	err := j.db.QueryRowContext(ctx, `SELECT MAX(transaction_time) FROM activities`).Scan(&ts)
	if err != nil {
		return time.Time{}, false, err
	}
	if !ts.Valid || ts.String == "" {
		return time.Time{}, false, nil
	}
	t, err := time.Parse(timeLayout, ts.String)
	if err != nil {
		return time.Time{}, false, errors.Wrap(err, "parse transaction_time")
	}
	return t, true, nil
}

// List returns up to limit activities, newest first.
func (j *Journal) List(ctx context.Context, limit int) ([]trading.TradeActivity, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := j.db.QueryContext(ctx, `
SELECT id, activity_type, transaction_time, date, symbol, side, qty, price, net_amount, order_id, order_status
FROM activities
ORDER BY transaction_time DESC, id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []trading.TradeActivity
	for rows.Next() {
		var (
			a                     trading.TradeActivity
			txTime, date          sql.NullString
			qty, price, netAmount sql.NullString
			symbol, side, orderID sql.NullString
			orderStatus           sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.ActivityType, &txTime, &date, &symbol, &side, &qty, &price, &netAmount, &orderID, &orderStatus); err != nil {
			return nil, err
		}
		a.Symbol, a.Side, a.OrderID, a.OrderStatus = symbol.String, side.String, orderID.String, orderStatus.String
		if txTime.Valid {
			if t, err := time.Parse(timeLayout, txTime.String); err == nil {
				a.TransactionTime = &t
			}
		}
		if date.Valid {
			a.Date = &date.String
		}
		a.Qty = parseDecimal(qty)
		a.Price = parseDecimal(price)
		a.NetAmount = parseDecimal(netAmount)
		out = append(out, a)
	}
	return out, rows.Err()
}

func timeString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func decimalString(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func parseDecimal(s sql.NullString) *decimal.Decimal {
	if !s.Valid {
		return nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil
	}
	return &d
}
