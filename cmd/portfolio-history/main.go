package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/betbot/alpaca/internal/cli"
	"github.com/betbot/alpaca/pkg/sdk/trading"
)

func main() {
	var (
		configPath    = flag.String("config", "", "config file (.yaml/.yml/.json)")
		envFile       = flag.String("env-file", ".env", "dotenv file")
		period        = flag.String("period", "1M", "history length, e.g. 1D, 1W, 1M, 1A")
		timeframe     = flag.String("timeframe", "1D", "bucket width, e.g. 1Min, 15Min, 1H, 1D")
		start         = flag.String("start", "", "RFC3339 start")
		end           = flag.String("end", "", "RFC3339 end")
		pnlReset      = flag.String("pnl-reset", "", "per_day or no_reset")
		extended      = flag.Bool("extended-hours", false, "include extended hours")
		showPositions = flag.Bool("positions", false, "also list open positions")
	)
	flag.Parse()

	tf, err := trading.ParseTimeFrame(*timeframe)
	if err != nil {
		cli.Fatal(err)
	}

	env, err := cli.Setup(*configPath, *envFile)
	if err != nil {
		cli.Fatal(err)
	}
	client := env.Trading()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	q := client.NewPortfolioHistoryQuery().TimeFrame(tf)
	if *start == "" && *end == "" {
		q.Period(*period)
	}
	if *start != "" {
		q.Start(*start)
	}
	if *end != "" {
		q.End(*end)
	}
	if *pnlReset != "" {
		q.PnLReset(*pnlReset)
	}
	if *extended {
		q.ExtendedHours(true)
	}

	history, err := q.Send(ctx)
	if err != nil {
		cli.Fatal(err)
	}

	rows := make([][]string, 0, len(history.Timestamp))
	for i, ts := range history.Timestamp {
		rows = append(rows, []string{
			time.Unix(ts, 0).UTC().Format("2006-01-02 15:04"),
			at(history.Equity, i).StringFixed(2),
			cli.Signed(at(history.ProfitLoss, i).Round(2)),
			at(history.ProfitLossPct, i).Mul(decimal.NewFromInt(100)).StringFixed(3) + "%",
		})
	}
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("portfolio history %s (%s, base %.2f)", history.TimeFrame, env.Config.Environment, history.BaseValue)))
	fmt.Println(cli.Table([]string{"time", "equity", "p/l", "p/l %"}, rows))

	if !*showPositions {
		return
	}
	positions, err := client.AllOpenPositions(ctx)
	if err != nil {
		cli.Fatal(err)
	}
	prows := make([][]string, 0, len(positions))
	for _, p := range positions {
		pl := "-"
		if p.UnrealizedPL != nil {
			pl = cli.Signed(*p.UnrealizedPL)
		}
		prows = append(prows, []string{p.Symbol, p.Side.String(), p.Qty.String(), p.AvgEntryPrice.String(), cli.Dec(p.MarketValue), pl})
	}
	fmt.Println(cli.Table([]string{"symbol", "side", "qty", "entry", "value", "unrealized p/l"}, prows))
}

func at(series []float64, i int) decimal.Decimal {
	if i >= len(series) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(series[i])
}
