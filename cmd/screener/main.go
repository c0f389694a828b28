package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"github.com/betbot/alpaca/internal/cli"
	"github.com/betbot/alpaca/pkg/sdk/marketdata"
)

func main() {
	var (
		configPath = flag.String("config", "", "config file (.yaml/.yml/.json)")
		envFile    = flag.String("env-file", ".env", "dotenv file")
		market     = flag.String("market", "stocks", "stocks or crypto (movers only)")
		mostActive = flag.Bool("most-actives", false, "list most active stocks instead of movers")
		by         = flag.String("by", "volume", "most actives ranking: volume or trades")
		top        = flag.Int("top", 10, "number of results")
	)
	flag.Parse()

	env, err := cli.Setup(*configPath, *envFile)
	if err != nil {
		cli.Fatal(err)
	}
	client := env.MarketData()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *mostActive {
		stocks, err := client.NewMostActivesQuery().By(*by).Top(*top).Send(ctx)
		if err != nil {
			cli.Fatal(err)
		}
		rows := make([][]string, 0, len(stocks))
		for _, s := range stocks {
			rows = append(rows, []string{s.Symbol, fmt.Sprint(s.Volume), fmt.Sprint(s.TradeCount)})
		}
		fmt.Println(cli.TitleStyle.Render("most active stocks by " + *by))
		fmt.Println(cli.Table([]string{"symbol", "volume", "trades"}, rows))
		return
	}

	var mt marketdata.MarketType
	if err := mt.UnmarshalText([]byte(*market)); err != nil {
		cli.Fatal(err)
	}
	movers, err := client.NewTopMoversQuery(mt).Top(*top).Send(ctx)
	if err != nil {
		cli.Fatal(err)
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("top %s movers, updated %s", movers.MarketType, movers.LastUpdated)))
	fmt.Println(cli.Table([]string{"gainer", "price", "change", "%"}, moverRows(movers.Gainers)))
	fmt.Println(cli.Table([]string{"loser", "price", "change", "%"}, moverRows(movers.Losers)))
}

func moverRows(movers []marketdata.TopMover) [][]string {
	rows := make([][]string, 0, len(movers))
	for _, m := range movers {
		rows = append(rows, []string{
			m.Symbol,
			decimal.NewFromFloat(m.Price).String(),
			cli.Signed(decimal.NewFromFloat(m.Change)),
			cli.Signed(decimal.NewFromFloat(m.PercentChange).Round(2)),
		})
	}
	return rows
}
