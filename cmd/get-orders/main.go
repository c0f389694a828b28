package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/betbot/alpaca/internal/cli"
	"github.com/betbot/alpaca/pkg/sdk/trading"
)

func main() {
	var (
		configPath = flag.String("config", "", "config file (.yaml/.yml/.json)")
		envFile    = flag.String("env-file", ".env", "dotenv file")
		status     = flag.String("status", "open", "open, closed or all")
		limit      = flag.Int("limit", 0, "max orders (server default when 0)")
		symbols    = flag.String("symbols", "", "comma separated symbols")
		side       = flag.String("side", "", "buy or sell")
		after      = flag.String("after", "", "only orders submitted after this time")
		until      = flag.String("until", "", "only orders submitted until this time")
		direction  = flag.String("direction", "", "asc or desc")
		nested     = flag.Bool("nested", false, "roll up multi-leg orders")
		id         = flag.String("id", "", "fetch a single order by id")
		clientID   = flag.String("client-order-id", "", "fetch a single order by client order id")
		cancel     = flag.String("cancel", "", "cancel the order with this id, or \"all\"")
	)
	flag.Parse()

	env, err := cli.Setup(*configPath, *envFile)
	if err != nil {
		cli.Fatal(err)
	}
	client := env.Trading()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *cancel == "all":
		canceled, err := client.CancelAllOrders(ctx)
		if err != nil {
			cli.Fatal(err)
		}
		rows := make([][]string, 0, len(canceled))
		for _, c := range canceled {
			rows = append(rows, []string{c.ID, fmt.Sprint(c.Status)})
		}
		fmt.Println(cli.Table([]string{"id", "status"}, rows))
		return
	case *cancel != "":
		if err := client.CancelOrder(ctx, *cancel); err != nil {
			cli.Fatal(err)
		}
		fmt.Println("cancel requested for", *cancel)
		return
	case *id != "":
		order, err := client.NewGetOrdersQuery().GetByID(ctx, *id, *nested)
		if err != nil {
			cli.Fatal(err)
		}
		printOrders([]trading.Order{*order})
		return
	case *clientID != "":
		order, err := client.GetByClientOrderID(ctx, *clientID)
		if err != nil {
			cli.Fatal(err)
		}
		printOrders([]trading.Order{*order})
		return
	}

	q := client.NewGetOrdersQuery().Status(*status)
	if *limit > 0 {
		q.Limit(*limit)
	}
	if *after != "" {
		q.After(*after)
	}
	if *until != "" {
		q.Until(*until)
	}
	if *direction != "" {
		q.Direction(*direction)
	}
	if *nested {
		q.Nested(true)
	}
	if *symbols != "" {
		q.Symbols(strings.Split(*symbols, ",")...)
	}
	if *side != "" {
		s, err := trading.ParseOrderSide(*side)
		if err != nil {
			cli.Fatal(err)
		}
		q.Side(s)
	}

	orders, err := q.Send(ctx)
	if err != nil {
		cli.Fatal(err)
	}
	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("%d %s orders (%s)", len(orders), *status, env.Config.Environment)))
	printOrders(orders)
}

func printOrders(orders []trading.Order) {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.ID, cli.Time(o.SubmittedAt), o.Symbol, o.Side.String(), o.Type, o.Status,
			cli.Dec(o.Qty), cli.Dec(o.FilledQty), cli.Dec(o.FilledAvgPrice), cli.Dec(o.LimitPrice),
		})
	}
	fmt.Println(cli.Table(
		[]string{"id", "submitted", "symbol", "side", "type", "status", "qty", "filled", "avg price", "limit"},
		rows,
	))
}
