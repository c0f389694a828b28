package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/betbot/alpaca/internal/cli"
	"github.com/betbot/alpaca/pkg/sdk/trading"
)

func main() {
	var (
		configPath    = flag.String("config", "", "config file (.yaml/.yml/.json)")
		envFile       = flag.String("env-file", ".env", "dotenv file")
		symbol        = flag.String("symbol", "", "symbol, e.g. AAPL")
		side          = flag.String("side", "buy", "buy or sell")
		orderType     = flag.String("type", "market", "market, limit, stop, stop_limit or trailing_stop")
		tif           = flag.String("tif", "day", "time in force: day, gtc, opg, cls, ioc, fok")
		qty           = flag.String("qty", "", "quantity")
		notional      = flag.String("notional", "", "dollar amount, instead of qty")
		limitPrice    = flag.String("limit", "", "limit price")
		stopPrice     = flag.String("stop", "", "stop price")
		trailPercent  = flag.String("trail-percent", "", "trailing stop percent")
		class         = flag.String("class", "", "simple, bracket, oco or oto")
		takeProfit    = flag.String("take-profit", "", "take profit limit price")
		stopLoss      = flag.String("stop-loss", "", "stop loss stop price")
		stopLossLimit = flag.String("stop-loss-limit", "", "stop loss limit price")
		extended      = flag.Bool("extended-hours", false, "allow extended hours execution")
		clientID      = flag.String("client-order-id", "", "client order id (random when empty)")
		dryRun        = flag.Bool("dry-run", false, "print the request body and exit")
	)
	flag.Parse()

	if *symbol == "" {
		cli.Fatal(errors.New("-symbol is required"))
	}

	env, err := cli.Setup(*configPath, *envFile)
	if err != nil {
		cli.Fatal(err)
	}

	orderSide, err := trading.ParseOrderSide(*side)
	if err != nil {
		cli.Fatal(err)
	}
	typ, err := trading.ParseOrderType(*orderType)
	if err != nil {
		cli.Fatal(err)
	}
	timeInForce, err := trading.ParseTimeInForce(*tif)
	if err != nil {
		cli.Fatal(err)
	}

	id := *clientID
	if id == "" {
		id = trading.NewClientOrderID()
	}

	q := env.Trading().NewCreateOrderQuery(*symbol, orderSide, typ).
		TimeInForce(timeInForce).
		ExtendedHours(*extended).
		ClientOrderID(id)

	for _, opt := range []struct {
		raw   string
		name  string
		apply func(decimal.Decimal)
	}{
		{*qty, "qty", func(d decimal.Decimal) { q.Qty(d) }},
		{*notional, "notional", func(d decimal.Decimal) { q.Notional(d) }},
		{*limitPrice, "limit", func(d decimal.Decimal) { q.LimitPrice(d) }},
		{*stopPrice, "stop", func(d decimal.Decimal) { q.StopPrice(d) }},
		{*trailPercent, "trail-percent", func(d decimal.Decimal) { q.TrailPercent(d) }},
		{*takeProfit, "take-profit", func(d decimal.Decimal) { q.TakeProfit(trading.NewTakeProfit(d)) }},
	} {
		if opt.raw == "" {
			continue
		}
		d, err := decimal.NewFromString(opt.raw)
		if err != nil {
			cli.Fatal(errors.Wrapf(err, "-%s", opt.name))
		}
		opt.apply(d)
	}

	if *stopLoss != "" {
		sl, err := parseStopLoss(*stopLoss, *stopLossLimit)
		if err != nil {
			cli.Fatal(err)
		}
		q.StopLoss(sl)
	}
	if *class != "" {
		c, err := trading.ParseOrderClass(*class)
		if err != nil {
			cli.Fatal(err)
		}
		q.OrderClass(c)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	asset, err := trading.NewAssetCache(env.Trading(), time.Hour).Get(ctx, *symbol)
	if err != nil {
		cli.Fatal(errors.Wrapf(err, "look up %s", *symbol))
	}
	if !asset.Tradable {
		cli.Fatal(errors.Errorf("%s is not tradable", asset.Symbol))
	}
	if *qty != "" && !asset.Fractionable {
		if d, err := decimal.NewFromString(*qty); err == nil && !d.IsInteger() {
			cli.Fatal(errors.Errorf("%s does not support fractional quantities", asset.Symbol))
		}
	}

	if *dryRun {
		body, err := json.MarshalIndent(q, "", "  ")
		if err != nil {
			cli.Fatal(err)
		}
		fmt.Println(string(body))
		return
	}

	order, err := q.Send(ctx)
	if err != nil {
		cli.Fatal(err)
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("order %s (%s)", order.Status, env.Config.Environment)))
	fmt.Println(cli.Table(
		[]string{"id", "client id", "symbol", "side", "type", "qty", "limit", "stop", "class"},
		[][]string{{
			order.ID, order.ClientOrderID, order.Symbol, order.Side.String(), order.Type,
			cli.Dec(order.Qty), cli.Dec(order.LimitPrice), cli.Dec(order.StopPrice), order.OrderClass,
		}},
	))
	for _, leg := range order.Legs {
		fmt.Println(cli.MutedStyle.Render(fmt.Sprintf("  leg %s %s %s limit=%s stop=%s",
			leg.ID, leg.Side, leg.Type, cli.Dec(leg.LimitPrice), cli.Dec(leg.StopPrice))))
	}
}

func parseStopLoss(stop, limit string) (*trading.StopLoss, error) {
	stopPrice, err := decimal.NewFromString(stop)
	if err != nil {
		return nil, errors.Wrap(err, "-stop-loss")
	}
	if limit == "" {
		return &trading.StopLoss{StopPrice: stopPrice}, nil
	}
	limitPrice, err := decimal.NewFromString(limit)
	if err != nil {
		return nil, errors.Wrap(err, "-stop-loss-limit")
	}
	return trading.NewStopLoss(stopPrice, limitPrice), nil
}
