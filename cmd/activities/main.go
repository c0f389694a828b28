package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"

	"github.com/betbot/alpaca/internal/cli"
	"github.com/betbot/alpaca/internal/journal"
	"github.com/betbot/alpaca/pkg/logger"
	"github.com/betbot/alpaca/pkg/sdk/trading"
)

func main() {
	var (
		configPath  = flag.String("config", "", "config file (.yaml/.yml/.json)")
		envFile     = flag.String("env-file", ".env", "dotenv file")
		types       = flag.String("types", trading.ActivityFill, "comma separated activity types")
		category    = flag.String("category", "", "trade_activity or non_trade_activity")
		date        = flag.String("date", "", "single day, YYYY-MM-DD")
		after       = flag.String("after", "", "only activities after this time")
		until       = flag.String("until", "", "only activities until this time")
		direction   = flag.String("direction", "desc", "asc or desc")
		pageSize    = flag.Int("page-size", 0, "records per page (config default when 0)")
		limit       = flag.Int("limit", 0, "stop after this many records (config default when 0)")
		journalPath = flag.String("journal", "", "sqlite journal to record activities in")
		sinceLast   = flag.Bool("since-last", false, "fetch only after the newest journaled activity")
		fromJournal = flag.Bool("from-journal", false, "print the newest journaled activities instead of fetching")
		quiet       = flag.Bool("quiet", false, "do not print the table")
	)
	flag.Parse()

	if *fromJournal && *journalPath == "" {
		cli.Fatal(errors.New("-from-journal needs -journal"))
	}

	env, err := cli.Setup(*configPath, *envFile)
	if err != nil {
		cli.Fatal(err)
	}
	log := logger.Component("activities")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var j *journal.Journal
	if *journalPath != "" {
		j, err = journal.Open(ctx, *journalPath)
		if err != nil {
			cli.Fatal(err)
		}
		defer j.Close()
	}

	if *fromJournal {
		activities, err := j.List(ctx, firstPositive(*limit, env.Config.PageSize))
		if err != nil {
			cli.Fatal(err)
		}
		printActivities(fmt.Sprintf("%d journaled activities (%s)", len(activities), *journalPath), activities)
		return
	}

	q := env.Trading().NewActivitiesQuery().
		Direction(*direction).
		PageSize(firstPositive(*pageSize, env.Config.PageSize)).
		Limit(firstPositive(*limit, env.Config.MaxTotal))
	if *types != "" {
		q.ActivityTypes(strings.Split(*types, ",")...)
	}
	if *category != "" {
		q.Category(*category)
	}
	if *date != "" {
		q.Date(*date)
	}
	if *until != "" {
		q.Until(*until)
	}

	switch {
	case *after != "":
		q.After(*after)
	case *sinceLast && j != nil:
		latest, ok, err := j.LatestTransactionTime(ctx)
		if err != nil {
			cli.Fatal(err)
		}
		if ok {
			q.After(latest.Format(time.RFC3339Nano))
			log.WithField("after", latest).Info("resuming from journal")
		}
	}

	started := time.Now()
	activities, err := q.Send(ctx)
	if err != nil {
		cli.Fatal(err)
	}
	log.WithField("count", len(activities)).WithField("elapsed", time.Since(started)).Info("fetched activities")

	if j != nil {
		added, err := j.Upsert(ctx, activities)
		if err != nil {
			cli.Fatal(err)
		}
		total, err := j.Count(ctx)
		if err != nil {
			cli.Fatal(err)
		}
		fmt.Println(cli.MutedStyle.Render(fmt.Sprintf("journal %s: %d new, %d total", *journalPath, added, total)))
	}

	if *quiet {
		return
	}
	printActivities(fmt.Sprintf("%d activities (%s)", len(activities), env.Config.Environment), activities)
}

func printActivities(title string, activities []trading.TradeActivity) {
	rows := make([][]string, 0, len(activities))
	for _, a := range activities {
		when := cli.Time(a.TransactionTime)
		if a.TransactionTime == nil {
			when = cli.Str(a.Date)
		}
		rows = append(rows, []string{
			when, a.ActivityType, a.Symbol, a.Side, cli.Dec(a.Qty), cli.Dec(a.Price), cli.Dec(a.NetAmount), a.ID,
		})
	}
	fmt.Println(cli.TitleStyle.Render(title))
	fmt.Println(cli.Table([]string{"time", "type", "symbol", "side", "qty", "price", "amount", "id"}, rows))
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}
