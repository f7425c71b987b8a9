package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"calendarApp/internal/client"
	"calendarApp/internal/logger"
	"calendarApp/internal/models/event"
	"calendarApp/internal/worker"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultInterval = 30 * time.Second

type flagConfig struct {
	apiURL   string
	prefix   string
	days     int
	watch    bool
	interval time.Duration
	debug    bool
}

func main() {
	flags := parseFlags()

	if flags.debug {
		if err := logger.Init(true); err != nil {
			fmt.Fprintf(os.Stderr, "инициализация логгера: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api := client.New(flags.apiURL, client.WithPrefix(flags.prefix))
	store := client.NewStore(api)

	today := event.DayOf(time.Now())
	rng := &event.Range{From: today, To: today.AddDate(0, 0, flags.days-1)}

	if err := printAgenda(ctx, store, rng); err != nil {
		fmt.Fprintf(os.Stderr, "agenda: %v\n", err)
		os.Exit(1)
	}
	if !flags.watch {
		return
	}

	store.Subscribe(func(s client.State) {
		fmt.Printf("-- connection %s --\n", s)
	})

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		worker.NewConnectivityWorker(api, store, &flags.interval).Start(gCtx)
		return nil
	})
	g.Go(func() error {
		ticker := time.NewTicker(flags.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := printAgenda(gCtx, store, rng); err != nil {
					logger.Warn("Agenda: Ошибка обновления", zap.Error(err))
				}
			case <-gCtx.Done():
				return nil
			}
		}
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "agenda: %v\n", err)
		os.Exit(1)
	}
}

func printAgenda(ctx context.Context, store *client.Store, rng *event.Range) error {
	result, err := store.Events(ctx, rng)
	if err != nil {
		return err
	}

	header := fmt.Sprintf("%s .. %s", rng.From.Format("2006-01-02"), rng.To.Format("2006-01-02"))
	if result.Offline {
		header += " (offline, cached)"
	}
	fmt.Println(header)

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, e := range result.Data {
		fmt.Fprintf(tw, "%s\t%s-%s\t%s\t%s\n",
			e.Date.Format("Mon 02 Jan"),
			e.StartTime.Format("15:04"),
			e.EndTime.Format("15:04"),
			e.Category,
			e.Title)
	}
	if len(result.Data) == 0 {
		fmt.Fprintln(tw, "no events")
	}
	return tw.Flush()
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.apiURL, "api", "http://localhost:5000", "Calendar API base URL")
	flag.StringVar(&cfg.prefix, "prefix", client.DefaultPrefix, "API route prefix")
	flag.IntVar(&cfg.days, "days", 7, "Number of days to show, starting today")
	flag.BoolVar(&cfg.watch, "watch", false, "Keep refreshing and report connectivity changes")
	flag.DurationVar(&cfg.interval, "interval", defaultInterval, "Refresh and connectivity check interval in watch mode")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable development logging")

	flag.Parse()

	return cfg.normalized()
}

// normalized time.NewTicker паникует на интервале <= 0
func (c flagConfig) normalized() flagConfig {
	if c.days < 1 {
		c.days = 1
	}
	if c.interval <= 0 {
		c.interval = defaultInterval
	}
	return c
}
