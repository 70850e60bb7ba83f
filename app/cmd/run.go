// Package cmd contains commands for the application.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Semior001/articleview/app/display"
	"github.com/Semior001/articleview/app/search"
	"github.com/Semior001/articleview/app/store"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/exp/slog"
	"golang.org/x/sync/errgroup"
)

// Run is a command to fetch the articles once and show them.
type Run struct {
	Search struct {
		Endpoint    string        `long:"endpoint" env:"ENDPOINT" default:"https://api.nytimes.com/svc/search/v2/articlesearch.json" description:"article search endpoint"`
		APIKey      string        `long:"api-key" env:"API_KEY" required:"true" description:"article search api key"`
		Timeout     time.Duration `long:"timeout" env:"TIMEOUT" default:"30s" description:"timeout for search request"`
		ImagePrefix string        `long:"image-prefix" env:"IMAGE_PREFIX" default:"https://www.nytimes.com/" description:"prefix for relative image urls"`
	} `group:"search" namespace:"search" env-namespace:"SEARCH"`

	Terminal struct {
		Disabled bool `long:"disabled" env:"DISABLED" description:"do not print articles to stdout"`
		Width    int  `long:"width" env:"WIDTH" default:"100" description:"max width of a printed line"`
	} `group:"terminal" namespace:"terminal" env-namespace:"TERMINAL"`

	Telegram struct {
		Token     string  `long:"token" env:"TOKEN" description:"telegram token, articles are pushed to chats if set"`
		ChatIDs   []int64 `long:"chat-ids" env:"CHAT_IDS" env-delim:"," description:"chat ids to push articles to"`
		CacheSize int     `long:"cache-size" env:"CACHE_SIZE" default:"1000" description:"max number of remembered deliveries"`
	} `group:"telegram" namespace:"telegram" env-namespace:"TELEGRAM"`
}

type renderer struct {
	name      string
	refresher interface {
		Refresh(ctx context.Context, v display.View) error
	}
}

// Execute runs the command.
func (r Run) Execute(_ []string) error {
	lg := slog.Default()

	renderers, err := r.renderers(lg)
	if err != nil {
		return fmt.Errorf("make displays: %w", err)
	}

	recs := store.NewRecords()
	defer recs.Clear() // the list lives only as long as the command
	for _, rnd := range renderers {
		rnd := rnd
		recs.Subscribe(func(ctx context.Context, from, to int) {
			lg.DebugCtx(ctx, "articles appended",
				slog.String("display", rnd.name), slog.Int("from", from), slog.Int("to", to))

			if err := rnd.refresher.Refresh(ctx, recs); err != nil {
				lg.WarnCtx(ctx, "failed to refresh display",
					slog.String("display", rnd.name), slog.Any("err", err))
			}
		})
	}

	schema := search.DefaultSchema()
	schema.ImagePrefix = r.Search.ImagePrefix

	loader := search.NewLoader(
		lg.With(slog.String("prefix", "loader")),
		search.NewClient(lg.With(slog.String("prefix", "search")), search.ClientOpts{
			Endpoint: r.Search.Endpoint,
			APIKey:   r.Search.APIKey,
			Timeout:  r.Search.Timeout,
		}),
		search.NewParser(schema),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	ewg, ctx := errgroup.WithContext(ctx)
	ewg.Go(func() error {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sig)

		select {
		case sig := <-sig:
			lg.Warn("caught signal, stopping", slog.String("signal", sig.String()))
			stop()
			return ctx.Err()
		case <-ctx.Done():
			return nil
		}
	})
	ewg.Go(func() error {
		defer stop()

		if err := loader.Load(ctx, recs); err != nil {
			return fmt.Errorf("load articles: %w", err)
		}

		lg.InfoCtx(ctx, "articles loaded", slog.Int("count", recs.Count()))
		return nil
	})

	if err := ewg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	return nil
}

func (r Run) renderers(lg *slog.Logger) ([]renderer, error) {
	var res []renderer

	if !r.Terminal.Disabled {
		res = append(res, renderer{name: "terminal", refresher: display.NewTerminal(os.Stdout, r.Terminal.Width)})
	}

	if r.Telegram.Token == "" {
		return res, nil
	}

	api, err := tgbotapi.NewBotAPI(r.Telegram.Token)
	if err != nil {
		return nil, fmt.Errorf("make telegram api: %w", err)
	}

	stdlibLogger := slog.NewLogLogger(lg.Handler(), slog.LevelWarn)
	stdlibLogger.SetPrefix("telegram-bot-api: ")

	if err = tgbotapi.SetLogger(stdlibLogger); err != nil {
		return nil, fmt.Errorf("set telegram logger: %w", err)
	}

	res = append(res, renderer{name: "telegram", refresher: display.NewTelegram(
		lg.With(slog.String("prefix", "telegram")),
		api,
		r.Telegram.ChatIDs,
		r.Telegram.CacheSize,
	)})

	return res, nil
}
