package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/Semior001/articleview/app/store"
	"github.com/Semior001/articleview/pkg/logx"
	"github.com/google/uuid"
	"golang.org/x/exp/slog"
)

//go:generate moq -out mock_fetcher.go . Fetcher

// Fetcher returns the raw search response.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// Result is the single completion event of a load.
// Either Articles or Err is set.
type Result struct {
	Articles []store.Article
	Err      error
}

// Loader fetches the search response once and parses it.
type Loader struct {
	log     *slog.Logger
	fetcher Fetcher
	parser  Parser
}

// NewLoader makes a new Loader.
func NewLoader(lg *slog.Logger, fetcher Fetcher, parser Parser) *Loader {
	return &Loader{log: lg, fetcher: fetcher, parser: parser}
}

// Start runs a single fetch in background. The returned channel receives
// exactly one result and is closed right after.
func (l *Loader) Start(ctx context.Context) <-chan Result {
	ctx = logx.ContextWithRequestID(ctx, uuid.New().String())

	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		ch <- l.run(ctx)
	}()

	return ch
}

func (l *Loader) run(ctx context.Context) Result {
	l.log.DebugCtx(ctx, "fetching articles")

	body, err := l.fetcher.Fetch(ctx)
	if err != nil {
		return Result{Err: fmt.Errorf("fetch articles: %w", err)}
	}

	articles, err := l.parser.Parse(body)
	if err != nil {
		return Result{Err: err}
	}

	l.log.DebugCtx(ctx, "successfully fetched articles", slog.Int("count", len(articles)))
	return Result{Articles: articles}
}

// Load fetches articles and appends them to recs as a single batch.
// Failures are logged and returned, nothing is appended in that case.
func (l *Loader) Load(ctx context.Context, recs *store.Records) error {
	res := <-l.Start(ctx)

	var terr *TransportError
	var perr *ParseError
	switch {
	case errors.As(res.Err, &terr):
		l.log.ErrorCtx(ctx, "failed to fetch articles",
			slog.Int("status_code", terr.StatusCode), slog.Any("err", res.Err))
		return res.Err
	case errors.As(res.Err, &perr):
		l.log.ErrorCtx(ctx, "failed to parse articles", slog.Any("err", res.Err))
		return res.Err
	case res.Err != nil:
		l.log.ErrorCtx(ctx, "failed to load articles", slog.Any("err", res.Err))
		return res.Err
	}

	recs.Append(ctx, res.Articles...)
	return nil
}
