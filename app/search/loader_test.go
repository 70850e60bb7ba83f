package search

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Semior001/articleview/app/store"
	"github.com/Semior001/articleview/pkg/logx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/slog"
)

func TestLoader_Start(t *testing.T) {
	fetcher := &FetcherMock{FetchFunc: func(ctx context.Context) ([]byte, error) {
		reqID, ok := logx.RequestIDFromContext(ctx)
		assert.True(t, ok)
		assert.NotEmpty(t, reqID)
		return articleSearchResponse, nil
	}}

	ch := NewLoader(slog.Default(), fetcher, NewParser(DefaultSchema())).Start(context.Background())

	res, ok := <-ch
	require.True(t, ok)
	require.NoError(t, res.Err)
	assert.Len(t, res.Articles, 3)

	_, ok = <-ch
	assert.False(t, ok, "channel must be closed after the single result")
	assert.Len(t, fetcher.FetchCalls(), 1)
}

func TestLoader_Load(t *testing.T) {
	fetcher := &FetcherMock{FetchFunc: func(context.Context) ([]byte, error) {
		return articleSearchResponse, nil
	}}

	recs := store.NewRecords()
	notified := 0
	recs.Subscribe(func(_ context.Context, from, to int) {
		notified++
		assert.Equal(t, 0, from)
		assert.Equal(t, 3, to)
	})

	err := NewLoader(slog.Default(), fetcher, NewParser(DefaultSchema())).Load(context.Background(), recs)
	require.NoError(t, err)

	expected, err := NewParser(DefaultSchema()).Parse(articleSearchResponse)
	require.NoError(t, err)
	require.Equal(t, len(expected), recs.Count())
	for i := range expected {
		assert.Equal(t, expected[i], recs.At(i))
	}
	assert.Equal(t, 1, notified)
}

func TestLoader_Load_Failures(t *testing.T) {
	tbl := []struct {
		name  string
		fetch func(context.Context) ([]byte, error)
		check func(t *testing.T, err error)
	}{
		{
			name: "transport failure",
			fetch: func(context.Context) ([]byte, error) {
				return nil, &TransportError{StatusCode: http.StatusUnauthorized, Err: errors.New("bad status code")}
			},
			check: func(t *testing.T, err error) {
				var terr *TransportError
				require.True(t, errors.As(err, &terr))
				assert.Equal(t, http.StatusUnauthorized, terr.StatusCode)
			},
		},
		{
			name: "parse error",
			fetch: func(context.Context) ([]byte, error) {
				return []byte(`{"response": {"docs": [`), nil
			},
			check: func(t *testing.T, err error) {
				var perr *ParseError
				require.True(t, errors.As(err, &perr))
			},
		},
		{
			name: "unknown error",
			fetch: func(context.Context) ([]byte, error) {
				return nil, context.Canceled
			},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, context.Canceled)
			},
		},
	}

	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			recs := store.NewRecords()
			recs.Subscribe(func(context.Context, int, int) {
				t.Fatal("subscribers must not be notified on failure")
			})

			err := NewLoader(slog.Default(), &FetcherMock{FetchFunc: tt.fetch}, NewParser(DefaultSchema())).
				Load(context.Background(), recs)
			require.Error(t, err)
			tt.check(t, err)
			assert.Zero(t, recs.Count())
		})
	}
}

func TestLoader_Load_Twice(t *testing.T) {
	fetcher := &FetcherMock{FetchFunc: func(context.Context) ([]byte, error) {
		return articleSearchResponse, nil
	}}
	l := NewLoader(slog.Default(), fetcher, NewParser(DefaultSchema()))

	recs := store.NewRecords()
	require.NoError(t, l.Load(context.Background(), recs))
	require.NoError(t, l.Load(context.Background(), recs))

	assert.Equal(t, 6, recs.Count())
	assert.Equal(t, recs.At(0), recs.At(3))
	assert.Len(t, fetcher.FetchCalls(), 2)
}
