package display

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Semior001/articleview/app/store"
	"github.com/mattn/go-runewidth"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_Refresh(t *testing.T) {
	recs := store.NewRecords()
	recs.Append(context.Background(),
		store.Article{
			Headline:      lo.ToPtr("Fed Holds Rates Steady"),
			Byline:        lo.ToPtr("By Jeanna Smialek"),
			PubDate:       lo.ToPtr("2024-03-20"),
			Snippet:       lo.ToPtr("Officials signaled cuts."),
			LargeImageURL: lo.ToPtr("https://www.nytimes.com/images/x.jpg"),
		},
		store.Article{},
	)

	buf := &bytes.Buffer{}
	require.NoError(t, NewTerminal(buf, 80).Refresh(context.Background(), recs))

	assert.Equal(t, ""+
		"  1. Fed Holds Rates Steady\n"+
		"     By Jeanna Smialek · 2024-03-20\n"+
		"     Officials signaled cuts.\n"+
		"     https://www.nytimes.com/images/x.jpg\n"+
		"\n"+
		"  2. (no headline)\n"+
		"\n", buf.String())
}

func TestTerminal_Refresh_Empty(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, NewTerminal(buf, 80).Refresh(context.Background(), store.NewRecords()))
	assert.Equal(t, "no articles\n", buf.String())
}

func TestTerminal_Refresh_FitsWidth(t *testing.T) {
	recs := store.NewRecords()
	recs.Append(context.Background(), store.Article{
		Headline: lo.ToPtr("A very long headline that certainly does not fit into the terminal"),
		Snippet: lo.ToPtr("The snippet is long as well and must be wrapped " +
			"into several lines so that none of them exceeds the width"),
	})

	buf := &bytes.Buffer{}
	require.NoError(t, NewTerminal(buf, 30).Refresh(context.Background(), recs))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Greater(t, len(lines), 3)
	for _, line := range lines {
		assert.LessOrEqual(t, runewidth.StringWidth(line), 30, line)
	}
	assert.True(t, strings.HasPrefix(lines[0], "  1. A very long"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestTerminal_Refresh_WriteError(t *testing.T) {
	err := NewTerminal(failingWriter{}, 80).Refresh(context.Background(), store.NewRecords())
	assert.Error(t, err)
}
