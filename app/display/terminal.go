package display

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/Semior001/articleview/app/store"
	"github.com/mattn/go-runewidth"
)

// Terminal renders the article list as plain text.
type Terminal struct {
	mu    sync.Mutex
	w     io.Writer
	width int
}

// NewTerminal makes a terminal renderer that fits lines into width columns.
func NewTerminal(w io.Writer, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{w: w, width: width}
}

// Refresh renders the whole list.
func (t *Terminal) Refresh(_ context.Context, v View) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	sb := &strings.Builder{}

	n := v.Count()
	if n == 0 {
		sb.WriteString("no articles\n")
	}

	for i := 0; i < n; i++ {
		t.item(sb, i, v.At(i))
	}

	if _, err := io.WriteString(t.w, sb.String()); err != nil {
		return fmt.Errorf("write list: %w", err)
	}

	return nil
}

func (t *Terminal) item(sb *strings.Builder, idx int, a store.Article) {
	prefix := fmt.Sprintf("%3d. ", idx+1)
	indent := strings.Repeat(" ", runewidth.StringWidth(prefix))
	textWidth := t.width - runewidth.StringWidth(prefix)

	headline := store.Value(a.Headline)
	if headline == "" {
		headline = "(no headline)"
	}
	sb.WriteString(prefix + runewidth.Truncate(headline, textWidth, "…") + "\n")

	meta := present(
		store.Value(a.Byline),
		store.Value(a.PubDate),
		store.Value(a.SectionName),
		store.Value(a.NewsDesk),
	)
	if len(meta) > 0 {
		sb.WriteString(indent + runewidth.Truncate(strings.Join(meta, " · "), textWidth, "…") + "\n")
	}

	if snippet := store.Value(a.Snippet); snippet != "" {
		for _, line := range strings.Split(runewidth.Wrap(snippet, textWidth), "\n") {
			sb.WriteString(indent + line + "\n")
		}
	}

	if a.LargeImageURL != nil {
		sb.WriteString(indent + *a.LargeImageURL + "\n")
	}

	sb.WriteString("\n")
}
