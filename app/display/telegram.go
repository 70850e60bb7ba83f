package display

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"

	"github.com/Semior001/articleview/app/store"
	cache "github.com/go-pkgz/expirable-cache/v2"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/mattn/go-runewidth"
	"golang.org/x/exp/slog"
)

// Sender sends messages to telegram chats.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram pushes list items to telegram chats. Since chats can't be
// re-rendered, items that were already delivered to a chat are skipped.
type Telegram struct {
	log     *slog.Logger
	api     Sender
	chatIDs []int64

	mu   sync.Mutex
	sent cache.Cache[string, struct{}]
}

// NewTelegram makes a new telegram renderer, cacheSize limits the number
// of remembered deliveries.
func NewTelegram(lg *slog.Logger, api Sender, chatIDs []int64, cacheSize int) *Telegram {
	return &Telegram{
		log:     lg,
		api:     api,
		chatIDs: chatIDs,
		sent: cache.NewCache[string, struct{}]().
			WithLRU().
			WithMaxKeys(cacheSize),
	}
}

// CacheStat returns stats of the deliveries cache.
func (t *Telegram) CacheStat() cache.Stats { return t.sent.Stat() }

// Refresh delivers all not yet delivered items to every chat.
func (t *Telegram) Refresh(ctx context.Context, v View) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	failed := 0
	for i := 0; i < v.Count(); i++ {
		a := v.At(i)

		text, err := renderArticle(a)
		if err != nil {
			return fmt.Errorf("render article %d: %w", i, err)
		}

		for _, chatID := range t.chatIDs {
			// records are append-only, so the index identifies the item
			key := fmt.Sprintf("%d:%d", chatID, i)
			if _, ok := t.sent.Get(key); ok {
				continue
			}

			if err = t.send(ctx, chatID, a, text); err != nil {
				t.log.WarnCtx(ctx, "failed to send article",
					slog.Int64("chat_id", chatID),
					slog.Int("index", i),
					slog.Any("err", err),
				)
				failed++
				continue
			}

			t.sent.Set(key, struct{}{}, 0)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d deliveries failed", failed)
	}

	return nil
}

func (t *Telegram) send(ctx context.Context, chatID int64, a store.Article, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg tgbotapi.Chattable
	if a.LargeImageURL != nil && utf8.RuneCountInString(text) <= maxCaptionLen {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileURL(*a.LargeImageURL))
		photo.Caption = text
		photo.ParseMode = tgbotapi.ModeMarkdown
		msg = photo
	} else {
		m := tgbotapi.NewMessage(chatID, text)
		m.ParseMode = tgbotapi.ModeMarkdown
		// the link preview stands for the image that didn't fit into a caption
		m.DisableWebPagePreview = a.LargeImageURL == nil
		msg = m
	}

	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

const (
	maxCaptionLen    = 1024 // in characters, longer captions go as text messages
	maxHeadlineWidth = 300
	maxMetaWidth     = 200
	maxAbstractWidth = 600
)

var articleMessageTmpl = template.Must(template.New("articleMessage").Parse(
	`*{{.Headline}}*
{{- if .Meta}}
_{{.Meta}}_{{end}}
{{- if .Abstract}}

{{.Abstract}}{{end}}
{{- if .URL}}

[read more]({{.URL}}){{end}}`))

func renderArticle(a store.Article) (string, error) {
	headline := store.Value(a.Headline)
	if headline == "" {
		headline = "(no headline)"
	}

	meta := strings.Join(present(store.Value(a.Byline), store.Value(a.SectionName)), ", ")

	abstract := store.Value(a.Abstract)
	if abstract == "" {
		abstract = store.Value(a.Snippet)
	}

	sb := &strings.Builder{}
	err := articleMessageTmpl.Execute(sb, struct {
		Headline, Meta, Abstract, URL string
	}{
		Headline: escapeMarkdown(runewidth.Truncate(headline, maxHeadlineWidth, "…")),
		Meta:     escapeMarkdown(runewidth.Truncate(meta, maxMetaWidth, "…")),
		Abstract: escapeMarkdown(runewidth.Truncate(abstract, maxAbstractWidth, "…")),
		URL:      store.Value(a.WebURL),
	})
	if err != nil {
		return "", fmt.Errorf("execute article message template: %w", err)
	}

	return sb.String(), nil
}

var mdEscaper = strings.NewReplacer(
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	"[", "\\[",
)

func escapeMarkdown(s string) string {
	return mdEscaper.Replace(s)
}
