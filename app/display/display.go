// Package display contains list renderers of the article records.
// Every renderer re-renders the whole list on change, there is no diffing.
package display

import (
	"github.com/Semior001/articleview/app/store"
	"github.com/samber/lo"
)

// View is an ordered read-only view of the articles.
type View interface {
	Count() int
	At(i int) store.Article
}

func present(ss ...string) []string {
	return lo.Filter(ss, func(s string, _ int) bool { return s != "" })
}
