package search

import (
	"fmt"
	"strings"

	"github.com/Semior001/articleview/app/store"
	"github.com/samber/lo"
	"github.com/tailscale/hujson"
	"github.com/tidwall/gjson"
)

// ParseError is returned when the response is not a valid JSON document.
type ParseError struct {
	Err error
}

// Error implements error.
func (e *ParseError) Error() string { return fmt.Sprintf("parse search response: %v", e.Err) }

// Unwrap returns the underlying decoder error.
func (e *ParseError) Unwrap() error { return e.Err }

// Parser extracts articles from the search response.
type Parser struct {
	schema Schema
}

// NewParser makes a parser for the given schema.
func NewParser(schema Schema) Parser {
	return Parser{schema: schema}
}

// Parse decodes the response and returns one article per result document,
// in the order of documents. Comments and trailing commas are tolerated.
// Missing or wrong-typed fields are left absent, a missing documents array
// yields no articles. Only a syntax error in the whole document is
// reported, as *ParseError.
func (p Parser) Parse(raw []byte) ([]store.Article, error) {
	// Standardize rewrites the buffer in place
	std, err := hujson.Standardize(append([]byte(nil), raw...))
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	docs := get(gjson.ParseBytes(std), p.schema.Docs)
	if !docs.IsArray() {
		return []store.Article{}, nil
	}

	elems := docs.Array()
	articles := make([]store.Article, 0, len(elems))
	for _, doc := range elems {
		articles = append(articles, p.article(doc))
	}

	return articles, nil
}

func (p Parser) article(doc gjson.Result) store.Article {
	if !doc.IsObject() {
		return store.Article{}
	}

	return store.Article{
		Headline:      str(doc, p.schema.Headline),
		Abstract:      str(doc, p.schema.Abstract),
		Byline:        str(doc, p.schema.Byline),
		PubDate:       str(doc, p.schema.PubDate),
		NewsDesk:      str(doc, p.schema.NewsDesk),
		SectionName:   str(doc, p.schema.SectionName),
		Snippet:       str(doc, p.schema.Snippet),
		LeadParagraph: str(doc, p.schema.LeadParagraph),
		WebURL:        str(doc, p.schema.WebURL),
		SmallImageURL: p.imageURL(doc),
		LargeImageURL: p.imageURL(doc),
	}
}

func (p Parser) imageURL(doc gjson.Result) *string {
	media := get(doc, p.schema.Multimedia)
	if !media.IsArray() {
		return nil
	}

	variant, found := lo.Find(media.Array(), func(m gjson.Result) bool {
		subtype := get(m, "subtype")
		return subtype.Type == gjson.String && subtype.Str == p.schema.ImageSubtype
	})
	if !found {
		return nil
	}

	u := str(variant, "url")
	if u == nil {
		return nil
	}

	return lo.ToPtr(p.schema.ImagePrefix + *u)
}

// str returns the decoded string at path, anything but a JSON string
// is treated as absent.
func str(node gjson.Result, path string) *string {
	if path == "" {
		return nil
	}

	v := get(node, path)
	if v.Type != gjson.String {
		return nil
	}

	return lo.ToPtr(v.Str)
}

// get walks the dot-separated path of object keys. When an object repeats
// a key, the last occurrence wins.
func get(node gjson.Result, path string) gjson.Result {
	for _, key := range strings.Split(path, ".") {
		if !node.IsObject() {
			return gjson.Result{}
		}

		var next gjson.Result
		node.ForEach(func(k, v gjson.Result) bool {
			if k.Str == key {
				next = v
			}
			return true
		})
		node = next
	}

	return node
}
