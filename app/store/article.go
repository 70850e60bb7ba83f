// Package store contains the article record and the ordered collection
// that backs the visible list.
package store

// Article is a flat display record extracted from a single search result
// document. Every field is optional, nil means the field was absent in the
// source document. Article is never mutated after construction.
type Article struct {
	Headline      *string `json:"headline,omitempty"`
	Abstract      *string `json:"abstract,omitempty"`
	Byline        *string `json:"byline,omitempty"`
	PubDate       *string `json:"pub_date,omitempty"`
	NewsDesk      *string `json:"news_desk,omitempty"`
	SectionName   *string `json:"section_name,omitempty"`
	Snippet       *string `json:"snippet,omitempty"`
	LeadParagraph *string `json:"lead_paragraph,omitempty"`
	SmallImageURL *string `json:"small_image_url,omitempty"`
	LargeImageURL *string `json:"large_image_url,omitempty"`
	WebURL        *string `json:"web_url,omitempty"`
}

// Value dereferences an optional field, empty string is returned for
// absent ones.
func Value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
