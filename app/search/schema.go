// Package search fetches article search results and turns the response
// document into display records.
package search

// Schema describes where every article field lives inside the search
// response. Paths are dot-separated object keys.
type Schema struct {
	// Docs is the path of the result documents array from the document root.
	Docs string

	// the rest of paths are relative to a single result document
	Headline      string
	Abstract      string
	Byline        string
	PubDate       string
	NewsDesk      string
	SectionName   string
	Snippet       string
	LeadParagraph string
	WebURL        string

	// Multimedia is the array of image variants, the first one with
	// ImageSubtype is used for both image fields.
	Multimedia   string
	ImageSubtype string
	ImagePrefix  string
}

// DefaultSchema returns the schema of the article search API.
func DefaultSchema() Schema {
	return Schema{
		Docs:          "response.docs",
		Headline:      "headline.main",
		Abstract:      "abstract",
		Byline:        "byline.original",
		PubDate:       "pub_date",
		NewsDesk:      "news_desk",
		SectionName:   "section_name",
		Snippet:       "snippet",
		LeadParagraph: "lead_paragraph",
		WebURL:        "web_url",
		Multimedia:    "multimedia",
		ImageSubtype:  "xlarge",
		ImagePrefix:   "https://www.nytimes.com/",
	}
}
