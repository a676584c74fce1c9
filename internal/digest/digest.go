// Package digest holds the shared record types the pipeline enriches and
// persists. The JSON tags are load-bearing: the run cache serializes these
// structs verbatim, so renames here invalidate previously written caches.
package digest

// Paper is one discovered submission. The first block of fields comes from
// the feed and never changes after fetch; the remaining fields are filled in
// incrementally by the enrichment stages and stay empty when a stage skipped
// or failed for this paper.
type Paper struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Abstract  string   `json:"abstract"`
	Comment   string   `json:"comment,omitempty"`
	Authors   []string `json:"authors,omitempty"`
	URL       string   `json:"url"`
	Published string   `json:"published"`

	Summary     string   `json:"ai_summary,omitempty"`
	StarRating  string   `json:"star_rating,omitempty"`
	ProjectURL  string   `json:"project_url,omitempty"`
	AuthorsFull string   `json:"authors_full,omitempty"`
	LocalPDF    string   `json:"local_pdf,omitempty"`
	Preview     string   `json:"pdf_preview,omitempty"`
	Figures     []string `json:"figures,omitempty"`
	Tweets      []Tweet  `json:"tweets,omitempty"`
}

// Ranked reports whether the selection stage enriched this paper. Papers
// passed through by the selector's fallback path carry neither a summary nor
// a rating, which is how downstream stages and the template detect them.
func (p Paper) Ranked() bool {
	return p.Summary != "" && p.StarRating != ""
}

// Tweet is one discussion snippet attached by the social stage. Immutable
// once fetched; the social client filters and sorts before attaching.
type Tweet struct {
	Text         string `json:"text"`
	AuthorName   string `json:"author_name"`
	AuthorHandle string `json:"author_handle"`
	Likes        int    `json:"likes"`
	Retweets     int    `json:"retweets"`
	URL          string `json:"url"`
}
