// Package feed talks to the arXiv export API and abstract pages. It returns
// candidate papers for a date window; everything downstream of it treats the
// records as immutable apart from enrichment fields.
package feed

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/paperfeed/internal/digest"
	"github.com/hyperifyio/paperfeed/internal/fetch"
)

const apiBaseURL = "https://export.arxiv.org/api/query"

// Client fetches recent submissions from the arXiv Atom API.
type Client struct {
	Fetcher *fetch.Client
	// BaseURL overrides the arXiv API endpoint (tests).
	BaseURL string
	// AbsBaseURL overrides the abstract-page prefix used by Affiliations
	// (tests).
	AbsBaseURL string
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	ID        string       `xml:"id"`
	Title     string       `xml:"title"`
	Summary   string       `xml:"summary"`
	Published string       `xml:"published"`
	Comment   string       `xml:"comment"`
	Authors   []atomAuthor `xml:"author"`
}

type atomAuthor struct {
	Name string `xml:"name"`
}

// Fetch returns papers submitted within [start, end] in the given
// categories, newest first as the API delivers them. The API's date sorting
// is approximate, so the window is re-checked here on the parsed
// published timestamp rather than trusted.
func (c *Client) Fetch(ctx context.Context, start, end time.Time, categories []string, maxResults int) ([]digest.Paper, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories configured")
	}
	if maxResults <= 0 {
		maxResults = 200
	}

	terms := make([]string, 0, len(categories))
	for _, cat := range categories {
		terms = append(terms, "cat:"+cat)
	}
	q := url.Values{}
	q.Set("search_query", strings.Join(terms, " OR "))
	q.Set("sortBy", "submittedDate")
	q.Set("sortOrder", "descending")
	q.Set("max_results", fmt.Sprintf("%d", maxResults))

	base := c.BaseURL
	if base == "" {
		base = apiBaseURL
	}
	body, err := c.Fetcher.Get(ctx, base+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("query feed: %w", err)
	}

	var parsed atomFeed
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	papers := make([]digest.Paper, 0, len(parsed.Entries))
	for _, e := range parsed.Entries {
		published, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Published))
		if err != nil {
			log.Warn().Str("id", e.ID).Msg("entry without parseable date; skipping")
			continue
		}
		if published.Before(start) || published.After(end) {
			continue
		}
		id := e.ID[strings.LastIndex(e.ID, "/")+1:]
		papers = append(papers, digest.Paper{
			ID:        id,
			Title:     collapse(e.Title),
			Abstract:  collapse(e.Summary),
			Comment:   collapse(e.Comment),
			Authors:   authorNames(e.Authors),
			URL:       strings.TrimSpace(e.ID),
			Published: published.Format("2006-01-02"),
		})
	}
	log.Info().Int("count", len(papers)).Msg("fetched raw papers")
	return papers, nil
}

// PDFURL derives the document location from a paper's canonical record URL.
func PDFURL(p digest.Paper) string {
	return strings.Replace(p.URL, "/abs/", "/pdf/", 1) + ".pdf"
}

func authorNames(in []atomAuthor) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		if name := strings.TrimSpace(a.Name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// collapse flattens the newline-wrapped text the Atom feed delivers into a
// single line.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
