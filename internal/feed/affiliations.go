package feed

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Affiliations scrapes the paper's abstract page for the full author string
// including affiliations, e.g. "Jane Doe (Example Lab), John Roe (Example
// Lab)". The API omits affiliations, so this is the only place to get them.
// A miss returns an empty string; callers fall back to the plain author
// names from the feed.
func (c *Client) Affiliations(ctx context.Context, id string) (string, error) {
	base := c.AbsBaseURL
	if base == "" {
		base = "https://arxiv.org/abs/"
	}
	body, err := c.Fetcher.Get(ctx, base+id)
	if err != nil {
		return "", fmt.Errorf("fetch abstract page: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse abstract page: %w", err)
	}
	sel := doc.Find("div.authors").First()
	if sel.Length() == 0 {
		return "", nil
	}
	text := strings.TrimSpace(sel.Text())
	text = strings.TrimPrefix(text, "Authors:")
	return strings.TrimSpace(text), nil
}
