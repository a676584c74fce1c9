// Package links implements the project-URL heuristic: given free text from
// an abstract or submission comment, find the one external link worth
// embedding in a digest, if any.
package links

import (
	"regexp"
	"strings"

	"github.com/hyperifyio/paperfeed/internal/digest"
)

// urlPattern captures http/https URLs as they appear in abstracts. Percent
// escapes are allowed in the host part because arXiv abstracts occasionally
// carry them verbatim.
var urlPattern = regexp.MustCompile(`https?://(?:[-\w.]|%[0-9a-fA-F]{2})+[/\w.-]*(?:\?[\w=&%.-]*)?`)

// excluded lists substrings that disqualify a URL when present in its host
// or path, compared case-insensitively. Academic and metadata links point
// back at the paper's own record rather than at a project, and github.com
// repository pages refuse to render inside an iframe. github.io project
// pages are deliberately not on this list.
var excluded = []string{
	"arxiv.org",
	"doi.org",
	"creativecommons.org",
	"license",
	"overleaf.com",
	"github.com",
}

// Extract returns the first URL in text that survives the exclusion list,
// with video links rewritten to their embeddable form. The scan is strictly
// first-occurrence order: the first surviving URL wins even if a later one
// looks better. Reordering the checks changes output and is a behavior
// change, not a cleanup.
func Extract(text string) (string, bool) {
	if text == "" {
		return "", false
	}
	for _, raw := range urlPattern.FindAllString(text, -1) {
		url := strings.TrimRight(raw, ".")
		lower := strings.ToLower(url)

		if containsAny(lower, excluded) {
			continue
		}
		if id, ok := videoID(url); ok {
			return "https://www.youtube.com/embed/" + id, true
		}
		return url, true
	}
	return "", false
}

// HasProjectLink reports whether the paper carries an embeddable link in its
// abstract or comment. Used as a cheap pre-filter before any model call.
func HasProjectLink(p digest.Paper) bool {
	if _, ok := Extract(p.Abstract); ok {
		return true
	}
	_, ok := Extract(p.Comment)
	return ok
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// videoID recognizes the two YouTube URL shapes that show up in paper
// comments and pulls out the video identifier: the watch form carries it in
// the v query parameter, the short form in the last path segment.
func videoID(url string) (string, bool) {
	if strings.Contains(url, "youtube.com/watch") {
		i := strings.LastIndex(url, "v=")
		if i < 0 {
			return "", false
		}
		id := url[i+2:]
		if j := strings.IndexByte(id, '&'); j >= 0 {
			id = id[:j]
		}
		return id, id != ""
	}
	if strings.Contains(url, "youtu.be") {
		id := url[strings.LastIndex(url, "/")+1:]
		return id, id != ""
	}
	return "", false
}
