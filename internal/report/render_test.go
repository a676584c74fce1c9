package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/paperfeed/internal/digest"
)

func TestRender_TwoEntriesLocalAndRemote(t *testing.T) {
	papers := []digest.Paper{
		{
			ID:         "2401.00001v1",
			Title:      "Local Paper",
			Abstract:   "Abstract one.",
			URL:        "http://arxiv.org/abs/2401.00001v1",
			Published:  "2024-01-10",
			Authors:    []string{"Alice"},
			Summary:    "Strong result.",
			StarRating: "★★★★★",
			LocalPDF:   "./assets/pulse_2024_01_10/2401.00001v1.pdf",
			Preview:    "./assets/pulse_2024_01_10/2401.00001v1_preview.png",
		},
		{
			ID:         "2401.00002v1",
			Title:      "Remote Fallback Paper",
			Abstract:   "Abstract two.",
			URL:        "http://arxiv.org/abs/2401.00002v1",
			Published:  "2024-01-09",
			Authors:    []string{"Bob"},
			Summary:    "Neat trick.",
			StarRating: "★★★☆☆",
			LocalPDF:   "http://arxiv.org/pdf/2401.00002v1.pdf",
		},
	}

	md, err := Render(papers, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	require.Contains(t, md, "Found **2** papers")
	require.Equal(t, 2, strings.Count(md, "### ["), "exactly two entries rendered")
	require.Contains(t, md, `href="./assets/pulse_2024_01_10/2401.00001v1.pdf"`)
	require.Contains(t, md, `href="http://arxiv.org/pdf/2401.00002v1.pdf"`, "failed download keeps the remote reference")
	require.Contains(t, md, `img src="./assets/pulse_2024_01_10/2401.00001v1_preview.png"`)
	require.NotContains(t, md, "2401.00002v1_preview", "no preview rendered without a local document")
}

func TestRender_OmitsEmptyOptionalSections(t *testing.T) {
	papers := []digest.Paper{{
		ID:        "2401.00003v1",
		Title:     "Bare Paper",
		Abstract:  "Just an abstract.",
		URL:       "http://arxiv.org/abs/2401.00003v1",
		Published: "2024-01-08",
		Authors:   []string{"Carol"},
		LocalPDF:  "http://arxiv.org/pdf/2401.00003v1.pdf",
	}}

	md, err := Render(papers, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotContains(t, md, "AI TL;DR", "unranked paper carries no summary line")
	require.NotContains(t, md, "Show Project Demo")
	require.NotContains(t, md, "Community Signal")
}

func TestRender_ProjectAndTweets(t *testing.T) {
	papers := []digest.Paper{{
		ID:         "2401.00004v1",
		Title:      "Fancy Paper",
		Abstract:   "Abstract.",
		URL:        "http://arxiv.org/abs/2401.00004v1",
		Published:  "2024-01-08",
		Summary:    "Does things.",
		StarRating: "★★★★☆",
		ProjectURL: "https://demo.example.com",
		LocalPDF:   "./x.pdf",
		Tweets: []digest.Tweet{
			{Text: "line one\nline two", AuthorHandle: "alice", Likes: 9, URL: "https://x.com/alice/status/1"},
		},
	}}

	md, err := Render(papers, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Contains(t, md, `iframe src="https://demo.example.com"`)
	require.Contains(t, md, "**[@alice](https://x.com/alice/status/1)** (♥ 9): line one line two")
}

func TestRender_PrefersAffiliationString(t *testing.T) {
	papers := []digest.Paper{{
		ID: "a", Title: "T", Abstract: "A", URL: "u", Published: "2024-01-01",
		Authors: []string{"Alice", "Bob"}, AuthorsFull: "Alice (Lab A), Bob (Lab B)", LocalPDF: "x",
	}}
	md, err := Render(papers, time.Now())
	require.NoError(t, err)
	require.Contains(t, md, "**Alice (Lab A), Bob (Lab B)**")

	papers[0].AuthorsFull = ""
	md, err = Render(papers, time.Now())
	require.NoError(t, err)
	require.Contains(t, md, "**Alice, Bob**")
}

func TestWrite_CreatesParentDirs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "2024", "week_02", "pulse_2024_01_10.md")
	abs, err := Write("# digest", path)
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(abs))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "# digest", string(b))
}
