package links

import (
	"testing"

	"github.com/hyperifyio/paperfeed/internal/digest"
)

func TestExtract_SkipsAcademicDomains(t *testing.T) {
	cases := []string{
		"See https://arxiv.org/abs/2310.12345 for details.",
		"DOI: https://doi.org/10.1000/xyz",
		"Licensed under https://creativecommons.org/licenses/by/4.0",
		"Source at https://www.overleaf.com/read/abcdef",
		"Code: https://github.com/someone/somerepo",
	}
	for _, text := range cases {
		if url, ok := Extract(text); ok {
			t.Fatalf("expected no URL from %q, got %q", text, url)
		}
	}
}

func TestExtract_FirstSurvivingMatchWins(t *testing.T) {
	text := "Paper: https://arxiv.org/abs/2310.12345 Demo: https://myproject.example.com/demo Also: https://other.example.com"
	url, ok := Extract(text)
	if !ok {
		t.Fatalf("expected a URL")
	}
	if url != "https://myproject.example.com/demo" {
		t.Fatalf("expected first surviving URL, got %q", url)
	}
}

func TestExtract_KeepsGitHubPages(t *testing.T) {
	text := "Project page: https://someone.github.io/project"
	url, ok := Extract(text)
	if !ok || url != "https://someone.github.io/project" {
		t.Fatalf("expected github.io page to survive, got %q ok=%v", url, ok)
	}
}

func TestExtract_RewritesYouTubeWatch(t *testing.T) {
	text := "Video: https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42"
	url, ok := Extract(text)
	if !ok {
		t.Fatalf("expected a URL")
	}
	if url != "https://www.youtube.com/embed/dQw4w9WgXcQ" {
		t.Fatalf("expected embed rewrite, got %q", url)
	}
}

func TestExtract_RewritesYouTubeShort(t *testing.T) {
	url, ok := Extract("Watch https://youtu.be/dQw4w9WgXcQ now")
	if !ok || url != "https://www.youtube.com/embed/dQw4w9WgXcQ" {
		t.Fatalf("expected embed rewrite, got %q ok=%v", url, ok)
	}
}

func TestExtract_TrimsTrailingDot(t *testing.T) {
	url, ok := Extract("Demo at https://demo.example.com.")
	if !ok || url != "https://demo.example.com" {
		t.Fatalf("expected trailing dot trimmed, got %q ok=%v", url, ok)
	}
}

func TestExtract_EmptyText(t *testing.T) {
	if url, ok := Extract(""); ok {
		t.Fatalf("expected nothing from empty text, got %q", url)
	}
}

func TestHasProjectLink_ChecksAbstractThenComment(t *testing.T) {
	p := digest.Paper{Abstract: "no links here", Comment: "Code at https://proj.example.com"}
	if !HasProjectLink(p) {
		t.Fatalf("expected link found in comment")
	}
	p = digest.Paper{Abstract: "only https://arxiv.org/abs/1", Comment: "and https://github.com/a/b"}
	if HasProjectLink(p) {
		t.Fatalf("expected no qualifying link")
	}
}
