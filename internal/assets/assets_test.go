package assets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperifyio/paperfeed/internal/fetch"
)

func testExtractor() *Extractor {
	return &Extractor{
		Fetcher: &fetch.Client{PerRequestTimeout: 2 * time.Second},
		Filter:  DefaultFigureFilter(),
	}
}

func TestExtract_DownloadFailureFallsBackToRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	}))
	defer srv.Close()

	res := testExtractor().Extract(context.Background(), srv.URL+"/missing.pdf", "2401.00001v1", t.TempDir(), 3)
	if res.Downloaded {
		t.Fatalf("expected download failure")
	}
	if res.LocalPDF != srv.URL+"/missing.pdf" {
		t.Fatalf("expected remote URL as degraded reference, got %q", res.LocalPDF)
	}
	if res.Preview != "" || len(res.Figures) != 0 {
		t.Fatalf("no artifacts expected without a document")
	}
}

func TestExtract_BrokenDocumentDegradesQuietly(t *testing.T) {
	// The server hands back bytes that are not a valid PDF. The download
	// itself succeeds; preview and figure extraction must fail per-step
	// without failing the paper.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("definitely not a pdf"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	res := testExtractor().Extract(context.Background(), srv.URL+"/x.pdf", "2401.00002v1", dir, 3)
	if !res.Downloaded {
		t.Fatalf("expected download to succeed")
	}
	if res.LocalPDF != "2401.00002v1.pdf" {
		t.Fatalf("expected local filename, got %q", res.LocalPDF)
	}
	if _, err := os.Stat(filepath.Join(dir, "2401.00002v1.pdf")); err != nil {
		t.Fatalf("document file missing: %v", err)
	}
	if res.Preview != "" || len(res.Figures) != 0 {
		t.Fatalf("broken document must yield no preview or figures")
	}
}

func TestExtractFigures_ZeroBudget(t *testing.T) {
	figs, err := ExtractFigures("irrelevant.pdf", "id", t.TempDir(), 0, DefaultFigureFilter())
	if err != nil || figs != nil {
		t.Fatalf("zero budget must be a no-op, got %v %v", figs, err)
	}
}
