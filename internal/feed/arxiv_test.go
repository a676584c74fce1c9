package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hyperifyio/paperfeed/internal/digest"
	"github.com/hyperifyio/paperfeed/internal/fetch"
)

const sampleAtom = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom" xmlns:arxiv="http://arxiv.org/schemas/atom">
  <entry>
    <id>http://arxiv.org/abs/2401.00001v1</id>
    <title>Inside
 Window Paper</title>
    <summary>An abstract
 split over lines.</summary>
    <published>2024-01-10T12:00:00Z</published>
    <arxiv:comment>Code at https://proj.example.com</arxiv:comment>
    <author><name>Alice Example</name></author>
    <author><name>Bob Example</name></author>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2312.09999v2</id>
    <title>Too Old Paper</title>
    <summary>Out of window.</summary>
    <published>2023-12-20T12:00:00Z</published>
    <author><name>Carol Example</name></author>
  </entry>
</feed>`

func newTestClient(srv *httptest.Server) *Client {
	return &Client{
		Fetcher: &fetch.Client{PerRequestTimeout: 2 * time.Second},
		BaseURL: srv.URL,
	}
}

func TestFetch_ParsesAndRefiltersByDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Query().Get("search_query"), "cat:cs.CV")
		_, _ = w.Write([]byte(sampleAtom))
	}))
	defer srv.Close()

	start := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 10, 23, 59, 59, 0, time.UTC)
	papers, err := newTestClient(srv).Fetch(context.Background(), start, end, []string{"cs.CV", "cs.RO"}, 50)
	require.NoError(t, err)
	require.Len(t, papers, 1, "server-side sorting is approximate; the out-of-window entry must be dropped here")

	p := papers[0]
	require.Equal(t, "2401.00001v1", p.ID)
	require.Equal(t, "Inside Window Paper", p.Title)
	require.Equal(t, "An abstract split over lines.", p.Abstract)
	require.Equal(t, "Code at https://proj.example.com", p.Comment)
	require.Equal(t, []string{"Alice Example", "Bob Example"}, p.Authors)
	require.Equal(t, "2024-01-10", p.Published)
}

func TestFetch_NoCategories(t *testing.T) {
	c := &Client{Fetcher: &fetch.Client{}}
	_, err := c.Fetch(context.Background(), time.Now(), time.Now(), nil, 10)
	require.Error(t, err)
}

func TestPDFURL(t *testing.T) {
	p := digest.Paper{URL: "http://arxiv.org/abs/2401.00001v1"}
	require.Equal(t, "http://arxiv.org/pdf/2401.00001v1.pdf", PDFURL(p))
}

func TestAffiliations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div class="authors"><span class="descriptor">Authors:</span> Alice Example (Example Lab), Bob Example (Other Lab)</div></body></html>`))
	}))
	defer srv.Close()

	c := &Client{
		Fetcher:    &fetch.Client{PerRequestTimeout: 2 * time.Second},
		AbsBaseURL: srv.URL + "/abs/",
	}
	got, err := c.Affiliations(context.Background(), "2401.00001v1")
	require.NoError(t, err)
	require.Equal(t, "Alice Example (Example Lab), Bob Example (Other Lab)", got)
}

func TestAffiliations_MissingAuthorsDiv(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><p>nothing here</p></body></html>`))
	}))
	defer srv.Close()

	c := &Client{
		Fetcher:    &fetch.Client{PerRequestTimeout: 2 * time.Second},
		AbsBaseURL: srv.URL + "/abs/",
	}
	got, err := c.Affiliations(context.Background(), "2401.00001v1")
	require.NoError(t, err)
	require.Empty(t, got)
}
