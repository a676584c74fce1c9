// Package report renders the enriched paper set into the digest document.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/hyperifyio/paperfeed/internal/digest"
)

const digestTemplate = `# 🧬 Research Pulse: {{ .Date }}

**Summary:** Found **{{ .Count }}** papers matching your interests.

---
{{ range .Papers }}
### [{{ .Title }}]({{ .URL }})
**{{ .AuthorsLine }}** | {{ .Published }}
{{ if .Summary }}
> **🤖 AI TL;DR:** {{ .StarRating }} {{ .Summary }}
{{ end }}{{ if .ProjectURL }}
<details>
<summary><strong>🌐 Show Project Demo</strong></summary>
<br>
<div style="width: 100%; height: 400px; overflow: hidden; border: 1px solid #ddd; border-radius: 4px;">
    <iframe src="{{ .ProjectURL }}" style="width: 100%; height: 100%; border: none;"></iframe>
</div>
<p><em><a href="{{ .ProjectURL }}">Open Project Page ↗</a></em></p>
</details>
{{ end }}
<details>
<summary><strong>📄 Show PDF Preview</strong></summary>
<br>
{{ if .Preview }}<a href="{{ .LocalPDF }}" target="_blank">
    <img src="{{ .Preview }}"
         alt="Click to open PDF"
         style="width: 100%; border: 1px solid #ddd; border-radius: 4px; cursor: pointer;"
         title="Click to read full PDF">
</a>
<p align="center"><em>(Click image to open full PDF)</em></p>{{ else }}<p><a href="{{ .LocalPDF }}" target="_blank">Open PDF ↗</a></p>{{ end }}
</details>
{{ range .Figures }}
![figure]({{ . }})
{{ end }}
<details>
<summary><strong>📝 Show Text Abstract</strong></summary>
<br>
{{ .Abstract }}
</details>
{{ if .Tweets }}
**🐦 Community Signal**
{{ range .Tweets }}* **[@{{ .AuthorHandle }}]({{ .URL }})** (♥ {{ .Likes }}): {{ .FlatText }}
{{ end }}{{ end }}
---
{{ end }}`

// paperView wraps digest.Paper with the derived fields the template needs.
type paperView struct {
	digest.Paper
}

// AuthorsLine prefers the scraped affiliation string over the bare names.
func (v paperView) AuthorsLine() string {
	if v.AuthorsFull != "" {
		return v.AuthorsFull
	}
	return strings.Join(v.Authors, ", ")
}

type tweetView struct {
	digest.Tweet
}

// FlatText collapses newlines so a tweet stays on its list line.
func (v tweetView) FlatText() string {
	return strings.Join(strings.Fields(v.Text), " ")
}

func (v paperView) Tweets() []tweetView {
	out := make([]tweetView, 0, len(v.Paper.Tweets))
	for _, tw := range v.Paper.Tweets {
		out = append(out, tweetView{tw})
	}
	return out
}

var tmpl = template.Must(template.New("digest").Parse(digestTemplate))

// Render produces the digest markdown for the given papers and report date.
func Render(papers []digest.Paper, date time.Time) (string, error) {
	views := make([]paperView, 0, len(papers))
	for _, p := range papers {
		views = append(views, paperView{p})
	}
	var sb strings.Builder
	err := tmpl.Execute(&sb, struct {
		Date   string
		Count  int
		Papers []paperView
	}{
		Date:   date.Format("2006-01-02"),
		Count:  len(papers),
		Papers: views,
	})
	if err != nil {
		return "", fmt.Errorf("render digest: %w", err)
	}
	return sb.String(), nil
}

// Write saves the document to path, creating parent directories as needed,
// and returns the absolute output path.
func Write(markdown, path string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path, nil
	}
	return abs, nil
}
