package assets

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/paperfeed/internal/fetch"
)

// Extractor runs the per-paper asset pipeline: download, preview render,
// figure extraction. Each step is independently fault tolerant; Extract
// never fails a paper outright.
type Extractor struct {
	Fetcher *fetch.Client
	Filter  FigureFilter
}

// Result describes what could be produced for one paper. LocalPDF is the
// document filename inside the output directory when the download worked,
// or the remote URL as a degraded reference when it did not (Downloaded
// tells the two apart). Preview and Figures are empty when those steps
// failed or found nothing.
type Result struct {
	LocalPDF   string
	Downloaded bool
	Preview    string
	Figures    []string
}

// Extract fetches the document at docURL into outDir and derives the
// preview and figures from it. Download failures fall back to the remote
// URL; preview and figure failures degrade to nothing. Figures are capped
// at maxFigures.
func (e *Extractor) Extract(ctx context.Context, docURL, id, outDir string, maxFigures int) Result {
	pdfName := id + ".pdf"
	pdfPath := filepath.Join(outDir, pdfName)

	if err := e.Fetcher.Download(ctx, docURL, pdfPath); err != nil {
		log.Warn().Err(err).Str("id", id).Msg("document download failed; keeping remote reference")
		return Result{LocalPDF: docURL}
	}
	res := Result{LocalPDF: pdfName, Downloaded: true}

	preview, err := RenderPreview(pdfPath, id, outDir)
	if err != nil {
		log.Warn().Err(err).Str("id", id).Msg("preview render failed")
	} else {
		res.Preview = preview
	}

	figures, err := ExtractFigures(pdfPath, id, outDir, maxFigures, e.Filter)
	if err != nil {
		log.Warn().Err(err).Str("id", id).Msg("figure extraction failed")
	} else {
		res.Figures = figures
	}
	return res
}
