package assets

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// previewDPI renders at twice the nominal 72 DPI. The preview is for
// on-screen legibility inside the digest, not archival fidelity.
const previewDPI = 144

// RenderPreview rasterizes only the first page of the document and saves it
// as <id>_preview.png inside outDir, returning the filename. Any failure
// yields ("", error); callers drop the preview rather than the paper.
func RenderPreview(pdfPath, id, outDir string) (string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", fmt.Errorf("open document: %w", err)
	}
	defer doc.Close()

	img, err := doc.ImageDPI(0, previewDPI)
	if err != nil {
		return "", fmt.Errorf("rasterize first page: %w", err)
	}

	name := id + "_preview.png"
	f, err := os.Create(filepath.Join(outDir, name))
	if err != nil {
		return "", fmt.Errorf("create preview: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("encode preview: %w", err)
	}
	return name, nil
}
