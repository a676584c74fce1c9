package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/tiff"
)

// figurePages caps the scan: figures concentrate in the first pages of a
// typical paper, and later pages are mostly tables and references.
const figurePages = 5

// ExtractFigures pulls embedded raster images from the first pages of the
// document in page order, keeps the ones passing filter, and saves them
// under outDir/figures as normalized PNGs. It returns figures/<name>
// relative paths, at most maxFigures of them. Individual bad images are
// skipped silently; only failing to open the document at all is an error.
func ExtractFigures(pdfPath, id, outDir string, maxFigures int, filter FigureFilter) ([]string, error) {
	if maxFigures <= 0 {
		return nil, nil
	}
	pages, err := api.PageCountFile(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}
	if pages > figurePages {
		pages = figurePages
	}

	f, err := os.Open(pdfPath)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	selected := []string{fmt.Sprintf("1-%d", pages)}
	extracted, err := api.ExtractImagesRaw(f, selected, nil)
	if err != nil {
		return nil, fmt.Errorf("extract images: %w", err)
	}

	figuresDir := filepath.Join(outDir, "figures")
	if err := os.MkdirAll(figuresDir, 0o755); err != nil {
		return nil, fmt.Errorf("create figures dir: %w", err)
	}

	saved := make([]string, 0, maxFigures)
	for pageIdx, byObj := range extracted {
		if len(saved) >= maxFigures {
			break
		}
		// Object numbers sorted for a deterministic within-page order.
		objNrs := make([]int, 0, len(byObj))
		for nr := range byObj {
			objNrs = append(objNrs, nr)
		}
		sort.Ints(objNrs)

		for figIdx, nr := range objNrs {
			if len(saved) >= maxFigures {
				break
			}
			name := fmt.Sprintf("%s_p%d_fig%d.png", id, pageIdx, figIdx)
			path := filepath.Join(figuresDir, name)
			if err := saveFigure(byObj[nr], path, filter); err != nil {
				log.Debug().Err(err).Str("id", id).Int("page", pageIdx).Msg("figure skipped")
				continue
			}
			saved = append(saved, filepath.ToSlash(filepath.Join("figures", name)))
		}
	}
	return saved, nil
}

// saveFigure applies the acceptance filters in order and writes the image as
// a normalized PNG. Decoding through image.Image and re-encoding converts
// unusual color encodings (CMYK scans in particular) to a standard space.
func saveFigure(img model.Image, path string, filter FigureFilter) error {
	data, err := io.ReadAll(img)
	if err != nil {
		return fmt.Errorf("read image: %w", err)
	}
	if !filter.AcceptBytes(len(data)) {
		return fmt.Errorf("below size threshold: %d bytes", len(data))
	}
	decoded, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	b := decoded.Bounds()
	if !filter.AcceptDimensions(b.Dx(), b.Dy()) {
		return fmt.Errorf("dimensions rejected: %dx%d", b.Dx(), b.Dy())
	}

	normalized := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(normalized, normalized.Bounds(), decoded, b.Min, draw.Src)

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create figure: %w", err)
	}
	defer out.Close()
	if err := png.Encode(out, normalized); err != nil {
		return fmt.Errorf("encode figure: %w", err)
	}
	return nil
}
