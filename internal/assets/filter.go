// Package assets turns a paper's PDF into digest artifacts: the document
// itself, a first-page preview image, and a handful of representative
// figures. Every step treats partial success as normal; a paper with no
// preview or no figures is still a valid digest entry.
package assets

// FigureFilter holds the acceptance heuristics for embedded figure
// candidates. The checks run in a fixed order (encoded size first, then
// pixel dimensions) and changing that order changes which images survive,
// so treat any reordering as a behavior change.
type FigureFilter struct {
	// MinBytes rejects images whose encoded size is below this many bytes,
	// screening out logos and icons. The boundary is inclusive: an image of
	// exactly MinBytes passes.
	MinBytes int
	// MinDim rejects images with either pixel dimension below this value.
	MinDim int
	// MinAspect and MaxAspect bound width/height, screening out rule lines
	// and dividers.
	MinAspect float64
	MaxAspect float64
}

// DefaultFigureFilter matches the thresholds the digest ships with: 15 KB
// encoded, 200 px minimum per side, aspect within [0.2, 5].
func DefaultFigureFilter() FigureFilter {
	return FigureFilter{MinBytes: 15000, MinDim: 200, MinAspect: 0.2, MaxAspect: 5}
}

// AcceptBytes applies the encoded-size check.
func (f FigureFilter) AcceptBytes(n int) bool {
	return n >= f.MinBytes
}

// AcceptDimensions applies the pixel-size and aspect checks to a decoded
// image's bounds.
func (f FigureFilter) AcceptDimensions(w, h int) bool {
	if w < f.MinDim || h < f.MinDim {
		return false
	}
	aspect := float64(w) / float64(h)
	return aspect >= f.MinAspect && aspect <= f.MaxAspect
}
