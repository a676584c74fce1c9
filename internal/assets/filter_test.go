package assets

import "testing"

func TestFigureFilter_ByteBoundaryInclusive(t *testing.T) {
	f := DefaultFigureFilter()
	// Pins the boundary: exactly 15 KB is accepted, one byte less is not.
	if !f.AcceptBytes(15000) {
		t.Fatalf("encoded size of exactly 15000 bytes must be accepted")
	}
	if f.AcceptBytes(14999) {
		t.Fatalf("encoded size below 15000 bytes must be rejected")
	}
}

func TestFigureFilter_RejectsSmallAndSkinny(t *testing.T) {
	f := DefaultFigureFilter()
	if f.AcceptDimensions(150, 600) {
		t.Fatalf("150x600 must be rejected (below minimum width)")
	}
	if f.AcceptDimensions(600, 150) {
		t.Fatalf("600x150 must be rejected (below minimum height)")
	}
	if f.AcceptDimensions(2000, 300) {
		t.Fatalf("aspect above 5 must be rejected")
	}
	if f.AcceptDimensions(300, 2000) {
		t.Fatalf("aspect below 0.2 must be rejected")
	}
}

func TestFigureFilter_AcceptsTypicalFigure(t *testing.T) {
	f := DefaultFigureFilter()
	if !f.AcceptDimensions(400, 300) {
		t.Fatalf("400x300 must be accepted")
	}
	// Combined with the inclusive byte boundary this is the acceptance case:
	// a 400x300 image encoded at exactly 15000 bytes survives both checks.
	if !(f.AcceptBytes(15000) && f.AcceptDimensions(400, 300)) {
		t.Fatalf("boundary figure must survive the full chain")
	}
}

func TestFigureFilter_AspectBoundsInclusive(t *testing.T) {
	f := DefaultFigureFilter()
	if !f.AcceptDimensions(1000, 200) { // aspect exactly 5
		t.Fatalf("aspect of exactly 5 must be accepted")
	}
	if !f.AcceptDimensions(200, 1000) { // aspect exactly 0.2
		t.Fatalf("aspect of exactly 0.2 must be accepted")
	}
}
