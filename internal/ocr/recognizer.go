// Package ocr provides text recognition for diagram regions.
//
// The reconstruction pipeline depends only on the Recognizer interface; the
// Tesseract implementation is the production path and test doubles replace it
// in tests. An empty recognized string means "no text" and is never an error.
package ocr

import (
	"context"
	"image"
	"strings"

	"github.com/diagramlab/erd-codegen/internal/geometry"
)

// Recognizer extracts the text content of a rectangular image region.
// Implementations must be safe for concurrent use.
type Recognizer interface {
	// RecognizeRegion returns the cleaned text found inside box, or "" when
	// the region contains no recognizable text. Errors are reserved for
	// engine-level failures (missing language data, broken runtime), not for
	// empty or unreadable regions.
	RecognizeRegion(ctx context.Context, img image.Image, box geometry.Box) (string, error)
}

// Clean normalizes raw OCR output: trims surrounding whitespace and collapses
// newlines and repeated spaces into single spaces. Misrecognized characters
// are left alone; correcting OCR errors is out of scope.
func Clean(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
