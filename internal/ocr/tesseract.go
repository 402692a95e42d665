package ocr

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"

	"github.com/diagramlab/erd-codegen/internal/geometry"
)

// TesseractRecognizer recognizes region text with the Tesseract engine.
//
// Tesseract works on files, so each call crops the region, writes it to a
// temporary PNG, and runs recognition on that file. A fresh client per call
// keeps the recognizer safe for concurrent use; gosseract clients are not.
//
// # Prerequisites
//
// Tesseract and the language data must be installed on the system:
//   - Ubuntu/Debian: apt-get install tesseract-ocr tesseract-ocr-eng
//   - macOS: brew install tesseract
//
// # Region handling
//
// Boxes are clamped to the image bounds before cropping. A box that lies
// entirely outside the image, or collapses to zero area after clamping,
// yields "" without an error: off-canvas detections are a detector artifact,
// not a recognition failure.
type TesseractRecognizer struct {
	// Language is the Tesseract language code, e.g. "eng". The matching
	// traineddata file must be installed.
	Language string
}

// NewTesseractRecognizer returns a recognizer configured for English.
func NewTesseractRecognizer() *TesseractRecognizer {
	return &TesseractRecognizer{Language: "eng"}
}

// RecognizeRegion implements Recognizer.
func (r *TesseractRecognizer) RecognizeRegion(ctx context.Context, img image.Image, box geometry.Box) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	bounds := img.Bounds()
	clamped, ok := box.ClampTo(bounds.Dx(), bounds.Dy())
	if !ok {
		return "", nil
	}

	cropped := imaging.Crop(img, clamped.Rect())

	// Tesseract needs a file path
	tmpFile, err := os.CreateTemp("", "erd-ocr-*.png")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if err := png.Encode(tmpFile, cropped); err != nil {
		tmpFile.Close()
		return "", fmt.Errorf("failed to encode region image: %w", err)
	}
	tmpFile.Close()

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.Language); err != nil {
		return "", fmt.Errorf("failed to set language %q: %w", r.Language, err)
	}
	if err := client.SetImage(tmpPath); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return Clean(text), nil
}

// Version reports the installed Tesseract version, for diagnostics.
func Version() string {
	client := gosseract.NewClient()
	defer client.Close()
	return client.Version()
}
