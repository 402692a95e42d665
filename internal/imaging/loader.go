// Package imaging loads and saves diagram images.
//
// Decoding supports PNG, JPEG, and GIF; decoders are registered via blank
// imports so image.Decode can dispatch on the file's magic bytes rather than
// its extension. Output is always PNG.
package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	"image/png"
	"io"
	"os"
)

// Load reads and decodes the image at path.
func Load(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}
	return img, nil
}

// Decode decodes an image from r, typically an uploaded request body.
// The format name is returned alongside the image ("png", "jpeg", "gif").
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	return img, format, nil
}

// EncodePNG writes img to path as PNG.
func EncodePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// Info describes a decoded image.
type Info struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// Describe returns basic metadata for a decoded image.
func Describe(img image.Image, format string) Info {
	bounds := img.Bounds()
	return Info{
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: format,
	}
}
