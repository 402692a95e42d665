// Package geometry provides the pixel-space primitives shared by detection
// and schema reconstruction: axis-aligned boxes, floating-point centers, and
// squared-distance math.
//
// The coordinate convention follows standard image bounds:
//   - (X1, Y1) is the top-left corner
//   - (X2, Y2) is the bottom-right corner
//   - X increases rightward, Y increases downward
package geometry

import "image"

// Box represents an axis-aligned rectangular bounding box in pixel coordinates.
type Box struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Point represents a 2D coordinate in pixel space. Coordinates are floats
// because box centers fall on half-pixel positions.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Center returns the center point of the box.
func (b Box) Center() Point {
	return Point{
		X: float64(b.X1+b.X2) / 2,
		Y: float64(b.Y1+b.Y2) / 2,
	}
}

// Width returns the horizontal extent in pixels.
func (b Box) Width() int { return b.X2 - b.X1 }

// Height returns the vertical extent in pixels.
func (b Box) Height() int { return b.Y2 - b.Y1 }

// Area returns the box area in square pixels.
func (b Box) Area() int { return b.Width() * b.Height() }

// ContainsStrict reports whether p lies strictly inside the box.
// Points on the box edges are not contained.
func (b Box) ContainsStrict(p Point) bool {
	return float64(b.X1) < p.X && p.X < float64(b.X2) &&
		float64(b.Y1) < p.Y && p.Y < float64(b.Y2)
}

// ClampTo clips the box to an image of the given width and height.
// The second return value is false when the clipped box is empty or inverted,
// in which case the box is unusable for cropping.
func (b Box) ClampTo(width, height int) (Box, bool) {
	c := b
	if c.X1 < 0 {
		c.X1 = 0
	}
	if c.Y1 < 0 {
		c.Y1 = 0
	}
	if c.X2 > width {
		c.X2 = width
	}
	if c.Y2 > height {
		c.Y2 = height
	}
	if c.X1 >= c.X2 || c.Y1 >= c.Y2 {
		return c, false
	}
	return c, true
}

// Rect converts the box to an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// DistSq returns the squared Euclidean distance between two points.
// Squared distances avoid the sqrt when only comparisons against thresholds
// are needed.
func DistSq(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
