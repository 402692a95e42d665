package detect

import (
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/segment"
)

// inkMask converts the image to a binary ink map: true where a pixel is dark
// enough to be part of a drawn shape. A light Gaussian blur smooths
// compression artifacts before thresholding.
func inkMask(img image.Image, level uint8) [][]bool {
	blurred := blur.Gaussian(img, 1.0)
	binary := segment.Threshold(blurred, level)

	bounds := binary.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	mask := make([][]bool, height)
	for y := 0; y < height; y++ {
		mask[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			// Threshold maps ink (dark) to black.
			mask[y][x] = binary.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y == 0
		}
	}
	return mask
}

type pixel struct {
	x, y int
}

// findContours groups connected ink pixels into contours using flood-fill
// with 8-connectivity. Contours smaller than minSize pixels are discarded
// as noise.
func findContours(mask [][]bool, width, height, minSize int) [][]pixel {
	visited := make([][]bool, height)
	for y := 0; y < height; y++ {
		visited[y] = make([]bool, width)
	}

	contours := make([][]pixel, 0)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if mask[y][x] && !visited[y][x] {
				contour := floodFill(mask, visited, x, y, width, height)
				if len(contour) >= minSize {
					contours = append(contours, contour)
				}
			}
		}
	}
	return contours
}

// floodFill collects the connected component containing (startX, startY).
// Stack-based to avoid recursion depth limits on large shapes.
func floodFill(mask, visited [][]bool, startX, startY, width, height int) []pixel {
	var contour []pixel
	stack := []pixel{{x: startX, y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.x < 0 || p.x >= width || p.y < 0 || p.y >= height {
			continue
		}
		if visited[p.y][p.x] || !mask[p.y][p.x] {
			continue
		}

		visited[p.y][p.x] = true
		contour = append(contour, p)

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, pixel{x: p.x + dx, y: p.y + dy})
			}
		}
	}
	return contour
}
