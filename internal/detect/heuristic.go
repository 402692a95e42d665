package detect

import (
	"context"
	"fmt"
	"image"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/diagramlab/erd-codegen/internal/geometry"
)

// HeuristicDetector locates diagram primitives with classical image analysis
// instead of a trained model: thresholding, contour finding, rectangularity
// scoring, and elongation tests. It is the zero-dependency fallback for when
// no remote detection service is configured.
//
// The approach works on clean, high-contrast renderings (tool-exported
// diagrams with solid lines). Photographs, sketches, and noisy scans are the
// remote model's job; expect poor results here.
//
// # Classification rules
//
//   - A contour whose bounding box it traces cleanly (rectangularity above
//     Tolerance) is a box candidate.
//   - A box candidate containing the centers of other box candidates is an
//     entity rectangle; a box whose center lies inside an entity is an
//     attribute row.
//   - A strongly elongated thin contour is a relationship line.
//   - A small leftover contour close to a line's end is a cardinality label
//     (diagram text shows up as compact ink blobs).
type HeuristicDetector struct {
	// MinBoxArea is the minimum area in square pixels for a contour to be
	// considered a box rather than text or noise.
	MinBoxArea int

	// Tolerance is the rectangularity threshold (0.0 to 1.0) for box
	// candidates, comparing contour length to the expected perimeter.
	Tolerance float64

	// LineAspect is the minimum elongation (long side over short side) for
	// a contour to be considered a relationship line.
	LineAspect float64

	// MaxLineThickness is the maximum short-side extent of a line contour.
	MaxLineThickness int

	// CardinalityRadius is the maximum distance in pixels from a line end
	// for a small ink blob to count as a cardinality label.
	CardinalityRadius float64

	// InkLevel is the grayscale threshold separating ink from background.
	InkLevel uint8
}

// NewHeuristicDetector returns a detector tuned for typical tool-exported
// diagrams at screen resolution.
func NewHeuristicDetector() *HeuristicDetector {
	return &HeuristicDetector{
		MinBoxArea:        400,
		Tolerance:         0.6,
		LineAspect:        5.0,
		MaxLineThickness:  12,
		CardinalityRadius: 50,
		InkLevel:          128,
	}
}

type contourInfo struct {
	box       geometry.Box
	pixels    int
	rectScore float64
}

// Detect analyzes the image and returns labeled detections with empty Text
// fields; text recognition is a separate pipeline step.
func (d *HeuristicDetector) Detect(ctx context.Context, img image.Image) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	mask := inkMask(img, d.InkLevel)
	contours := findContours(mask, width, height, 10)

	var boxes, lines []contourInfo
	var small []contourInfo

	for _, contour := range contours {
		info := summarize(contour)
		w := info.box.Width()
		h := info.box.Height()
		if w == 0 || h == 0 {
			continue
		}

		long, short := float64(w), float64(h)
		if short > long {
			long, short = short, long
		}

		switch {
		case long/short >= d.LineAspect && int(short) <= d.MaxLineThickness:
			lines = append(lines, info)
		case info.box.Area() >= d.MinBoxArea && info.rectScore >= d.Tolerance:
			boxes = append(boxes, info)
		default:
			small = append(small, info)
		}
	}

	// Largest boxes first, matching how overlapping detections are usually
	// reported. Stable so equal areas keep scan order and output stays
	// deterministic.
	sort.SliceStable(boxes, func(i, j int) bool {
		return boxes[i].box.Area() > boxes[j].box.Area()
	})

	detections := d.classifyBoxes(img, boxes)
	for _, l := range lines {
		elongation := float64(maxInt(l.box.Width(), l.box.Height())) /
			math.Max(1, float64(minInt(l.box.Width(), l.box.Height())))
		detections = append(detections, Detection{
			Box:        l.box,
			Label:      LabelLine,
			Confidence: math.Min(1.0, elongation/10),
		})
	}
	detections = append(detections, d.cardinalityLabels(small, lines)...)

	return detections, nil
}

// classifyBoxes splits box candidates into entity rectangles and attribute
// rows by mutual containment, then scores entities with a fill-contrast
// bonus: entity headers are usually drawn with a distinct band color.
func (d *HeuristicDetector) classifyBoxes(img image.Image, boxes []contourInfo) []Detection {
	isEntity := make([]bool, len(boxes))
	for i, outer := range boxes {
		for j, inner := range boxes {
			if i == j {
				continue
			}
			if outer.box.ContainsStrict(inner.box.Center()) {
				isEntity[i] = true
				break
			}
		}
	}

	var detections []Detection
	for i, info := range boxes {
		if isEntity[i] {
			conf := info.rectScore
			if headerContrast(img, info.box) > 0.1 {
				conf = math.Min(1.0, conf+0.05)
			}
			detections = append(detections, Detection{
				Box:        info.box,
				Label:      LabelEntity,
				Confidence: conf,
			})
			continue
		}

		contained := false
		for j, outer := range boxes {
			if i != j && isEntity[j] && outer.box.ContainsStrict(info.box.Center()) {
				contained = true
				break
			}
		}
		label := LabelEntity
		if contained {
			label = LabelAttribute
		}
		detections = append(detections, Detection{
			Box:        info.box,
			Label:      label,
			Confidence: info.rectScore,
		})
	}
	return detections
}

// cardinalityLabels promotes small ink blobs near line endpoints to
// cardinality label detections. Line endpoints are approximated as the
// vertical midpoints of the line box's left and right edges, matching how
// the relationship resolver reads them.
func (d *HeuristicDetector) cardinalityLabels(small, lines []contourInfo) []Detection {
	radiusSq := d.CardinalityRadius * d.CardinalityRadius

	var detections []Detection
	for _, s := range small {
		center := s.box.Center()
		near := false
		for _, l := range lines {
			midY := float64(l.box.Y1+l.box.Y2) / 2
			left := geometry.Point{X: float64(l.box.X1), Y: midY}
			right := geometry.Point{X: float64(l.box.X2), Y: midY}
			if geometry.DistSq(center, left) < radiusSq || geometry.DistSq(center, right) < radiusSq {
				near = true
				break
			}
		}
		if near {
			detections = append(detections, Detection{
				Box:        s.box,
				Label:      LabelCardinality,
				Confidence: 0.5,
			})
		}
	}
	return detections
}

// summarize computes the bounding box and rectangularity of a contour.
// A contour tracing a perfect rectangle outline has length 2*(w+h); the
// score measures deviation from that.
func summarize(contour []pixel) contourInfo {
	minX, minY := math.MaxInt32, math.MaxInt32
	maxX, maxY := 0, 0
	for _, p := range contour {
		if p.x < minX {
			minX = p.x
		}
		if p.x > maxX {
			maxX = p.x
		}
		if p.y < minY {
			minY = p.y
		}
		if p.y > maxY {
			maxY = p.y
		}
	}

	w := maxX - minX
	h := maxY - minY
	perimeter := 2 * (w + h)
	score := 0.0
	if perimeter > 0 {
		score = 1.0 - math.Abs(float64(len(contour)-perimeter))/float64(perimeter)
	}
	if score < 0 {
		score = 0
	}

	return contourInfo{
		box:       geometry.Box{X1: minX, Y1: minY, X2: maxX, Y2: maxY},
		pixels:    len(contour),
		rectScore: score,
	}
}

// headerContrast measures the perceptual color distance between a box's
// header band and its body. Entity rectangles commonly render the name row
// with a distinct fill.
func headerContrast(img image.Image, box geometry.Box) float64 {
	headerY := box.Y1 + box.Height()/8
	bodyY := box.Y1 + box.Height()/2
	cx := (box.X1 + box.X2) / 2

	header, err1 := sampleColor(img, cx, headerY)
	body, err2 := sampleColor(img, cx, bodyY)
	if err1 != nil || err2 != nil {
		return 0
	}
	return header.DistanceLab(body)
}

func sampleColor(img image.Image, x, y int) (colorful.Color, error) {
	if !(image.Point{X: x, Y: y}.In(img.Bounds())) {
		return colorful.Color{}, fmt.Errorf("sample point (%d,%d) outside image bounds", x, y)
	}
	c, ok := colorful.MakeColor(img.At(x, y))
	if !ok {
		return colorful.Color{}, fmt.Errorf("fully transparent pixel at (%d,%d)", x, y)
	}
	return c, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
