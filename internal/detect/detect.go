// Package detect defines the detection vocabulary shared by the diagram
// parsing pipeline and provides the detectors that produce it: a remote
// object-detection service client and a pure-Go heuristic fallback.
//
// A Detection is a labeled, confidence-scored bounding box, optionally
// carrying OCR text. The label vocabulary is a closed set; anything a
// detector emits outside it is ignored downstream rather than rejected.
package detect

import (
	"context"
	"image"

	"github.com/diagramlab/erd-codegen/internal/geometry"
)

// Label identifies what kind of diagram primitive a detection is.
type Label string

// The closed label vocabulary.
const (
	LabelEntity      Label = "entity_rect"
	LabelAttribute   Label = "attribute_rect"
	LabelLine        Label = "relationship_line"
	LabelCardinality Label = "cardinality_label"
)

// Known reports whether l is part of the closed vocabulary.
func (l Label) Known() bool {
	switch l {
	case LabelEntity, LabelAttribute, LabelLine, LabelCardinality:
		return true
	}
	return false
}

// NeedsText reports whether detections with this label carry text that must
// be recognized before reconstruction. Relationship lines never do.
func (l Label) NeedsText() bool {
	switch l {
	case LabelEntity, LabelAttribute, LabelCardinality:
		return true
	}
	return false
}

// Detection is a single output of an object detector: a labeled,
// confidence-scored bounding box. Text is filled in by the OCR step for
// labels that need it and may be empty when recognition found nothing.
type Detection struct {
	Box        geometry.Box `json:"box"`
	Label      Label        `json:"label"`
	Confidence float64      `json:"confidence"`
	Text       string       `json:"text,omitempty"`
}

// Classified holds detections partitioned by label.
type Classified struct {
	Entities      []Detection
	Attributes    []Detection
	Lines         []Detection
	Cardinalities []Detection
}

// Classify partitions detections into the four semantic buckets in a single
// order-preserving pass. Detections with unknown labels are dropped silently;
// a detector emitting extra classes is not an error.
func Classify(detections []Detection) Classified {
	var c Classified
	for _, d := range detections {
		switch d.Label {
		case LabelEntity:
			c.Entities = append(c.Entities, d)
		case LabelAttribute:
			c.Attributes = append(c.Attributes, d)
		case LabelLine:
			c.Lines = append(c.Lines, d)
		case LabelCardinality:
			c.Cardinalities = append(c.Cardinalities, d)
		}
	}
	return c
}

// Detector locates diagram primitives in an image. Implementations must be
// safe for concurrent use; lifecycle (connection setup, model loading) is
// owned by the caller, not hidden in package state.
type Detector interface {
	Detect(ctx context.Context, img image.Image) ([]Detection, error)
}
