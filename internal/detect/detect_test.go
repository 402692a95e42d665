package detect

import (
	"testing"

	"github.com/diagramlab/erd-codegen/internal/geometry"
)

func det(label Label, x1, y1, x2, y2 int) Detection {
	return Detection{
		Box:        geometry.Box{X1: x1, Y1: y1, X2: x2, Y2: y2},
		Label:      label,
		Confidence: 0.9,
	}
}

func TestClassify(t *testing.T) {
	detections := []Detection{
		det(LabelEntity, 0, 0, 10, 10),
		det(LabelAttribute, 1, 1, 5, 5),
		det(LabelLine, 10, 5, 50, 7),
		det(LabelCardinality, 8, 2, 12, 6),
		det(LabelEntity, 100, 0, 150, 40),
	}

	c := Classify(detections)
	if len(c.Entities) != 2 {
		t.Errorf("entities = %d, want 2", len(c.Entities))
	}
	if len(c.Attributes) != 1 {
		t.Errorf("attributes = %d, want 1", len(c.Attributes))
	}
	if len(c.Lines) != 1 {
		t.Errorf("lines = %d, want 1", len(c.Lines))
	}
	if len(c.Cardinalities) != 1 {
		t.Errorf("cardinalities = %d, want 1", len(c.Cardinalities))
	}

	// Order within a bucket follows input order
	if c.Entities[0].Box.X1 != 0 || c.Entities[1].Box.X1 != 100 {
		t.Error("Classify did not preserve input order")
	}
}

func TestClassifyIgnoresUnknownLabels(t *testing.T) {
	detections := []Detection{
		det(LabelEntity, 0, 0, 10, 10),
		det(Label("unknown_class_7"), 0, 0, 5, 5),
		det(Label(""), 0, 0, 5, 5),
	}

	c := Classify(detections)
	total := len(c.Entities) + len(c.Attributes) + len(c.Lines) + len(c.Cardinalities)
	if total != 1 {
		t.Errorf("classified %d detections, want 1 (unknown labels must be ignored)", total)
	}
}

func TestClassifyEmpty(t *testing.T) {
	c := Classify(nil)
	if len(c.Entities)+len(c.Attributes)+len(c.Lines)+len(c.Cardinalities) != 0 {
		t.Error("Classify(nil) must produce empty buckets")
	}
}

func TestLabelKnown(t *testing.T) {
	for _, l := range []Label{LabelEntity, LabelAttribute, LabelLine, LabelCardinality} {
		if !l.Known() {
			t.Errorf("Label %q should be known", l)
		}
	}
	if Label("circle").Known() {
		t.Error(`Label "circle" should not be known`)
	}
}

func TestLabelNeedsText(t *testing.T) {
	if LabelLine.NeedsText() {
		t.Error("relationship lines must not be OCR'd")
	}
	for _, l := range []Label{LabelEntity, LabelAttribute, LabelCardinality} {
		if !l.NeedsText() {
			t.Errorf("Label %q should need text", l)
		}
	}
}
