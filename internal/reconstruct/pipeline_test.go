package reconstruct

import (
	"context"
	"errors"
	"image"
	"strconv"
	"testing"

	"github.com/diagramlab/erd-codegen/internal/detect"
	"github.com/diagramlab/erd-codegen/internal/geometry"
	"github.com/diagramlab/erd-codegen/internal/ocr"
)

type fakeDetector struct {
	detections []detect.Detection
	err        error
}

func (f *fakeDetector) Detect(ctx context.Context, img image.Image) ([]detect.Detection, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]detect.Detection, len(f.detections))
	copy(out, f.detections)
	return out, nil
}

// fakeRecognizer returns canned text per box, keyed by "x1,y1".
type fakeRecognizer struct {
	texts map[string]string
	err   error
	calls []geometry.Box
}

func (f *fakeRecognizer) RecognizeRegion(ctx context.Context, img image.Image, b geometry.Box) (string, error) {
	f.calls = append(f.calls, b)
	if f.err != nil {
		return "", f.err
	}
	return f.texts[strconv.Itoa(b.X1)+","+strconv.Itoa(b.Y1)], nil
}

var _ ocr.Recognizer = (*fakeRecognizer)(nil)

func blank() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 500, 200))
}

func TestPipelineParse(t *testing.T) {
	detector := &fakeDetector{detections: []detect.Detection{
		det(detect.LabelEntity, box(0, 0, 100, 100), ""),
		det(detect.LabelAttribute, box(10, 40, 90, 60), ""),
		det(detect.LabelEntity, box(300, 0, 400, 100), ""),
		det(detect.LabelLine, box(100, 48, 300, 52), ""),
	}}
	recognizer := &fakeRecognizer{texts: map[string]string{
		"0,0":   "User",
		"10,40": "id: Integer (PK)",
		"300,0": "Order",
	}}

	p := NewPipeline(detector, recognizer, NewEngine(nil))
	s, err := p.Parse(context.Background(), blank())
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(s.Entities) != 2 {
		t.Fatalf("got %d entities, want 2", len(s.Entities))
	}
	if s.Entities[0].Name != "User" || len(s.Entities[0].Attributes) != 1 {
		t.Errorf("User entity not reconstructed: %+v", s.Entities[0])
	}
	if len(s.Relationships) != 1 {
		t.Errorf("got %d relationships, want 1", len(s.Relationships))
	}

	// The line region must not be sent to the recognizer
	if len(recognizer.calls) != 3 {
		t.Errorf("recognizer called %d times, want 3 (lines carry no text)", len(recognizer.calls))
	}
	for _, b := range recognizer.calls {
		if b.X1 == 100 && b.Y1 == 48 {
			t.Error("relationship line region was sent to OCR")
		}
	}
}

func TestPipelineDetectorError(t *testing.T) {
	p := NewPipeline(
		&fakeDetector{err: errors.New("model unavailable")},
		&fakeRecognizer{},
		NewEngine(nil),
	)
	if _, err := p.Parse(context.Background(), blank()); err == nil {
		t.Fatal("expected detection error to propagate")
	}
}

func TestPipelineRecognizerError(t *testing.T) {
	p := NewPipeline(
		&fakeDetector{detections: []detect.Detection{
			det(detect.LabelEntity, box(0, 0, 100, 100), ""),
		}},
		&fakeRecognizer{err: errors.New("tesseract not installed")},
		NewEngine(nil),
	)
	if _, err := p.Parse(context.Background(), blank()); err == nil {
		t.Fatal("expected recognition error to propagate")
	}
}
