package reconstruct

import (
	"context"
	"fmt"
	"image"

	"github.com/diagramlab/erd-codegen/internal/detect"
	"github.com/diagramlab/erd-codegen/internal/ocr"
	"github.com/diagramlab/erd-codegen/internal/schema"
)

// Pipeline runs the full image-to-schema path: detection, per-region text
// recognition, then geometric reconstruction.
//
// Detector and Recognizer are collaborators behind interfaces; the pipeline
// owns none of their lifecycle and a single Pipeline is safe for concurrent
// use when its collaborators are.
type Pipeline struct {
	Detector   detect.Detector
	Recognizer ocr.Recognizer
	Engine     *Engine
}

// NewPipeline wires a pipeline from its collaborators.
func NewPipeline(d detect.Detector, r ocr.Recognizer, e *Engine) *Pipeline {
	return &Pipeline{Detector: d, Recognizer: r, Engine: e}
}

// Parse reconstructs the schema drawn in img.
//
// Detection or recognition failures abort the parse; they indicate a broken
// collaborator, not a hard-to-read diagram. Regions that merely contain no
// recognizable text come back empty and are handled downstream.
func (p *Pipeline) Parse(ctx context.Context, img image.Image) (schema.Schema, error) {
	detections, err := p.Detector.Detect(ctx, img)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("detection failed: %w", err)
	}

	for i := range detections {
		if !detections[i].Label.NeedsText() {
			continue
		}
		text, err := p.Recognizer.RecognizeRegion(ctx, img, detections[i].Box)
		if err != nil {
			return schema.Schema{}, fmt.Errorf("text recognition failed: %w", err)
		}
		detections[i].Text = text
	}

	return p.Engine.Reconstruct(detect.Classify(detections)), nil
}
