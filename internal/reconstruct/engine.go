// Package reconstruct turns labeled diagram detections into a relational
// schema: entities with typed attributes and relationships with cardinalities.
//
// The engine is purely geometric and deterministic. Given the same detections
// it produces the same schema, byte for byte: entities keep diagram insertion
// order, candidate sorting is stable, and no map iteration order leaks into
// the output.
package reconstruct

import (
	"log/slog"

	"github.com/diagramlab/erd-codegen/internal/detect"
	"github.com/diagramlab/erd-codegen/internal/schema"
)

// Default squared-distance thresholds in pixels. Distances are compared
// squared to avoid square roots in the inner loops.
const (
	// DefaultConnectThresholdSq is the maximum squared distance between a
	// line endpoint and an entity center for the line to connect to it.
	DefaultConnectThresholdSq = 100 * 100

	// DefaultCardinalityThresholdSq is the maximum squared distance between
	// a cardinality label center and a line endpoint for the label to apply
	// to that end.
	DefaultCardinalityThresholdSq = 50 * 50
)

// Engine assembles a schema from classified detections.
type Engine struct {
	// ConnectThresholdSq bounds line-to-entity attachment.
	ConnectThresholdSq float64

	// CardinalityThresholdSq bounds label-to-endpoint attachment.
	CardinalityThresholdSq float64

	// Logger receives warnings about dropped detections: unnamed entities,
	// unparseable attributes, lines that reach fewer than two entities.
	Logger *slog.Logger
}

// NewEngine returns an engine with the default thresholds, logging to logger.
// A nil logger disables warnings.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		ConnectThresholdSq:     DefaultConnectThresholdSq,
		CardinalityThresholdSq: DefaultCardinalityThresholdSq,
		Logger:                 logger,
	}
}

// Reconstruct builds the schema from classified detections. It never fails:
// detections that cannot be interpreted are dropped with a warning, and an
// empty input yields an empty schema with non-nil slices so the JSON output
// is always {"entities":[],"relationships":[]} rather than nulls.
func (e *Engine) Reconstruct(c detect.Classified) schema.Schema {
	entities := e.associate(c)

	s := schema.Schema{
		Entities:      entities.ordered(),
		Relationships: e.resolveRelationships(c, entities),
	}
	return s
}
