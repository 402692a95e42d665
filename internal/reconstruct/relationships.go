package reconstruct

import (
	"sort"
	"strings"

	"github.com/diagramlab/erd-codegen/internal/detect"
	"github.com/diagramlab/erd-codegen/internal/geometry"
	"github.com/diagramlab/erd-codegen/internal/schema"
)

// endpoint candidate: an entity within connect range of a line end. The
// endpoint it matched decides which side's cardinality label applies.
type candidate struct {
	name     string
	distSq   float64
	endpoint geometry.Point
}

// resolveRelationships connects each detected line to its two nearest
// distinct entities and reads cardinality labels near the line ends.
//
// Line endpoints are approximated as the vertical midpoints of the line box's
// left and right edges. That is exact for horizontal lines and a tolerable
// error for diagonal ones, since the connect threshold absorbs the offset.
func (e *Engine) resolveRelationships(c detect.Classified, entities *entityMap) []schema.Relationship {
	relationships := []schema.Relationship{}

	for _, line := range c.Lines {
		midY := float64(line.Box.Y1+line.Box.Y2) / 2
		left := geometry.Point{X: float64(line.Box.X1), Y: midY}
		right := geometry.Point{X: float64(line.Box.X2), Y: midY}

		// Candidates from both endpoints together, in entity insertion
		// order, then stably sorted by distance. Ties keep diagram order.
		var candidates []candidate
		for _, ent := range entities.entities {
			center := ent.Box.Center()
			if d := geometry.DistSq(center, left); d < e.ConnectThresholdSq {
				candidates = append(candidates, candidate{name: ent.Name, distSq: d, endpoint: left})
			}
			if d := geometry.DistSq(center, right); d < e.ConnectThresholdSq {
				candidates = append(candidates, candidate{name: ent.Name, distSq: d, endpoint: right})
			}
		}
		sort.SliceStable(candidates, func(i, j int) bool {
			return candidates[i].distSq < candidates[j].distSq
		})

		from, to, ok := firstTwoDistinct(candidates)
		if !ok {
			e.Logger.Warn("relationship line does not reach two entities", "box", line.Box)
			continue
		}

		// Each side's cardinality is read near the endpoint its entity
		// matched, not the box's physical left or right end. A one-sided
		// diagram with no labels at all reads as one-to-many.
		cardFrom, cardTo := "1", "N"
		for _, label := range c.Cardinalities {
			center := label.Box.Center()
			if geometry.DistSq(center, from.endpoint) < e.CardinalityThresholdSq {
				if label.Text != "" {
					cardFrom = label.Text
				}
			} else if geometry.DistSq(center, to.endpoint) < e.CardinalityThresholdSq {
				if label.Text != "" {
					cardTo = label.Text
				}
			}
		}

		relType := normalizeCardinality(cardFrom) + ":" + normalizeCardinality(cardTo)

		key := strings.ToLower(from.name) + "_id"
		if relType == "1:N" {
			key = strings.ToLower(to.name) + "_id"
		}

		relationships = append(relationships, schema.Relationship{
			From: from.name,
			To:   to.name,
			Type: relType,
			Key:  key,
		})
	}

	return relationships
}

// firstTwoDistinct walks distance-sorted candidates and returns the first two
// with distinct entity names, each still carrying the endpoint it matched.
// The same entity can appear once per endpoint, so a line hugging a single
// box must not relate the entity to itself.
func firstTwoDistinct(candidates []candidate) (from, to candidate, ok bool) {
	for _, c := range candidates {
		switch {
		case from.name == "":
			from = c
		case c.name != from.name:
			return from, c, true
		}
	}
	return candidate{}, candidate{}, false
}

// normalizeCardinality maps a raw cardinality label onto "1" or "N".
// Many-valued notations ("n", "m", "*", "many") collapse to "N"; anything
// unrecognized passes through untouched so the output exposes what the
// diagram actually said.
func normalizeCardinality(raw string) string {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "n", "m", "*", "many":
		return "N"
	case "1":
		return "1"
	default:
		return trimmed
	}
}
