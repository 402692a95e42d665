package reconstruct

import (
	"github.com/diagramlab/erd-codegen/internal/detect"
	"github.com/diagramlab/erd-codegen/internal/schema"
)

// entityMap keys entities by normalized name while preserving first-seen
// order. A duplicate name replaces the stored entity in place, keeping its
// original position, so re-detections of the same box do not reorder output.
type entityMap struct {
	entities []schema.Entity
	index    map[string]int
}

func newEntityMap() *entityMap {
	return &entityMap{index: make(map[string]int)}
}

func (m *entityMap) put(e schema.Entity) {
	if i, ok := m.index[e.Name]; ok {
		m.entities[i] = e
		return
	}
	m.index[e.Name] = len(m.entities)
	m.entities = append(m.entities, e)
}

// ordered returns the entities in insertion order. Never nil.
func (m *entityMap) ordered() []schema.Entity {
	if m.entities == nil {
		return []schema.Entity{}
	}
	return m.entities
}

// associate builds named entities from entity detections and attaches each
// attribute row to every entity whose box strictly contains the row's center.
//
// Containment against all entities is deliberate: with overlapping entity
// boxes an attribute can belong to more than one, and guessing a single owner
// would hide the ambiguity instead of surfacing it in the output.
func (e *Engine) associate(c detect.Classified) *entityMap {
	entities := newEntityMap()

	for _, d := range c.Entities {
		name := schema.NormalizeEntityName(d.Text)
		if name == "" {
			e.Logger.Warn("dropping entity with no readable name", "box", d.Box)
			continue
		}
		entities.put(schema.Entity{
			Name:       name,
			Attributes: []schema.Attribute{},
			Box:        d.Box,
		})
	}

	for _, d := range c.Attributes {
		attr := schema.ParseAttribute(d.Text)
		if attr.Name == "" {
			e.Logger.Warn("dropping attribute with no readable label", "box", d.Box)
			continue
		}

		center := d.Box.Center()
		attached := false
		for i := range entities.entities {
			if entities.entities[i].Box.ContainsStrict(center) {
				entities.entities[i].Attributes = append(entities.entities[i].Attributes, attr)
				attached = true
			}
		}
		if !attached {
			e.Logger.Warn("attribute row lies outside every entity", "name", attr.Name, "box", d.Box)
		}
	}

	return entities
}
