package reconstruct

import (
	"testing"

	"github.com/diagramlab/erd-codegen/internal/detect"
)

// twoEntities places User (center 50,50) and Order (center 350,50).
func twoEntities() []detect.Detection {
	return []detect.Detection{
		det(detect.LabelEntity, box(0, 0, 100, 100), "User"),
		det(detect.LabelEntity, box(300, 0, 400, 100), "Order"),
	}
}

func TestResolveRelationshipBasic(t *testing.T) {
	e := NewEngine(nil)
	input := append(twoEntities(),
		det(detect.LabelLine, box(100, 48, 300, 52), ""),
	)
	s := e.Reconstruct(classify(input...))

	if len(s.Relationships) != 1 {
		t.Fatalf("got %d relationships, want 1", len(s.Relationships))
	}
	r := s.Relationships[0]
	if r.From != "User" || r.To != "Order" {
		t.Errorf("relationship endpoints = %s -> %s, want User -> Order", r.From, r.To)
	}
	if r.Type != "1:N" {
		t.Errorf("type = %q, want 1:N (no cardinality labels defaults to one-to-many)", r.Type)
	}
	// For 1:N the foreign key lives on the many side
	if r.Key != "order_id" {
		t.Errorf("key = %q, want order_id", r.Key)
	}
}

func TestResolveRelationshipFromEntityAtRightEnd(t *testing.T) {
	e := NewEngine(nil)
	// The line's right endpoint (310,50) sits closer to Order's center than
	// the left endpoint (100,50) does to User's, so Order resolves as the
	// from entity even though it matched the right end. Its cardinality must
	// come from the label at that end, not from the left one.
	input := append(twoEntities(),
		det(detect.LabelLine, box(100, 48, 310, 52), ""),
		det(detect.LabelCardinality, box(105, 30, 125, 45), "1"),
		det(detect.LabelCardinality, box(285, 30, 305, 45), "M"),
	)
	s := e.Reconstruct(classify(input...))

	if len(s.Relationships) != 1 {
		t.Fatalf("got %d relationships, want 1", len(s.Relationships))
	}
	r := s.Relationships[0]
	if r.From != "Order" || r.To != "User" {
		t.Fatalf("relationship endpoints = %s -> %s, want Order -> User", r.From, r.To)
	}
	if r.Type != "N:1" {
		t.Errorf("type = %q, want N:1 (M belongs to Order's end of the line)", r.Type)
	}
	if r.Key != "order_id" {
		t.Errorf("key = %q, want order_id", r.Key)
	}
}

func TestResolveRelationshipOneToMany(t *testing.T) {
	e := NewEngine(nil)
	input := append(twoEntities(),
		det(detect.LabelLine, box(100, 48, 300, 52), ""),
		det(detect.LabelCardinality, box(105, 30, 125, 45), "1"),
		det(detect.LabelCardinality, box(275, 30, 295, 45), "M"),
	)
	s := e.Reconstruct(classify(input...))

	if len(s.Relationships) != 1 {
		t.Fatalf("got %d relationships, want 1", len(s.Relationships))
	}
	r := s.Relationships[0]
	if r.Type != "1:N" {
		t.Errorf("type = %q, want 1:N (M normalizes to N)", r.Type)
	}
	// For 1:N the foreign key lives on the many side
	if r.Key != "order_id" {
		t.Errorf("key = %q, want order_id", r.Key)
	}
}

func TestResolveRelationshipManyToOne(t *testing.T) {
	e := NewEngine(nil)
	input := append(twoEntities(),
		det(detect.LabelLine, box(100, 48, 300, 52), ""),
		det(detect.LabelCardinality, box(105, 30, 125, 45), "*"),
		det(detect.LabelCardinality, box(275, 30, 295, 45), "1"),
	)
	s := e.Reconstruct(classify(input...))

	r := s.Relationships[0]
	if r.Type != "N:1" {
		t.Errorf("type = %q, want N:1", r.Type)
	}
	if r.Key != "user_id" {
		t.Errorf("key = %q, want user_id", r.Key)
	}
}

func TestResolveRelationshipUnrecognizedCardinality(t *testing.T) {
	e := NewEngine(nil)
	input := append(twoEntities(),
		det(detect.LabelLine, box(100, 48, 300, 52), ""),
		det(detect.LabelCardinality, box(105, 30, 125, 45), "0..1"),
	)
	s := e.Reconstruct(classify(input...))

	if s.Relationships[0].Type != "0..1:N" {
		t.Errorf("type = %q, want the raw label passed through", s.Relationships[0].Type)
	}
}

func TestResolveRelationshipOutOfRange(t *testing.T) {
	e := NewEngine(nil)
	// Line endpoints more than 100px from both entity centers
	input := append(twoEntities(),
		det(detect.LabelLine, box(150, 398, 250, 402), ""),
	)
	s := e.Reconstruct(classify(input...))

	if len(s.Relationships) != 0 {
		t.Errorf("got %d relationships, want 0 (line too far from entities)", len(s.Relationships))
	}
}

func TestResolveRelationshipNeedsTwoDistinctEntities(t *testing.T) {
	e := NewEngine(nil)
	// Both line endpoints sit near the same entity
	s := e.Reconstruct(classify(
		det(detect.LabelEntity, box(0, 0, 100, 100), "User"),
		det(detect.LabelLine, box(40, 48, 60, 52), ""),
	))

	if len(s.Relationships) != 0 {
		t.Errorf("got %d relationships, want 0 (an entity cannot relate to itself here)", len(s.Relationships))
	}
}

func TestNormalizeCardinality(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1", "1"},
		{"n", "N"},
		{"N", "N"},
		{"m", "N"},
		{"*", "N"},
		{"many", "N"},
		{"Many", "N"},
		{" N ", "N"},
		{"0..1", "0..1"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeCardinality(tt.in); got != tt.want {
			t.Errorf("normalizeCardinality(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFirstTwoDistinct(t *testing.T) {
	if _, _, ok := firstTwoDistinct(nil); ok {
		t.Error("no candidates must not resolve")
	}
	if _, _, ok := firstTwoDistinct([]candidate{{name: "User"}, {name: "User"}}); ok {
		t.Error("a single repeated entity must not resolve")
	}
	from, to, ok := firstTwoDistinct([]candidate{
		{name: "User", distSq: 10},
		{name: "User", distSq: 20},
		{name: "Order", distSq: 30},
	})
	if !ok || from.name != "User" || to.name != "Order" {
		t.Errorf("got %s -> %s (ok=%v), want User -> Order", from.name, to.name, ok)
	}
}
