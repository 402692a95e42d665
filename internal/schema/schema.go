// Package schema defines the relational schema model reconstructed from an
// entity-relationship diagram, plus the free-text attribute parser and
// validation for externally supplied schema documents.
package schema

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/diagramlab/erd-codegen/internal/geometry"
)

// Canonical attribute types. The parser maps free-text type descriptors onto
// this vocabulary; descriptors with no keyword match fall back to their first
// word, capitalized.
const (
	TypeLong    = "Long"
	TypeString  = "String"
	TypeDate    = "Date"
	TypeBoolean = "Boolean"
	TypeDouble  = "Double"
)

// Attribute is a single typed column of an entity.
type Attribute struct {
	// Name is the attribute name. Attributes with an empty name are never
	// emitted into a schema; the associator drops them.
	Name string `json:"name"`

	// Type is the canonical type, usually one of the Type* constants.
	Type string `json:"type"`

	// PrimaryKey marks an attribute flagged "(PK)" in the diagram, or an
	// attribute literally named "id".
	PrimaryKey bool `json:"pk"`

	// ForeignKey marks an attribute flagged "(FK)" in the diagram.
	// An attribute may be both primary and foreign key.
	ForeignKey bool `json:"fk"`
}

// Entity is a table-like node of the diagram with its attributes.
type Entity struct {
	// Name is the normalized entity name: trimmed, newlines collapsed,
	// capitalized. Entities are keyed by this name; a later entity with the
	// same normalized name overwrites an earlier one.
	Name string `json:"name"`

	// Attributes in diagram order.
	Attributes []Attribute `json:"attributes"`

	// Box is the source detection's bounding box. It is needed during
	// relationship resolution and is not part of the output contract.
	Box geometry.Box `json:"-"`
}

// Relationship is a typed edge between two entities.
//
// From and To are an artifact of nearest-distance ordering during resolution,
// not a semantic direction. Key is a best-effort, low-confidence naming guess
// for the column implementing the relationship; it is not derived from the
// entities' actual attributes.
type Relationship struct {
	From string `json:"from"`
	To   string `json:"to"`

	// Type is the cardinality formatted "<c1>:<c2>", each side "1", "N",
	// or a raw unnormalized fallback.
	Type string `json:"type"`

	// Key is the foreign-key column name guess.
	Key string `json:"key"`
}

// Schema is the final reconstruction output consumed by code generation.
type Schema struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

// NormalizeEntityName cleans OCR output into an entity name: newlines become
// spaces, surrounding whitespace is trimmed, and the result is capitalized
// (first rune upper, remainder lower). Returns "" for text with no content,
// which callers treat as "skip this entity".
func NormalizeEntityName(raw string) string {
	name := strings.ReplaceAll(raw, "\n", " ")
	return capitalize(strings.TrimSpace(name))
}

// capitalize uppercases the first rune and lowercases the rest, so duplicate
// detections like "user" and "User" collapse onto the same key.
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
