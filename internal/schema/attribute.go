package schema

import "strings"

// Key markers recognized in attribute labels. Longer forms are stripped
// before the bare two-letter forms so "(PK)" does not leave "( )" behind.
var (
	pkMarkers = []string{"PRIMARY KEY", "(PK)", "PK"}
	fkMarkers = []string{"FOREIGN KEY", "(FK)", "FK"}
)

// ParseAttribute turns a raw OCR'd attribute label into an Attribute record.
//
// The input may contain whitespace, mixed case, and notation markers such as
// "id: Integer (PK)". ParseAttribute never fails: malformed input yields
// best-effort defaults. The steps are:
//
//  1. Strip PK/FK markers (case-insensitive) and set the flags. An attribute
//     may be both PK and FK.
//  2. Split on the first ":". Left side becomes the name, right side the type
//     descriptor.
//  3. Map the descriptor onto the canonical type vocabulary by substring
//     containment; otherwise fall back to the descriptor's first word,
//     capitalized, else "String".
//  4. With no explicit marker, an attribute literally named "id" is assumed
//     to be the primary key. Names like "user_id" are not auto-flagged.
//  5. An empty parsed name falls back to the first whitespace-delimited token
//     of the original text; if the text itself is empty the name stays empty
//     and the caller drops the attribute.
func ParseAttribute(text string) Attribute {
	text = strings.TrimSpace(text)
	attr := Attribute{Type: TypeString}

	work := text
	for _, m := range pkMarkers {
		var found bool
		work, found = stripMarker(work, m)
		if found {
			attr.PrimaryKey = true
		}
	}
	for _, m := range fkMarkers {
		var found bool
		work, found = stripMarker(work, m)
		if found {
			attr.ForeignKey = true
		}
	}

	name, descriptor, hasDescriptor := strings.Cut(work, ":")
	name = strings.TrimSpace(name)
	if hasDescriptor {
		attr.Type = mapType(strings.TrimSpace(descriptor))
	}

	if !attr.PrimaryKey && !attr.ForeignKey && strings.EqualFold(name, "id") {
		attr.PrimaryKey = true
	}

	if name == "" && text != "" {
		first, _, _ := strings.Cut(text, " ")
		name = first
		if name == "" {
			name = "attribute"
		}
	}

	attr.Name = name
	return attr
}

// stripMarker removes every case-insensitive occurrence of marker from s,
// reporting whether any was found. The surrounding text keeps its case.
func stripMarker(s, marker string) (string, bool) {
	found := false
	for {
		idx := strings.Index(strings.ToUpper(s), marker)
		if idx < 0 {
			break
		}
		found = true
		s = strings.TrimSpace(s[:idx] + s[idx+len(marker):])
	}
	return s, found
}

// mapType resolves a free-text type descriptor to a canonical type.
// Precedence: integer-like, string-like, date, boolean, decimal-like,
// then first-word fallback.
func mapType(descriptor string) string {
	if descriptor == "" {
		return TypeString
	}
	lower := strings.ToLower(descriptor)
	switch {
	case containsAny(lower, "long", "int", "integer", "serial", "number"):
		return TypeLong
	case containsAny(lower, "string", "varchar", "text", "char"):
		return TypeString
	case containsAny(lower, "date", "timestamp"):
		return TypeDate
	case strings.Contains(lower, "bool"):
		return TypeBoolean
	case containsAny(lower, "decimal", "numeric", "double", "float"):
		return TypeDouble
	default:
		first, _, _ := strings.Cut(descriptor, " ")
		if t := capitalize(strings.TrimSpace(first)); t != "" {
			return t
		}
		return TypeString
	}
}

func containsAny(s string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
