package ocr

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "user", "user"},
		{"surrounding whitespace", "  id: Integer (PK)  ", "id: Integer (PK)"},
		{"newlines collapse", "order\nitems", "order items"},
		{"mixed whitespace", " name :\tString \n", "name : String"},
		{"repeated spaces", "email:   string", "email: string"},
		{"only whitespace", " \n\t ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.in); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
