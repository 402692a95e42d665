package schema

import "testing"

func TestParseAttribute(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Attribute
	}{
		{
			name: "id with PK marker",
			text: "id: Integer (PK)",
			want: Attribute{Name: "id", Type: TypeLong, PrimaryKey: true},
		},
		{
			name: "plain string attribute",
			text: "email: string",
			want: Attribute{Name: "email", Type: TypeString},
		},
		{
			name: "foreign key",
			text: "author_id: Integer (FK)",
			want: Attribute{Name: "author_id", Type: TypeLong, ForeignKey: true},
		},
		{
			name: "bare id is assumed primary key",
			text: "id: serial",
			want: Attribute{Name: "id", Type: TypeLong, PrimaryKey: true},
		},
		{
			name: "suffixed id is not auto-flagged",
			text: "user_id: bigint",
			want: Attribute{Name: "user_id", Type: TypeLong},
		},
		{
			name: "both PK and FK",
			text: "id: long (PK) (FK)",
			want: Attribute{Name: "id", Type: TypeLong, PrimaryKey: true, ForeignKey: true},
		},
		{
			name: "spelled out primary key",
			text: "code: varchar PRIMARY KEY",
			want: Attribute{Name: "code", Type: TypeString, PrimaryKey: true},
		},
		{
			name: "date type",
			text: "created_at: timestamp",
			want: Attribute{Name: "created_at", Type: TypeDate},
		},
		{
			name: "boolean type",
			text: "active: bool",
			want: Attribute{Name: "active", Type: TypeBoolean},
		},
		{
			name: "decimal type",
			text: "price: decimal(10,2)",
			want: Attribute{Name: "price", Type: TypeDouble},
		},
		{
			name: "unknown type falls back to first word capitalized",
			text: "payload: blob data",
			want: Attribute{Name: "payload", Type: "Blob"},
		},
		{
			name: "no type descriptor defaults to String",
			text: "nickname",
			want: Attribute{Name: "nickname", Type: TypeString},
		},
		{
			name: "empty descriptor defaults to String",
			text: "note:",
			want: Attribute{Name: "note", Type: TypeString},
		},
		{
			name: "empty input yields empty name",
			text: "",
			want: Attribute{Name: "", Type: TypeString},
		},
		{
			name: "whitespace is trimmed",
			text: "  title :  text  ",
			want: Attribute{Name: "title", Type: TypeString},
		},
		{
			name: "mixed case markers",
			text: "id: integer (pk)",
			want: Attribute{Name: "id", Type: TypeLong, PrimaryKey: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAttribute(tt.text)
			if got != tt.want {
				t.Errorf("ParseAttribute(%q) = %+v, want %+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseAttributeNeverPanics(t *testing.T) {
	inputs := []string{":", "::", "(PK)", "PK", " : ", "\n", "a:b:c"}
	for _, in := range inputs {
		_ = ParseAttribute(in)
	}
}

func TestNormalizeEntityName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"user", "User"},
		{"User", "User"},
		{"USER", "User"},
		{"  order\nitem  ", "Order item"},
		{"", ""},
		{"\n  \n", ""},
	}
	for _, tt := range tests {
		if got := NormalizeEntityName(tt.raw); got != tt.want {
			t.Errorf("NormalizeEntityName(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
