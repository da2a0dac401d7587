package document_test

import (
	"strings"
	"testing"
	"time"

	"github.com/tanzim/portfolio-api/domain/document"
)

func TestIsValidID(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{"valid lowercase", "507f1f77bcf86cd799439011", true},
		{"valid uppercase", "507F1F77BCF86CD799439011", true},
		{"too short", "xyz", false},
		{"empty", "", false},
		{"too long", "507f1f77bcf86cd7994390110", false},
		{"non hex", "zzzf1f77bcf86cd799439011", false},
		{"twelve byte string", "abcdefghijkl", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := document.IsValidID(tt.token); got != tt.want {
				t.Errorf("IsValidID(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		token  string
		want   string
		wantOK bool
	}{
		{"507f1f77bcf86cd799439011", "507f1f77bcf86cd799439011", true},
		{"507F1F77BCF86CD799439011", "507f1f77bcf86cd799439011", true},
		{"507f1F77bcf86CD799439011", "507f1f77bcf86cd799439011", true},
		{"xyz", "", false},
		{"zzzf1f77bcf86cd799439011", "", false},
	}

	for _, tt := range tests {
		got, ok := document.ParseID(tt.token)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseID(%q) = %q, %v, want %q, %v", tt.token, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestNewID(t *testing.T) {
	a := document.NewID()
	b := document.NewID()

	if !document.IsValidID(a) {
		t.Errorf("NewID() = %q, not a valid id", a)
	}
	if a == b {
		t.Error("NewID returned the same id twice")
	}
	if strings.Compare(a, b) >= 0 {
		t.Errorf("ids not increasing: %s then %s", a, b)
	}
}

func TestStamp(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	in := document.Document{"title": "Award A"}

	out := document.Stamp(in, now, true, true)

	if out[document.FieldCreatedAt] != now {
		t.Errorf("createdAt = %v, want %v", out[document.FieldCreatedAt], now)
	}
	if out[document.FieldDisabled] != false {
		t.Errorf("disabled = %v, want false", out[document.FieldDisabled])
	}
	if _, ok := in[document.FieldCreatedAt]; ok {
		t.Error("Stamp modified its input")
	}

	plain := document.Stamp(in, now, false, false)
	if len(plain) != 1 {
		t.Errorf("len(plain) = %d, want 1", len(plain))
	}
}

func TestMerge(t *testing.T) {
	base := document.Document{"_id": "507f1f77bcf86cd799439011", "title": "A", "year": 2020.0}

	out, changed := document.Merge(base, document.Document{"title": "B", "_id": "ffffffffffffffffffffffff"})
	if !changed {
		t.Error("changed = false, want true")
	}
	if out["title"] != "B" {
		t.Errorf("title = %v, want B", out["title"])
	}
	if out["year"] != 2020.0 {
		t.Errorf("year = %v, want 2020", out["year"])
	}
	if out.ID() != "507f1f77bcf86cd799439011" {
		t.Errorf("ID() = %s, merge must not rewrite the identifier", out.ID())
	}
	if base["title"] != "A" {
		t.Error("Merge modified base")
	}
}

func TestMerge_Empty(t *testing.T) {
	base := document.Document{"title": "A", "tags": []any{"x"}}

	out, changed := document.Merge(base, document.Document{})
	if changed {
		t.Error("changed = true for empty set")
	}
	if len(out) != len(base) || out["title"] != "A" {
		t.Errorf("out = %v, want %v", out, base)
	}
}

func TestMerge_SameValues(t *testing.T) {
	base := document.Document{"meta": map[string]any{"a": 1.0}}

	_, changed := document.Merge(base, document.Document{"meta": map[string]any{"a": 1.0}})
	if changed {
		t.Error("changed = true when values are equal")
	}
}

func TestWithoutID(t *testing.T) {
	d := document.Document{"_id": "x", "title": "A"}
	out := d.WithoutID()
	if _, ok := out["_id"]; ok {
		t.Error("WithoutID kept _id")
	}
	if d.ID() != "x" {
		t.Error("WithoutID modified its receiver")
	}
}

func TestClone_Deep(t *testing.T) {
	orig := document.Document{
		"links": map[string]any{"github": "tanzim"},
		"tags":  []any{"go", map[string]any{"level": "expert"}},
	}

	c := orig.Clone()
	c["links"].(map[string]any)["github"] = "changed"
	c["tags"].([]any)[0] = "rust"
	c["tags"].([]any)[1].(map[string]any)["level"] = "novice"

	if got := orig["links"].(map[string]any)["github"]; got != "tanzim" {
		t.Errorf("orig links.github = %v, want tanzim", got)
	}
	if got := orig["tags"].([]any)[0]; got != "go" {
		t.Errorf("orig tags[0] = %v, want go", got)
	}
	if got := orig["tags"].([]any)[1].(map[string]any)["level"]; got != "expert" {
		t.Errorf("orig tags[1].level = %v, want expert", got)
	}
}

func TestMerge_DoesNotShareSet(t *testing.T) {
	set := document.Document{"links": map[string]any{"site": "a"}}

	merged, _ := document.Merge(document.Document{}, set)
	set["links"].(map[string]any)["site"] = "b"

	if got := merged["links"].(map[string]any)["site"]; got != "a" {
		t.Errorf("merged links.site = %v, want a", got)
	}
}
