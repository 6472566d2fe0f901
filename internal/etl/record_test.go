package etl_test

import (
	"testing"

	"stdsdb/internal/etl"
)

func TestSchema_Unknown(t *testing.T) {
	s := &etl.Schema{Fields: []etl.Field{{Name: "id"}, {Name: "name"}, {Name: "colour"}, {Name: "thickness"}}}
	got := s.Unknown([]string{"name", "thickness", "conductivity"})
	if len(got) != 1 || got[0] != "colour" {
		t.Fatalf("expected [colour], got %v", got)
	}
	if names := s.FieldNames(); len(names) != 4 || names[2] != "colour" {
		t.Errorf("unexpected field order %v", names)
	}
}
