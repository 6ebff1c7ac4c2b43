package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func sampleRecord() *Record {
	return NewRecord().
		Set("name", "John Smith").
		Set("score", 0.92).
		Set("active", true).
		Set("contact", NewRecord().
			Set("email", "john.smith@email.com").
			Set("phone", "+1-555-123-4567")).
		Set("skills", []any{"Python", "React", "AWS"})
}

func TestRecordMarshalKeepsInsertionOrder(t *testing.T) {
	data, err := json.Marshal(sampleRecord())
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := `{"name":"John Smith","score":0.92,"active":true,` +
		`"contact":{"email":"john.smith@email.com","phone":"+1-555-123-4567"},` +
		`"skills":["Python","React","AWS"]}`
	if string(data) != want {
		t.Errorf("unexpected output:\n got %s\nwant %s", data, want)
	}
}

func TestRecordMarshalIndent(t *testing.T) {
	rec := NewRecord().Set("a", NewRecord().Set("b", 1.0))

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	want := "{\n  \"a\": {\n    \"b\": 1\n  }\n}"
	if string(data) != want {
		t.Errorf("unexpected output:\n got %q\nwant %q", data, want)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	original := sampleRecord()

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if !reflect.DeepEqual(original, &decoded) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", &decoded, original)
	}
}

func TestRecordSetReplacesInPlace(t *testing.T) {
	rec := NewRecord().Set("a", 1.0).Set("b", 2.0).Set("a", 3.0)

	fields := rec.Fields()
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Key != "a" || fields[0].Value != 3.0 {
		t.Errorf("expected a=3 first, got %s=%v", fields[0].Key, fields[0].Value)
	}
}

func TestStageAt(t *testing.T) {
	tests := []struct {
		progress float64
		want     string
	}{
		{0, StageExtractingText},
		{19.9, StageExtractingText},
		{20, StageAnalyzingStructure},
		{50, StageExtractingEntities},
		{79.9, StageProcessingSkills},
		{80, StageFinalizingResults},
		{100, StageFinalizingResults},
	}
	for _, tt := range tests {
		if got := StageAt(tt.progress); got != tt.want {
			t.Errorf("StageAt(%v) = %q, want %q", tt.progress, got, tt.want)
		}
	}
}

func TestExtension(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"resume.pdf", "pdf"},
		{"Resume.PDF", "pdf"},
		{"archive.tar.gz", "gz"},
		{"noext", ""},
		{"trailing.", ""},
	}
	for _, tt := range tests {
		if got := Extension(tt.name); got != tt.want {
			t.Errorf("Extension(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
