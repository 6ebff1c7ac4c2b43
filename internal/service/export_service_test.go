package service

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/parsecv/api/internal/model"
)

func TestSerializeCSVFlattensNestedKeys(t *testing.T) {
	s := NewExportService()
	rec := model.NewRecord().
		Set("a", model.NewRecord().
			Set("b", 1.0).
			Set("c", []any{1.0, 2.0}))

	got, contentType, err := s.Serialize(rec, model.FormatCSV)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	if !strings.HasPrefix(contentType, "text/csv") {
		t.Errorf("unexpected content type %q", contentType)
	}

	want := "Field,Value\n\"a.b\",\"1\"\n\"a.c\",\"1; 2\""
	if got != want {
		t.Errorf("unexpected CSV:\n got %q\nwant %q", got, want)
	}
}

func TestSerializeCSVEscapesQuotes(t *testing.T) {
	s := NewExportService()
	rec := model.NewRecord().Set("quote", `say "hello"`)

	got, _, err := s.Serialize(rec, model.FormatCSV)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}

	want := "Field,Value\n\"quote\",\"say \"\"hello\"\"\""
	if got != want {
		t.Errorf("unexpected CSV:\n got %q\nwant %q", got, want)
	}
}

func TestSerializeCSVScalars(t *testing.T) {
	s := NewExportService()
	rec := model.NewRecord().
		Set("active", true).
		Set("inactive", false).
		Set("score", 0.92).
		Set("count", 48.0).
		Set("name", "John Smith")

	got, _, err := s.Serialize(rec, model.FormatCSV)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}

	want := strings.Join([]string{
		"Field,Value",
		"\"active\",\"true\"",
		"\"inactive\",\"false\"",
		"\"score\",\"0.92\"",
		"\"count\",\"48\"",
		"\"name\",\"John Smith\"",
	}, "\n")
	if got != want {
		t.Errorf("unexpected CSV:\n got %q\nwant %q", got, want)
	}
}

func TestFlattenOrderIsDepthFirst(t *testing.T) {
	s := NewExportService()
	rec := model.NewRecord().
		Set("first", "1").
		Set("nested", model.NewRecord().
			Set("x", "2").
			Set("deeper", model.NewRecord().Set("y", "3"))).
		Set("last", "4")

	fields := s.Flatten(rec)
	var paths []string
	for _, f := range fields {
		paths = append(paths, f.Path)
	}

	want := []string{"first", "nested.x", "nested.deeper.y", "last"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("unexpected flatten order: got %v, want %v", paths, want)
	}
}

func TestSerializeJSONRoundTrip(t *testing.T) {
	s := NewExportService()
	rec := NewResultService().Build(*model.NewDocument("r1.pdf", 2_000_000), 0.92)

	text, contentType, err := s.Serialize(rec, model.FormatJSON)
	if err != nil {
		t.Fatalf("serialize failed: %v", err)
	}
	if !strings.HasPrefix(contentType, "application/json") {
		t.Errorf("unexpected content type %q", contentType)
	}
	if !strings.Contains(text, "  \"fileName\": \"r1.pdf\"") {
		t.Errorf("expected 2-space indented output, got:\n%s", text)
	}

	var decoded model.Record
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if !reflect.DeepEqual(rec, &decoded) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", &decoded, rec)
	}
}

func TestSerializeRejectsUnknownFormat(t *testing.T) {
	s := NewExportService()
	if _, _, err := s.Serialize(model.NewRecord(), model.ExportFormat("xml")); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
