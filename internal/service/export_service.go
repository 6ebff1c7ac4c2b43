package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/parsecv/api/internal/model"
)

// FlatField is one row of a flattened record: a dot-joined key path and the
// stringified value at that path.
type FlatField struct {
	Path  string
	Value string
}

// ExportService serializes result records into interchange formats. It is
// stateless and reentrant; serialization never mutates the record.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// Serialize renders the record in the requested format and returns the text
// together with its content type.
func (s *ExportService) Serialize(rec *model.Record, format model.ExportFormat) (string, string, error) {
	switch format {
	case model.FormatJSON:
		data, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return "", "", fmt.Errorf("serialize json: %w", err)
		}
		return string(data), "application/json; charset=utf-8", nil
	case model.FormatCSV:
		return s.serializeCSV(rec), "text/csv; charset=utf-8", nil
	}
	return "", "", fmt.Errorf("unsupported export format %q", format)
}

// Flatten converts a record into its ordered flat form: depth-first,
// key-insertion order, nested keys joined with dots. Sequences collapse into
// a single "; "-joined field rather than multiple rows.
func (s *ExportService) Flatten(rec *model.Record) []FlatField {
	var out []FlatField
	s.flattenInto(&out, "", rec)
	return out
}

func (s *ExportService) flattenInto(out *[]FlatField, prefix string, rec *model.Record) {
	for _, f := range rec.Fields() {
		path := f.Key
		if prefix != "" {
			path = prefix + "." + f.Key
		}
		switch v := f.Value.(type) {
		case *model.Record:
			s.flattenInto(out, path, v)
		case []any:
			parts := make([]string, len(v))
			for i, el := range v {
				parts[i] = stringify(el)
			}
			*out = append(*out, FlatField{Path: path, Value: strings.Join(parts, "; ")})
		default:
			*out = append(*out, FlatField{Path: path, Value: stringify(f.Value)})
		}
	}
}

// serializeCSV emits a Field,Value table with every data field quoted and
// embedded quotes doubled. Rows are LF-separated with no trailing newline.
func (s *ExportService) serializeCSV(rec *model.Record) string {
	var b strings.Builder
	b.WriteString("Field,Value")
	for _, f := range s.Flatten(rec) {
		b.WriteString("\n")
		writeQuoted(&b, f.Path)
		b.WriteByte(',')
		writeQuoted(&b, f.Value)
	}
	return b.String()
}

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(s, `"`, `""`))
	b.WriteByte('"')
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case *model.Record:
		// Records inside sequences keep their structure as compact JSON.
		data, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return fmt.Sprintf("%v", v)
	}
}
