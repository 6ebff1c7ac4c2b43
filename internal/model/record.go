package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RecordField is a single key/value pair of a Record.
type RecordField struct {
	Key   string
	Value any
}

// Record is a JSON object that preserves the insertion order of its keys,
// which encoding/json's map type does not. Values are limited to string,
// float64, bool, nested *Record, and []any sequences of the same; anything
// else is a programming error surfaced at serialization time.
type Record struct {
	fields []RecordField
}

func NewRecord() *Record {
	return &Record{}
}

// Set appends a field. When the key is already present its value is replaced
// in place so the original position is kept.
func (r *Record) Set(key string, value any) *Record {
	for i := range r.fields {
		if r.fields[i].Key == key {
			r.fields[i].Value = value
			return r
		}
	}
	r.fields = append(r.fields, RecordField{Key: key, Value: value})
	return r
}

// Get returns the value for key.
func (r *Record) Get(key string) (any, bool) {
	for i := range r.fields {
		if r.fields[i].Key == key {
			return r.fields[i].Value, true
		}
	}
	return nil, false
}

// Fields returns the ordered fields. The slice is a copy; the values are not.
func (r *Record) Fields() []RecordField {
	out := make([]RecordField, len(r.fields))
	copy(out, r.fields)
	return out
}

func (r *Record) Len() int {
	return len(r.fields)
}

// MarshalJSON writes the object with fields in insertion order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal field %q: %w", f.Key, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object token by token so key order survives.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}
	rec, err := decodeRecord(dec)
	if err != nil {
		return err
	}
	*r = *rec
	return nil
}

// decodeRecord consumes fields up to and including the closing brace.
func decodeRecord(dec *json.Decoder) (*Record, error) {
	rec := NewRecord()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("record: expected key, got %v", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("record: field %q: %w", key, err)
		}
		rec.fields = append(rec.fields, RecordField{Key: key, Value: val})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return rec, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeRecord(dec)
		case '[':
			seq := []any{}
			for dec.More() {
				v, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				seq = append(seq, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return seq, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	case string:
		return t, nil
	case float64:
		return t, nil
	case bool:
		return t, nil
	default:
		return nil, fmt.Errorf("unsupported value %v", tok)
	}
}
