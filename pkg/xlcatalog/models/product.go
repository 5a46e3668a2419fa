package models

import (
	"bytes"
	"encoding/json"
)

// RowNumberField is the key under which a product's physical row is stored.
const RowNumberField = "_rowNumber"

// ImageURLField is the key the catalog assembler appends to each product.
const ImageURLField = "imageUrl"

// Field is one label/value pair of a product record.
type Field struct {
	Label string
	Value any
}

// ProductRow is one non-blank data row. Fields keep header order and marshal
// as a JSON object in that order.
type ProductRow struct {
	// Row is the 1-based physical row number.
	Row    int
	Fields []Field
}

// Get returns the value stored under label.
func (p *ProductRow) Get(label string) (any, bool) {
	for _, f := range p.Fields {
		if f.Label == label {
			return f.Value, true
		}
	}
	return nil, false
}

// Set replaces the value under label, appending the field if it is new.
func (p *ProductRow) Set(label string, value any) {
	for i := range p.Fields {
		if p.Fields[i].Label == label {
			p.Fields[i].Value = value
			return
		}
	}
	p.Fields = append(p.Fields, Field{Label: label, Value: value})
}

// MarshalJSON writes the fields as an object, preserving order. Values are
// written unescaped, but encoding/json re-compacts a Marshaler's output with
// its caller's settings: json.Marshal escapes <, > and & again, while an
// Encoder with SetEscapeHTML(false) (as output.ToJSON uses) keeps them.
func (p ProductRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range p.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalNoEscape(f.Label)
		if err != nil {
			return nil, err
		}
		val, err := marshalNoEscape(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
