package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the full field set of a live entity. It is stored and archived
// verbatim so that a restore returns exactly what was deleted.
type Document map[string]any

// DecodeDocument parses raw JSON into a Document, keeping numbers as
// json.Number so integer fields survive a round trip unchanged.
func DecodeDocument(raw []byte) (Document, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: snapshot must be a JSON object: %v", ErrValidation, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: snapshot must be a JSON object", ErrValidation)
	}

	return doc, nil
}

func (d Document) ID() string {
	return d.String("id")
}

func (d Document) String(field string) string {
	if d == nil {
		return ""
	}
	value, ok := d[field].(string)
	if !ok {
		return ""
	}
	return value
}

// Clone returns a shallow copy; nested values are shared.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for key, value := range d {
		out[key] = value
	}
	return out
}
