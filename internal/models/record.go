package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// IDKey is the wire name of the store-assigned record identifier.
const IDKey = "_id"

// ErrNotObject is returned when a record is decoded from anything but a JSON object.
var ErrNotObject = errors.New("record must be a JSON object")

// Field is one key/value pair of a record.
type Field struct {
	Key   string
	Value any
}

// Record is a schemaless row uploaded by a user. Field order is kept as uploaded
// because numeric field detection depends on it.
type Record struct {
	ID     string
	Fields []Field
}

// Get returns the value stored under key.
func (r Record) Get(key string) (any, bool) {
	for _, f := range r.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Keys returns field names in record order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Fields))
	for _, f := range r.Fields {
		keys = append(keys, f.Key)
	}
	return keys
}

// Set replaces the value under key or appends a new field.
func (r *Record) Set(key string, value any) {
	for i := range r.Fields {
		if r.Fields[i].Key == key {
			r.Fields[i].Value = value
			return
		}
	}
	r.Fields = append(r.Fields, Field{Key: key, Value: value})
}

// MarshalJSON writes the record as an object, the id first when present.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	writeField := func(key string, value any) error {
		if !first {
			buf.WriteByte(',')
		}
		first = false
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("marshal field %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}
	if r.ID != "" {
		if err := writeField(IDKey, r.ID); err != nil {
			return nil, err
		}
	}
	for _, f := range r.Fields {
		if f.Key == IDKey {
			continue
		}
		if err := writeField(f.Key, f.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping key order. Numbers decode as json.Number.
// A top-level "_id" is lifted into ID.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return ErrNotObject
	}
	out := Record{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode field %q: %w", key, err)
		}
		if key == IDKey {
			out.ID = fmt.Sprint(value)
			continue
		}
		out.Set(key, value)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

// Body returns the record encoded without its id, suitable for persistence.
func (r Record) Body() ([]byte, error) {
	r.ID = ""
	return r.MarshalJSON()
}
