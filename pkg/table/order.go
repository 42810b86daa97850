package table

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Valid reports whether d is a recognised direction. Matching is exact.
func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// OrderEntry sorts by one column.
type OrderEntry struct {
	Column    string
	Direction Direction
}

// Order is a column to direction mapping that keeps key insertion order, which
// defines sort precedence. Entries with unrecognised directions never survive
// decoding.
type Order []OrderEntry

// UnmarshalJSON decodes a JSON object keeping key order. A repeated key keeps its
// first position and takes the last value.
func (o *Order) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("order must be an object")
	}

	var keys []string
	values := map[string]json.RawMessage{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("order key must be a string")
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	out := make(Order, 0, len(keys))
	for _, key := range keys {
		var dir string
		if err := json.Unmarshal(values[key], &dir); err != nil {
			continue
		}
		if d := Direction(dir); d.Valid() {
			out = append(out, OrderEntry{Column: key, Direction: d})
		}
	}
	*o = out
	return nil
}

// MarshalJSON encodes the order back into an object in precedence order.
func (o Order) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range o {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(entry.Column)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(string(entry.Direction))
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Filtered returns the entries with recognised directions, in order.
func (o Order) Filtered() Order {
	out := make(Order, 0, len(o))
	for _, entry := range o {
		if entry.Direction.Valid() {
			out = append(out, entry)
		}
	}
	return out
}
