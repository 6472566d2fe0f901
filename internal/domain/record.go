package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Record is a single flat row flowing between seed files, the store and the
// generated data files. Values are scalars: string, number, bool or nil.
type Record map[string]any

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the value of key as a string, or "" when absent or not text.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// Float returns the value of key as a float64. ok is false when the value is
// nil or does not parse as a number.
func (r Record) Float(key string) (float64, bool) {
	return ToFloat(r[key])
}

// FloatOr returns the numeric value of key, or def when it is nil or not numeric.
func (r Record) FloatOr(key string, def float64) float64 {
	if f, ok := ToFloat(r[key]); ok {
		return f
	}
	return def
}

// IsFalsy reports whether v counts as "not provided": nil, empty string,
// numeric zero or false.
func IsFalsy(v any) bool {
	switch n := v.(type) {
	case nil:
		return true
	case string:
		return n == ""
	case []byte:
		return len(n) == 0
	case bool:
		return !n
	case json.Number:
		return n == "" || n == "0"
	}
	if f, ok := ToFloat(v); ok {
		return f == 0
	}
	return false
}

// ToFloat converts numeric values and numeric-literal strings to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case []byte:
		return parseFloat(string(n))
	case string:
		return parseFloat(n)
	default:
		return 0, false
	}
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// OrderedRecord is a record that serializes its keys in a fixed order.
// encoding/json sorts map keys, which would lose declaration order.
type OrderedRecord struct {
	Keys   []string
	Values Record
}

// NewOrderedRecord builds an OrderedRecord that emits keys in the given order.
func NewOrderedRecord(keys []string, values Record) OrderedRecord {
	return OrderedRecord{Keys: keys, Values: values}
}

// Set assigns key, appending it to the key order when new.
func (o *OrderedRecord) Set(key string, value any) {
	if o.Values == nil {
		o.Values = Record{}
	}
	if _, exists := o.Values[key]; !exists {
		o.Keys = append(o.Keys, key)
	}
	o.Values[key] = value
}

// Delete removes key and its slot in the key order.
func (o *OrderedRecord) Delete(key string) {
	if _, exists := o.Values[key]; !exists {
		return
	}
	delete(o.Values, key)
	for i, k := range o.Keys {
		if k == key {
			o.Keys = append(o.Keys[:i:i], o.Keys[i+1:]...)
			break
		}
	}
}

func (o OrderedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.Keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := marshalNoEscape(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := marshalNoEscape(o.Values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalIndent renders v as two-space indented JSON without HTML escaping,
// the layout the downstream data files use.
func MarshalIndent(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
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
