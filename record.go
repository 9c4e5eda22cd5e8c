package pbopt

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var jsonx = jsoniter.ConfigCompatibleWithStandardLibrary

// Record is the untyped envelope for one backend record. Without a static
// type layer the response shape is a documented contract, not a checked one;
// the accessors below return zero values for absent or mistyped entries.
// Pair with Schema.Shape to know, for a given selection, which expand
// entries are arrays and which may be missing.
type Record map[string]any

// DecodeRecord decodes one record object.
func DecodeRecord(data []byte) (Record, error) {
	var r Record
	if err := jsonx.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return r, nil
}

// ListResult is the backend's paginated list envelope.
type ListResult struct {
	Page       int      `json:"page"`
	PerPage    int      `json:"perPage"`
	TotalItems int      `json:"totalItems"`
	TotalPages int      `json:"totalPages"`
	Items      []Record `json:"items"`
}

// DecodeList decodes a paginated list response.
func DecodeList(data []byte) (*ListResult, error) {
	var l ListResult
	if err := jsonx.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return &l, nil
}

// GetString returns the named entry as a string, or "" when absent or not a
// string.
func (r Record) GetString(key string) string {
	s, _ := r[key].(string)
	return s
}

// GetFloat returns the named entry as a float64 (the decoded form of every
// JSON number), or 0.
func (r Record) GetFloat(key string) float64 {
	f, _ := r[key].(float64)
	return f
}

// GetBool returns the named entry as a bool, or false.
func (r Record) GetBool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// Expand returns the record's expand wrapper, or nil when the backend
// omitted it (every requested relation was optional and absent).
func (r Record) Expand() Record {
	m, _ := r["expand"].(map[string]any)
	return Record(m)
}

// ExpandOne returns a to-one expansion, or nil when the wrapper or the entry
// is absent.
func (r Record) ExpandOne(key string) Record {
	m, _ := r.Expand()[key].(map[string]any)
	return Record(m)
}

// ExpandMany returns a to-many expansion in response order, or nil.
func (r Record) ExpandMany(key string) []Record {
	items, _ := r.Expand()[key].([]any)
	if items == nil {
		return nil
	}
	out := make([]Record, 0, len(items))
	for _, it := range items {
		m, _ := it.(map[string]any)
		out = append(out, Record(m))
	}
	return out
}
