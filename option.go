// Package pbopt assembles query options for a record-service backend whose
// list/view endpoints accept flat "fields" and "expand" parameters. A caller
// builds a Selection tree describing which fields and relation expansions to
// request; Options serializes it into the backend's dot-and-comma path syntax.
package pbopt

import (
	"net/url"

	"github.com/google/uuid"
)

// Node is one level of a selection tree: the entity slot (Key), which fields
// of that entity to keep (nil Fields means "all fields"), and which relations
// to recursively expand (nil Expand means "no relations").
//
// Sibling keys inside one Expand slice must be unique; duplicates produce an
// ambiguous comma list which the backend resolves arbitrarily. Keys are not
// validated here (see Schema.Check for the strict variant).
type Node struct {
	Key    string   `json:"key"`
	Fields []string `json:"fields,omitempty"`
	Expand []Node   `json:"expand,omitempty"`
}

// Selection is a full request description: the root Node (whose Key names the
// collection) plus the passthrough parameters the backend accepts verbatim.
type Selection struct {
	Node
	Sort       string `json:"sort,omitempty"`
	Filter     string `json:"filter,omitempty"`
	RequestKey string `json:"requestKey,omitempty"`
}

// Options is the flat parameter set a backend call consumes. Fields and
// Expand are computed from the selection tree; the rest pass through.
type Options struct {
	Fields     string
	Expand     string
	Sort       string
	Filter     string
	RequestKey string
}

// Options serializes the selection. The fields parameter is produced only
// when explicit Fields appear somewhere in the tree; otherwise it stays empty
// and the backend falls back to returning everything.
func (s Selection) Options() Options {
	o := Options{
		Sort:       s.Sort,
		Filter:     s.Filter,
		RequestKey: s.RequestKey,
	}
	if len(s.Fields) > 0 || anyExplicitFields(s.Expand) {
		o.Fields = fieldsParam(s.Node, "")
	}
	o.Expand = expandParam(s.Expand, "")
	return o
}

// WithAutoRequestKey returns a copy with RequestKey set to a fresh UUID when
// none was given. An explicit key always wins.
func (s Selection) WithAutoRequestKey() Selection {
	if s.RequestKey == "" {
		s.RequestKey = uuid.NewString()
	}
	return s
}

// Map returns the options as a parameter map. Empty values are omitted
// entirely; the backend errors on present-but-empty option values.
func (o Options) Map() map[string]string {
	m := make(map[string]string, 5)
	if o.Fields != "" {
		m["fields"] = o.Fields
	}
	if o.Expand != "" {
		m["expand"] = o.Expand
	}
	if o.Sort != "" {
		m["sort"] = o.Sort
	}
	if o.Filter != "" {
		m["filter"] = o.Filter
	}
	if o.RequestKey != "" {
		m["requestKey"] = o.RequestKey
	}
	return m
}

// Query returns the options as url.Values, with the same empty-value
// omission as Map.
func (o Options) Query() url.Values {
	v := make(url.Values, 5)
	for k, s := range o.Map() {
		v.Set(k, s)
	}
	return v
}
