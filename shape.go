package pbopt

import "fmt"

// Shape describes the response a backend returns for one level of a
// selection: the fields that will be present and, when expansions were
// requested, how the expand wrapper behaves. It is the runtime stand-in for
// compile-time response typing.
type Shape struct {
	Collection string
	// Fields holds the bare names present at this level: the selection's
	// explicit fields when given, otherwise every declared field.
	Fields []string
	// ExpandOptional reports whether the expand wrapper as a whole may be
	// absent from the response. It is true only when every requested sibling
	// relation is optional; one required sibling forces the wrapper to always
	// be present. Meaningless when Relations is empty (no wrapper at all).
	ExpandOptional bool
	// Relations mirrors the selection's expand forest in caller order.
	Relations []RelationShape
}

// RelationShape is one entry inside an expand wrapper. Many selects between
// array and single-object values; Optional marks entries that may be missing
// individually even when the wrapper itself is present.
type RelationShape struct {
	Key      string
	Many     bool
	Optional bool
	Shape    *Shape
}

// Shape projects the response shape for a selection. The root key must name
// a declared collection and every expand key must resolve per
// Schema.Relation; unknown names fail rather than guessing.
func (s *Schema) Shape(sel Selection) (*Shape, error) {
	if _, ok := s.Collections[sel.Key]; !ok {
		return nil, fmt.Errorf("unknown collection %q", sel.Key)
	}
	return s.shapeNode(sel.Key, sel.Node)
}

func (s *Schema) shapeNode(collection string, n Node) (*Shape, error) {
	col := s.Collections[collection]
	sh := &Shape{Collection: collection}
	if len(n.Fields) > 0 {
		sh.Fields = make([]string, len(n.Fields))
		for i, f := range n.Fields {
			sh.Fields[i] = FieldName(f)
		}
	} else {
		sh.Fields = make([]string, len(col.Fields))
		for i, f := range col.Fields {
			sh.Fields[i] = FieldName(f)
		}
	}
	if len(n.Expand) == 0 {
		return sh, nil
	}
	sh.ExpandOptional = true
	for _, c := range n.Expand {
		rel, err := s.Relation(collection, c.Key)
		if err != nil {
			return nil, err
		}
		child, err := s.shapeNode(rel.Collection, c)
		if err != nil {
			return nil, err
		}
		if !rel.Optional {
			sh.ExpandOptional = false
		}
		sh.Relations = append(sh.Relations, RelationShape{
			Key:      c.Key,
			Many:     rel.Many,
			Optional: rel.Optional,
			Shape:    child,
		})
	}
	return sh, nil
}
