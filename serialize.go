package pbopt

import "strings"

// expandParam flattens an expand forest into the backend's comma list of
// dotted relation chains. A node with its own expansions contributes only the
// chains through it; its key is folded into the prefix handed down, never
// emitted standalone. Sibling order is preserved exactly as given.
func expandParam(nodes []Node, base string) string {
	if len(nodes) == 0 {
		return ""
	}
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if len(n.Expand) > 0 {
			parts = append(parts, expandParam(n.Expand, base+n.Key+"."))
			continue
		}
		parts = append(parts, base+n.Key)
	}
	return strings.Join(parts, ",")
}

// fieldsParam serializes one level of the tree into the fields parameter.
// base is "" at the root and otherwise always ends in "." so root and nested
// levels share one code path.
//
// The level's own spec is the prefixed field list when Fields is explicit,
// base+"*" when the level only expands further (omission would wrongly mean
// "no fields"), and the bare base path when the node names nothing at all.
// When expansions exist and no node anywhere below states explicit Fields,
// a single blanket base+"expand.*" covers them; once any nested level opts
// into explicit fields the blanket is dropped and every immediate child is
// serialized on its own.
func fieldsParam(n Node, base string) string {
	var level string
	switch {
	case len(n.Fields) > 0:
		specs := make([]string, len(n.Fields))
		for i, f := range n.Fields {
			specs[i] = base + f
		}
		level = strings.Join(specs, ",")
	case len(n.Expand) > 0:
		level = base + "*"
	default:
		level = strings.TrimSuffix(base, ".")
	}
	if len(n.Expand) == 0 {
		return level
	}
	if !anyExplicitFields(n.Expand) {
		return level + "," + base + "expand.*"
	}
	parts := make([]string, 0, len(n.Expand)+1)
	parts = append(parts, level)
	for _, c := range n.Expand {
		parts = append(parts, fieldsParam(c, base+"expand."+c.Key+"."))
	}
	return strings.Join(parts, ",")
}

// anyExplicitFields reports whether any node in the forest, at any depth,
// states explicit Fields.
func anyExplicitFields(nodes []Node) bool {
	for _, n := range nodes {
		if len(n.Fields) > 0 || anyExplicitFields(n.Expand) {
			return true
		}
	}
	return false
}
