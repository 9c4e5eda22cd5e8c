package pbopt

// Merge returns a new Node that is the field-wise union of the receiver and
// other, for layering a caller's selection over a default one. The receiver's
// entries always come first and win on conflicts; other contributes only
// fields and expand keys the receiver is missing (field identity is the bare
// name, so a modifier-carrying spec and its plain form collide). Overlapping
// expand children are merged recursively. Results are deep copies; neither
// input is mutated. A nil receiver or nil other is treated as empty.
func (n *Node) Merge(other *Node) *Node {
	return mergeNodes(n, other)
}

func mergeNodes(base, overlay *Node) *Node {
	if base == nil {
		return overlay.Clone()
	}
	if overlay == nil {
		return base.Clone()
	}

	res := &Node{Key: base.Key}
	if res.Key == "" {
		res.Key = overlay.Key
	}

	names := make(map[string]bool, len(base.Fields)+len(overlay.Fields))
	for _, f := range base.Fields {
		names[FieldName(f)] = true
		res.Fields = append(res.Fields, f)
	}
	for _, f := range overlay.Fields {
		if name := FieldName(f); !names[name] {
			names[name] = true
			res.Fields = append(res.Fields, f)
		}
	}

	keys := make(map[string]int, len(base.Expand))
	for _, c := range base.Expand {
		keys[c.Key] = len(res.Expand)
		res.Expand = append(res.Expand, *c.Clone())
	}
	for i := range overlay.Expand {
		oc := &overlay.Expand[i]
		if at, ok := keys[oc.Key]; ok {
			res.Expand[at] = *mergeNodes(&res.Expand[at], oc)
			continue
		}
		res.Expand = append(res.Expand, *oc.Clone())
	}
	return res
}

// Clone returns a deep copy of n. Nil safe.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := &Node{Key: n.Key}
	if n.Fields != nil {
		cp.Fields = append([]string(nil), n.Fields...)
	}
	for i := range n.Expand {
		cp.Expand = append(cp.Expand, *n.Expand[i].Clone())
	}
	return cp
}
