package pbopt

import (
	"fmt"
	"strings"
	"unicode"
)

type parseState int

const (
	stateParseField parseState = iota + 1
	stateAfterField
	stateDescend
	stateAscend
	stateTraverse
)

// Parse reads the compact selection syntax into a Node tree. A bare name
// selects a field, name:(...) opens an expand subtree, and name:mod(args)
// attaches a transport modifier to a field spec:
//
//	id,title,body:excerpt(200,true),comments:(id,message,user:(name))
//
// The returned root has an empty Key; callers name the collection themselves.
// Duplicate sibling names, empty fields/subtrees, and unbalanced parentheses
// are errors. This is input convenience syntax, not an inverse of the
// serialized fields/expand parameters.
func Parse(s string) (*Node, error) {
	idx := 0
	currentState := stateParseField
	root := &Node{}
	// frame tracks the node under construction plus the sibling names already
	// taken at its level (fields and expand keys share the namespace).
	type frame struct {
		node *Node
		seen map[string]bool
	}
	stack := []*frame{{node: root, seen: make(map[string]bool)}}
	var fieldName string
	pendingField := false

	addLeaf := func(spec string) error {
		if spec == "" {
			return fmt.Errorf("empty field at index %d", idx)
		}
		cur := stack[len(stack)-1]
		name := FieldName(spec)
		if cur.seen[name] {
			return fmt.Errorf("duplicate field %q at index %d", name, idx)
		}
		cur.seen[name] = true
		cur.node.Fields = append(cur.node.Fields, spec)
		return nil
	}
	startSubtree := func(name string) error {
		if name == "" {
			return fmt.Errorf("empty field before ':' at index %d", idx)
		}
		cur := stack[len(stack)-1]
		if cur.seen[name] {
			return fmt.Errorf("duplicate field %q at index %d", name, idx)
		}
		cur.seen[name] = true
		stack = append(stack, &frame{node: &Node{Key: name}, seen: make(map[string]bool)})
		return nil
	}
	closeSubtree := func() {
		child := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		parent := stack[len(stack)-1]
		parent.node.Expand = append(parent.node.Expand, *child.node)
	}
	skipSpaces := func() {
		for idx < len(s) && unicode.IsSpace(rune(s[idx])) {
			idx++
		}
	}

	skipSpaces()
	for idx <= len(s) {
		switch currentState {
		case stateParseField:
			if idx >= len(s) {
				if pendingField {
					return nil, fmt.Errorf("internal: unexpected EOF while parsing field")
				}
				idx++
				break
			}
			skipSpaces()
			start := idx
			for idx < len(s) {
				c := s[idx]
				if c == ':' || c == ',' || c == ')' {
					break
				}
				idx++
			}
			fieldName = strings.TrimSpace(s[start:idx])
			pendingField = true
			currentState = stateAfterField
			continue
		case stateAfterField:
			if !pendingField {
				return nil, fmt.Errorf("parser: stateAfterField without pending field at index %d", idx)
			}
			if idx >= len(s) {
				if err := addLeaf(fieldName); err != nil {
					return nil, err
				}
				pendingField = false
				idx++
				break
			}
			c := s[idx]
			switch c {
			case ':':
				currentState = stateDescend
			case ',':
				if err := addLeaf(fieldName); err != nil {
					return nil, err
				}
				pendingField = false
				currentState = stateTraverse
			case ')':
				if err := addLeaf(fieldName); err != nil {
					return nil, err
				}
				pendingField = false
				currentState = stateAscend
			default:
				if unicode.IsSpace(rune(c)) {
					idx++
					continue
				}
				return nil, fmt.Errorf("unexpected '%c' after field %q at index %d", c, fieldName, idx)
			}
			idx++
			continue
		case stateDescend:
			skipSpaces()
			if idx < len(s) && s[idx] == '(' {
				idx++
				skipSpaces()
				if idx < len(s) && s[idx] == ')' {
					return nil, fmt.Errorf("empty subtree for field %q at index %d", fieldName, idx)
				}
				if err := startSubtree(fieldName); err != nil {
					return nil, err
				}
				pendingField = false
				currentState = stateParseField
				skipSpaces()
				continue
			}
			// Not a subtree: must be a modifier, name:mod(args).
			start := idx
			for idx < len(s) && s[idx] != '(' && s[idx] != ',' && s[idx] != ')' && !unicode.IsSpace(rune(s[idx])) {
				idx++
			}
			mod := s[start:idx]
			if mod == "" || idx >= len(s) || s[idx] != '(' {
				return nil, fmt.Errorf("expected '(' or modifier after ':' for field %q at index %d", fieldName, idx)
			}
			idx++
			argStart := idx
			for idx < len(s) && s[idx] != ')' {
				idx++
			}
			if idx >= len(s) {
				return nil, fmt.Errorf("unterminated modifier %q for field %q", mod, fieldName)
			}
			args := strings.TrimSpace(s[argStart:idx])
			idx++
			fieldName = fieldName + ":" + mod + "(" + args + ")"
			currentState = stateAfterField
			continue
		case stateTraverse:
			skipSpaces()
			if idx >= len(s) {
				return nil, fmt.Errorf("trailing comma at end of input")
			}
			currentState = stateParseField
			continue
		case stateAscend:
			if len(stack) <= 1 {
				return nil, fmt.Errorf("unmatched ')' at index %d", idx)
			}
			closeSubtree()
			pendingField = false
			skipSpaces()
			if idx < len(s) {
				if s[idx] == ',' {
					idx++
					currentState = stateParseField
					skipSpaces()
					continue
				}
				if s[idx] == ')' {
					idx++
					currentState = stateAscend
					continue
				}
				return nil, fmt.Errorf("expected ',' or ')' at index %d", idx)
			}
			idx++
			continue
		default:
			return nil, fmt.Errorf("unknown state %d at index %d", currentState, idx)
		}
	}
	if len(stack) != 1 {
		return nil, fmt.Errorf("unexpected end of string: missing closing ')'")
	}
	return root, nil
}
