package pbopt

import (
	"bytes"
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// NarrowMarshalers returns a json.Marshalers helper that, when supplied to
// json.Marshal, projects a response value down to what the selection
// requests: only the selected fields survive at each level (no explicit
// Fields means the level passes through whole), the "expand" wrapper is kept
// only when expansions were requested and is filtered to the requested keys,
// and arrays are narrowed element-wise. This is the runtime analog of the
// per-level field narrowing the serialized fields parameter asks the backend
// to perform.
func NarrowMarshalers(n Node) *json.Marshalers {
	return json.MarshalToFunc(func(enc *jsontext.Encoder, v any) error {
		var buf bytes.Buffer
		if err := json.MarshalWrite(&buf, v); err != nil {
			return fmt.Errorf("marshal narrow source: %w", err)
		}
		dec := jsontext.NewDecoder(&buf)

		// copyRaw copies the next value from dec to enc verbatim.
		var copyRaw func() error
		copyRaw = func() error {
			switch dec.PeekKind() {
			case '{':
				if _, err := dec.ReadToken(); err != nil {
					return fmt.Errorf("read '{': %w", err)
				}
				if err := enc.WriteToken(jsontext.BeginObject); err != nil {
					return fmt.Errorf("write '{': %w", err)
				}
				for dec.PeekKind() != '}' {
					var key string
					if err := json.UnmarshalDecode(dec, &key); err != nil {
						return fmt.Errorf("read key (raw copy): %w", err)
					}
					if err := enc.WriteToken(jsontext.String(key)); err != nil {
						return fmt.Errorf("write key (raw copy): %w", err)
					}
					if err := copyRaw(); err != nil {
						return err
					}
				}
				if _, err := dec.ReadToken(); err != nil {
					return fmt.Errorf("read '}': %w", err)
				}
				if err := enc.WriteToken(jsontext.EndObject); err != nil {
					return fmt.Errorf("write '}': %w", err)
				}
			case '[':
				if _, err := dec.ReadToken(); err != nil {
					return fmt.Errorf("read '[': %w", err)
				}
				if err := enc.WriteToken(jsontext.BeginArray); err != nil {
					return fmt.Errorf("write '[': %w", err)
				}
				for dec.PeekKind() != ']' {
					if err := copyRaw(); err != nil {
						return err
					}
				}
				if _, err := dec.ReadToken(); err != nil {
					return fmt.Errorf("read ']': %w", err)
				}
				if err := enc.WriteToken(jsontext.EndArray); err != nil {
					return fmt.Errorf("write ']': %w", err)
				}
			default:
				tok, err := dec.ReadToken()
				if err != nil {
					return fmt.Errorf("read scalar: %w", err)
				}
				if err := enc.WriteToken(tok); err != nil {
					return fmt.Errorf("write scalar: %w", err)
				}
			}
			return nil
		}

		var copyNarrowed func(nn Node) error

		// copyWrapper filters an expand wrapper object to the requested
		// relation keys, each narrowed by its own subtree.
		copyWrapper := func(children []Node) error {
			if dec.PeekKind() != '{' {
				return copyRaw()
			}
			if _, err := dec.ReadToken(); err != nil {
				return fmt.Errorf("read '{': %w", err)
			}
			if err := enc.WriteToken(jsontext.BeginObject); err != nil {
				return fmt.Errorf("write '{': %w", err)
			}
			for dec.PeekKind() != '}' {
				var key string
				if err := json.UnmarshalDecode(dec, &key); err != nil {
					return fmt.Errorf("read expand key: %w", err)
				}
				var child *Node
				for i := range children {
					if children[i].Key == key {
						child = &children[i]
						break
					}
				}
				if child == nil {
					if err := dec.SkipValue(); err != nil {
						return fmt.Errorf("skip expand %q: %w", key, err)
					}
					continue
				}
				if err := enc.WriteToken(jsontext.String(key)); err != nil {
					return fmt.Errorf("write expand key %q: %w", key, err)
				}
				if err := copyNarrowed(*child); err != nil {
					return err
				}
			}
			if _, err := dec.ReadToken(); err != nil {
				return fmt.Errorf("read '}': %w", err)
			}
			return enc.WriteToken(jsontext.EndObject)
		}

		// copyNarrowed copies the next value keeping only what nn selects.
		copyNarrowed = func(nn Node) error {
			switch dec.PeekKind() {
			case '{':
				var allow map[string]bool
				if len(nn.Fields) > 0 {
					allow = make(map[string]bool, len(nn.Fields))
					for _, f := range nn.Fields {
						allow[FieldName(f)] = true
					}
				}
				if _, err := dec.ReadToken(); err != nil {
					return fmt.Errorf("read '{': %w", err)
				}
				if err := enc.WriteToken(jsontext.BeginObject); err != nil {
					return fmt.Errorf("write '{': %w", err)
				}
				for dec.PeekKind() != '}' {
					var key string
					if err := json.UnmarshalDecode(dec, &key); err != nil {
						return fmt.Errorf("read key: %w", err)
					}
					if key == "expand" {
						if len(nn.Expand) == 0 {
							if err := dec.SkipValue(); err != nil {
								return fmt.Errorf("skip expand: %w", err)
							}
							continue
						}
						if err := enc.WriteToken(jsontext.String(key)); err != nil {
							return fmt.Errorf("write key %q: %w", key, err)
						}
						if err := copyWrapper(nn.Expand); err != nil {
							return err
						}
						continue
					}
					if allow != nil && !allow[key] {
						if err := dec.SkipValue(); err != nil {
							return fmt.Errorf("skip field %q: %w", key, err)
						}
						continue
					}
					if err := enc.WriteToken(jsontext.String(key)); err != nil {
						return fmt.Errorf("write key %q: %w", key, err)
					}
					if err := copyRaw(); err != nil {
						return err
					}
				}
				if _, err := dec.ReadToken(); err != nil {
					return fmt.Errorf("read '}': %w", err)
				}
				return enc.WriteToken(jsontext.EndObject)
			case '[':
				if _, err := dec.ReadToken(); err != nil {
					return fmt.Errorf("read '[': %w", err)
				}
				if err := enc.WriteToken(jsontext.BeginArray); err != nil {
					return fmt.Errorf("write '[': %w", err)
				}
				for dec.PeekKind() != ']' {
					if err := copyNarrowed(nn); err != nil {
						return err
					}
				}
				if _, err := dec.ReadToken(); err != nil {
					return fmt.Errorf("read ']': %w", err)
				}
				return enc.WriteToken(jsontext.EndArray)
			default:
				return copyRaw()
			}
		}

		return copyNarrowed(n)
	})
}
