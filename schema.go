package pbopt

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// Relation declares one relation field of a collection: the target
// collection, whether the value is a list (Many) and whether it may be absent
// from a record at runtime (Optional).
type Relation struct {
	Collection string `yaml:"collection" json:"collection"`
	Many       bool   `yaml:"many,omitempty" json:"many,omitempty"`
	Optional   bool   `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// Collection declares the scalar fields and forward relations of one
// collection. A field entry may carry a type suffix ("count:number",
// "active:bool"); it is consumed by the code generator and ignored
// everywhere else. Back-relations are never declared; they resolve through
// the "_via_" key convention against the forward side (see Schema.Relation).
type Collection struct {
	Fields    []string            `yaml:"fields" json:"fields"`
	Relations map[string]Relation `yaml:"relations,omitempty" json:"relations,omitempty"`
}

// Schema is the caller-declared collection table. The zero value is unusable;
// build one in code or load it from YAML:
//
//	collections:
//	  posts:
//	    fields: [id, title, body]
//	    relations:
//	      author: {collection: users}
//	      tags: {collection: tags, many: true, optional: true}
//	  users:
//	    fields: [id, name]
//	  tags:
//	    fields: [id, label]
type Schema struct {
	Collections map[string]Collection `yaml:"collections" json:"collections"`
}

// ParseSchema decodes and validates a YAML schema document.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadSchema reads and parses a YAML schema file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return ParseSchema(data)
}

// Validate checks declaration-time consistency: every name must be free of
// characters meaningful to the path syntax, and every relation must target a
// declared collection. Selection trees built by hand bypass all of this; only
// Check enforces the schema against a concrete selection.
func (s *Schema) Validate() error {
	if len(s.Collections) == 0 {
		return fmt.Errorf("schema declares no collections")
	}
	for name, col := range s.Collections {
		if err := validKey(name); err != nil {
			return fmt.Errorf("collection %q: %w", name, err)
		}
		for _, f := range col.Fields {
			if err := validKey(FieldName(f)); err != nil {
				return fmt.Errorf("collection %q field %q: %w", name, f, err)
			}
		}
		for key, rel := range col.Relations {
			if err := validKey(key); err != nil {
				return fmt.Errorf("collection %q relation %q: %w", name, key, err)
			}
			if _, ok := s.Collections[rel.Collection]; !ok {
				return fmt.Errorf("collection %q relation %q: unknown target collection %q", name, key, rel.Collection)
			}
		}
	}
	return nil
}

// Relation resolves an expand key on the named collection. Declared forward
// relations win; otherwise a "<target>_via_<field>" key is resolved as a
// back-relation, which requires the forward relation to be declared on the
// target and to point back here. Back-relations always project as to-many
// and optional.
func (s *Schema) Relation(collection, key string) (Relation, error) {
	col, ok := s.Collections[collection]
	if !ok {
		return Relation{}, fmt.Errorf("unknown collection %q", collection)
	}
	if rel, ok := col.Relations[key]; ok {
		return rel, nil
	}
	if target, field, ok := strings.Cut(key, "_via_"); ok {
		tcol, ok := s.Collections[target]
		if !ok {
			return Relation{}, fmt.Errorf("back-relation %q: unknown collection %q", key, target)
		}
		forward, ok := tcol.Relations[field]
		if !ok {
			return Relation{}, fmt.Errorf("back-relation %q: collection %q declares no relation %q", key, target, field)
		}
		if forward.Collection != collection {
			return Relation{}, fmt.Errorf("back-relation %q: %s.%s targets %q, not %q", key, target, field, forward.Collection, collection)
		}
		return Relation{Collection: target, Many: true, Optional: true}, nil
	}
	return Relation{}, fmt.Errorf("collection %q has no relation %q", collection, key)
}

// Check validates a selection against the schema: the root key must name a
// collection, every field spec must name a declared field (bare "*" is
// allowed), and every expand key must resolve to a relation. Callers may skip
// Check entirely and keep the serializer's unvalidated contract.
func (s *Schema) Check(sel Selection) error {
	if _, ok := s.Collections[sel.Key]; !ok {
		return fmt.Errorf("unknown collection %q", sel.Key)
	}
	return s.checkNode(sel.Key, sel.Node, sel.Key)
}

func (s *Schema) checkNode(collection string, n Node, path string) error {
	col := s.Collections[collection]
	declared := make(map[string]bool, len(col.Fields))
	for _, f := range col.Fields {
		declared[FieldName(f)] = true
	}
	for _, f := range n.Fields {
		if name := FieldName(f); name != "*" && !declared[name] {
			return fmt.Errorf("%s: collection %q has no field %q", path, collection, name)
		}
	}
	for _, c := range n.Expand {
		rel, err := s.Relation(collection, c.Key)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := s.checkNode(rel.Collection, c, path+"."+c.Key); err != nil {
			return err
		}
	}
	return nil
}

// validKey rejects names that would corrupt the comma-and-dot path syntax.
func validKey(name string) error {
	if name == "" {
		return fmt.Errorf("empty name")
	}
	if i := strings.IndexAny(name, ".,()* \t\n"); i >= 0 {
		return fmt.Errorf("name contains reserved character %q", name[i])
	}
	return nil
}
