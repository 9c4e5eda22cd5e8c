// Package gen renders Go record structs from a declared schema, one struct
// per collection plus an Expand wrapper struct for its forward relations.
// Generated types describe the maximal response shape: every expansion entry
// is a pointer or slice with omitempty, since an entry is absent whenever it
// was not requested or its optional relation had no value. Per-selection
// presence rules live in pbopt.Schema.Shape.
package gen

import (
	"fmt"
	"go/format"
	"sort"
	"strings"

	pbopt "github.com/satohshi/pb-option-builder"
)

type Options struct {
	// Package is the package clause of the generated file, "model" if empty.
	Package string
}

// File renders the generated source for every collection in the schema,
// gofmt-formatted. Collections and relation keys are emitted in sorted order
// so regeneration is stable.
func File(s *pbopt.Schema, opts Options) ([]byte, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = "model"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "// Code generated by pboptgen. DO NOT EDIT.\n\npackage %s\n\n", pkg)

	names := make([]string, 0, len(s.Collections))
	for name := range s.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := writeCollection(&b, name, s.Collections[name]); err != nil {
			return nil, err
		}
	}

	src, err := format.Source([]byte(b.String()))
	if err != nil {
		return nil, fmt.Errorf("format generated source: %w", err)
	}
	return src, nil
}

func writeCollection(b *strings.Builder, name string, col pbopt.Collection) error {
	tname := GoName(name)
	fmt.Fprintf(b, "// %s is a record of the %q collection.\n", tname, name)
	fmt.Fprintf(b, "type %s struct {\n", tname)
	for _, f := range col.Fields {
		bare := pbopt.FieldName(f)
		gt, err := goType(f)
		if err != nil {
			return fmt.Errorf("collection %q: %w", name, err)
		}
		fmt.Fprintf(b, "\t%s %s `json:%q`\n", GoName(bare), gt, bare)
	}
	if len(col.Relations) > 0 {
		fmt.Fprintf(b, "\tExpand *%sExpand `json:\"expand,omitempty\"`\n", tname)
	}
	b.WriteString("}\n\n")

	if len(col.Relations) == 0 {
		return nil
	}
	keys := make([]string, 0, len(col.Relations))
	for key := range col.Relations {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	fmt.Fprintf(b, "// %sExpand holds the expanded relations of a %s record.\n", tname, tname)
	fmt.Fprintf(b, "type %sExpand struct {\n", tname)
	for _, key := range keys {
		rel := col.Relations[key]
		target := GoName(rel.Collection)
		if rel.Many {
			fmt.Fprintf(b, "\t%s []%s `json:\"%s,omitempty\"`\n", GoName(key), target, key)
		} else {
			fmt.Fprintf(b, "\t%s *%s `json:\"%s,omitempty\"`\n", GoName(key), target, key)
		}
	}
	b.WriteString("}\n\n")
	return nil
}

// GoName converts a schema name to an exported Go identifier:
// "comment_votes" -> "CommentVotes", "id" -> "ID".
func GoName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})
	var b strings.Builder
	for _, p := range parts {
		switch p {
		case "id":
			b.WriteString("ID")
		case "url":
			b.WriteString("URL")
		case "json":
			b.WriteString("JSON")
		default:
			b.WriteString(strings.ToUpper(p[:1]))
			b.WriteString(p[1:])
		}
	}
	return b.String()
}

// goType maps a schema field spec's type suffix to a Go type. No suffix
// means string, the backend's default scalar encoding.
func goType(spec string) (string, error) {
	bare := pbopt.FieldName(spec)
	typ := ""
	if len(spec) > len(bare) {
		typ = spec[len(bare)+1:]
	}
	switch typ {
	case "", "string", "text", "email", "url", "date":
		return "string", nil
	case "number":
		return "float64", nil
	case "bool":
		return "bool", nil
	case "json":
		return "any", nil
	}
	return "", fmt.Errorf("field %q: unknown type %q", bare, typ)
}
