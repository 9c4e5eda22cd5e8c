package mongodb

// Package mongodb translates selection trees into MongoDB projection
// documents (bson.D) for callers mirroring backend records, expanded
// relations included, into a local collection.

import (
	"strings"

	pbopt "github.com/satohshi/pb-option-builder"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// Projection converts a selection tree into a bson.D inclusion projection
// over the mirrored document layout (expanded relations live under
// "expand.<key>"). Strategy:
//   - Explicitly selected fields become dotted inclusion paths, modifiers
//     stripped.
//   - A nested level whose whole subtree names no explicit fields is
//     included wholesale via its base path.
//   - A selection with no explicit fields anywhere yields an empty
//     projection, meaning all fields.
//
// Limitations: an inclusion projection cannot say "all root scalars plus
// only these nested fields", so when nested levels narrow and the root does
// not, the root's scalars are covered only if listed explicitly.
func Projection(n pbopt.Node) bson.D {
	if !hasFields(n) {
		return bson.D{}
	}
	out := make(bson.D, 0, 8)
	var walk func(nn pbopt.Node, base string)
	walk = func(nn pbopt.Node, base string) {
		if len(nn.Fields) > 0 {
			for _, f := range nn.Fields {
				out = append(out, bson.E{Key: base + pbopt.FieldName(f), Value: 1})
			}
		} else if !hasFields(nn) {
			out = append(out, bson.E{Key: strings.TrimSuffix(base, "."), Value: 1})
			return
		}
		for _, c := range nn.Expand {
			walk(c, base+"expand."+c.Key+".")
		}
	}
	walk(n, "")
	return out
}

func hasFields(n pbopt.Node) bool {
	if len(n.Fields) > 0 {
		return true
	}
	for _, c := range n.Expand {
		if hasFields(c) {
			return true
		}
	}
	return false
}
