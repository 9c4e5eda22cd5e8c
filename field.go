package pbopt

import (
	"strconv"
	"strings"
)

// Excerpt builds a field spec carrying the backend's excerpt modifier, which
// truncates long text fields server-side: "body:excerpt(200,true)". The
// modifier is preserved verbatim in the serialized fields parameter.
func Excerpt(name string, maxLength int, withEllipsis bool) string {
	spec := name + ":excerpt(" + strconv.Itoa(maxLength)
	if withEllipsis {
		spec += ",true"
	}
	return spec + ")"
}

// FieldName strips any modifier from a field spec, returning the bare field
// name: "body:excerpt(200)" -> "body".
func FieldName(spec string) string {
	if i := strings.IndexByte(spec, ':'); i >= 0 {
		return spec[:i]
	}
	return spec
}
