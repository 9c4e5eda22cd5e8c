package pbopt_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	pbopt "github.com/satohshi/pb-option-builder"
)

func TestNodeMerge(t *testing.T) {
	t.Run("nil receiver adopts other as deep copy", func(t *testing.T) {
		var base *pbopt.Node
		other := &pbopt.Node{Key: "posts", Fields: []string{"id"}}
		got := base.Merge(other)
		require.NotNil(t, got)
		require.Equal(t, []string{"id"}, got.Fields)
		other.Fields[0] = "changed"
		require.Equal(t, "id", got.Fields[0])
	})

	t.Run("nil other returns clone", func(t *testing.T) {
		base := &pbopt.Node{Key: "posts", Fields: []string{"id"}}
		got := base.Merge(nil)
		require.NotSame(t, base, got)
		base.Fields[0] = "changed"
		require.Equal(t, "id", got.Fields[0])
	})

	t.Run("disjoint fields appended after base", func(t *testing.T) {
		base := &pbopt.Node{Fields: []string{"id", "title"}}
		other := &pbopt.Node{Fields: []string{"created"}}
		require.Equal(t, []string{"id", "title", "created"}, base.Merge(other).Fields)
	})

	t.Run("overlapping field keeps base spec", func(t *testing.T) {
		base := &pbopt.Node{Fields: []string{pbopt.Excerpt("body", 100, false)}}
		other := &pbopt.Node{Fields: []string{"body"}}
		require.Equal(t, []string{"body:excerpt(100)"}, base.Merge(other).Fields)
	})

	t.Run("expand children merged recursively by key", func(t *testing.T) {
		base := &pbopt.Node{Expand: []pbopt.Node{
			{Key: "comments", Fields: []string{"id"}},
		}}
		other := &pbopt.Node{Expand: []pbopt.Node{
			{Key: "comments", Fields: []string{"message"}, Expand: []pbopt.Node{{Key: "user"}}},
			{Key: "tags"},
		}}
		got := base.Merge(other)
		require.Len(t, got.Expand, 2)
		require.Equal(t, "comments", got.Expand[0].Key)
		require.Equal(t, []string{"id", "message"}, got.Expand[0].Fields)
		require.Len(t, got.Expand[0].Expand, 1)
		require.Equal(t, "user", got.Expand[0].Expand[0].Key)
		require.Equal(t, "tags", got.Expand[1].Key)
	})

	t.Run("inputs never mutated", func(t *testing.T) {
		base := &pbopt.Node{Expand: []pbopt.Node{{Key: "comments", Fields: []string{"id"}}}}
		other := &pbopt.Node{Expand: []pbopt.Node{{Key: "comments", Fields: []string{"message"}}}}
		got := base.Merge(other)
		base.Expand[0].Fields[0] = "x"
		other.Expand[0].Fields[0] = "y"
		require.Equal(t, []string{"id", "message"}, got.Expand[0].Fields)
	})

	t.Run("empty both yields empty node", func(t *testing.T) {
		got := (&pbopt.Node{}).Merge(&pbopt.Node{})
		require.NotNil(t, got)
		require.Empty(t, got.Fields)
		require.Empty(t, got.Expand)
	})
}
