package mongodb

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	pbopt "github.com/satohshi/pb-option-builder"
)

func TestProjection(t *testing.T) {
	t.Run("empty selection empty projection", func(t *testing.T) {
		require.Equal(t, bson.D{}, Projection(pbopt.Node{}))
		require.Equal(t, bson.D{}, Projection(pbopt.Node{Key: "posts"}))
	})

	t.Run("no explicit fields anywhere empty projection", func(t *testing.T) {
		n := pbopt.Node{Key: "posts", Expand: []pbopt.Node{
			{Key: "comments", Expand: []pbopt.Node{{Key: "user"}}},
		}}
		require.Equal(t, bson.D{}, Projection(n))
	})

	t.Run("root fields simple inclusion", func(t *testing.T) {
		n := pbopt.Node{Key: "posts", Fields: []string{"id", "title"}}
		want := bson.D{
			{Key: "id", Value: 1},
			{Key: "title", Value: 1},
		}
		require.Equal(t, want, Projection(n))
	})

	t.Run("modifiers stripped from paths", func(t *testing.T) {
		n := pbopt.Node{Fields: []string{pbopt.Excerpt("body", 200, true)}}
		require.Equal(t, bson.D{{Key: "body", Value: 1}}, Projection(n))
	})

	t.Run("nested fields use expand paths", func(t *testing.T) {
		n := pbopt.Node{
			Fields: []string{"id"},
			Expand: []pbopt.Node{
				{Key: "comments", Fields: []string{"message"}, Expand: []pbopt.Node{
					{Key: "user", Fields: []string{"name"}},
				}},
			},
		}
		want := bson.D{
			{Key: "id", Value: 1},
			{Key: "expand.comments.message", Value: 1},
			{Key: "expand.comments.expand.user.name", Value: 1},
		}
		require.Equal(t, want, Projection(n))
	})

	t.Run("fieldless subtree included wholesale", func(t *testing.T) {
		n := pbopt.Node{
			Fields: []string{"id"},
			Expand: []pbopt.Node{
				{Key: "tags"},
				{Key: "comments", Fields: []string{"message"}},
			},
		}
		want := bson.D{
			{Key: "id", Value: 1},
			{Key: "expand.tags", Value: 1},
			{Key: "expand.comments.message", Value: 1},
		}
		require.Equal(t, want, Projection(n))
	})

	t.Run("order follows the selection deterministically", func(t *testing.T) {
		n := pbopt.Node{Fields: []string{"b", "a"}}
		require.Equal(t, bson.D{{Key: "b", Value: 1}, {Key: "a", Value: 1}}, Projection(n))
	})
}
