package pbopt_test

import (
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/stretchr/testify/require"

	pbopt "github.com/satohshi/pb-option-builder"
)

type testUser struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type testComment struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type testPostExpand struct {
	Author   *testUser     `json:"author,omitempty"`
	Comments []testComment `json:"comments,omitempty"`
}

type testPost struct {
	ID     string          `json:"id"`
	Title  string          `json:"title"`
	Body   string          `json:"body"`
	Expand *testPostExpand `json:"expand,omitempty"`
}

func buildPost() testPost {
	return testPost{
		ID:    "p1",
		Title: "hello",
		Body:  "long body",
		Expand: &testPostExpand{
			Author:   &testUser{ID: "u1", Name: "ann"},
			Comments: []testComment{{ID: "c1", Message: "hi"}, {ID: "c2", Message: "yo"}},
		},
	}
}

func TestNarrowMarshalers(t *testing.T) {
	t.Run("explicit fields drop the rest and the wrapper", func(t *testing.T) {
		n := pbopt.Node{Fields: []string{"id", "title"}}
		out, err := json.Marshal(buildPost(), json.WithMarshalers(pbopt.NarrowMarshalers(n)))
		require.NoError(t, err)
		require.JSONEq(t, `{"id":"p1","title":"hello"}`, string(out))
	})

	t.Run("requested expansion filtered by key and narrowed", func(t *testing.T) {
		n := pbopt.Node{
			Fields: []string{"id"},
			Expand: []pbopt.Node{{Key: "author", Fields: []string{"name"}}},
		}
		out, err := json.Marshal(buildPost(), json.WithMarshalers(pbopt.NarrowMarshalers(n)))
		require.NoError(t, err)
		require.JSONEq(t, `{"id":"p1","expand":{"author":{"name":"ann"}}}`, string(out))
	})

	t.Run("fieldless level passes through whole", func(t *testing.T) {
		n := pbopt.Node{Expand: []pbopt.Node{{Key: "comments", Fields: []string{"message"}}}}
		out, err := json.Marshal(buildPost(), json.WithMarshalers(pbopt.NarrowMarshalers(n)))
		require.NoError(t, err)
		require.JSONEq(t, `{
			"id":"p1","title":"hello","body":"long body",
			"expand":{"comments":[{"message":"hi"},{"message":"yo"}]}
		}`, string(out))
	})

	t.Run("modifier specs narrow by bare name", func(t *testing.T) {
		n := pbopt.Node{Fields: []string{pbopt.Excerpt("body", 10, false)}}
		out, err := json.Marshal(buildPost(), json.WithMarshalers(pbopt.NarrowMarshalers(n)))
		require.NoError(t, err)
		require.JSONEq(t, `{"body":"long body"}`, string(out))
	})

	t.Run("arrays narrowed element-wise", func(t *testing.T) {
		n := pbopt.Node{Fields: []string{"id"}}
		out, err := json.Marshal([]testPost{buildPost(), buildPost()}, json.WithMarshalers(pbopt.NarrowMarshalers(n)))
		require.NoError(t, err)
		require.JSONEq(t, `[{"id":"p1"},{"id":"p1"}]`, string(out))
	})

	t.Run("scalar input copied verbatim", func(t *testing.T) {
		out, err := json.Marshal("plain", json.WithMarshalers(pbopt.NarrowMarshalers(pbopt.Node{Fields: []string{"id"}})))
		require.NoError(t, err)
		require.Equal(t, `"plain"`, string(out))
	})
}
