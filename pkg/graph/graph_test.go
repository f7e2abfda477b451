package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikitalk/crawler/pkg/parse"
)

func TestGraph_AddNodeAndEdge(t *testing.T) {
	g := New()

	g.AddNode("Talk:HIV", ClassTalk)
	g.AddNode("HIV", ClassPage)
	g.AddEdge("Talk:HIV", "HIV")

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, ClassTalk, g.Class("Talk:HIV"))
	assert.True(t, g.HasNode("HIV"))
	assert.False(t, g.HasNode("Malaria"))
}

func TestGraph_EdgeCreatesEndpoints(t *testing.T) {
	g := New()

	g.AddEdge("User:Alice", "Talk:HIV")

	assert.True(t, g.HasNode("User:Alice"))
	assert.True(t, g.HasNode("Talk:HIV"))
	assert.Equal(t, NodeClass(""), g.Class("User:Alice"))
}

func TestGraph_DuplicateEdgesCollapse(t *testing.T) {
	g := New()

	g.AddEdge("a", "b")
	g.AddEdge("a", "b")

	assert.Equal(t, 1, g.EdgeCount())
}

func TestGraph_SortedAccessors(t *testing.T) {
	g := New()
	g.AddEdge("c", "a")
	g.AddEdge("a", "b")
	g.AddEdge("a", "a")

	assert.Equal(t, []string{"a", "b", "c"}, g.Nodes())
	assert.Equal(t, []Edge{
		{From: "a", To: "a"},
		{From: "a", To: "b"},
		{From: "c", To: "a"},
	}, g.Edges())
}

func TestBuild(t *testing.T) {
	talkTitles := []string{"Talk:HIV", "Talk:Malaria"}
	wikiTitles := []string{"HIV", "Malaria"}
	talkData := []*parse.TalkPage{
		{OriginTitle: "Talk:HIV", UserLinks: []string{"User:Alice", "User:Bob"}},
		{OriginTitle: "Talk:Malaria", UserLinks: []string{"User:Alice"}},
	}

	g, userEdges := Build(talkTitles, wikiTitles, talkData)

	require.Equal(t, 3, userEdges)
	// 2 talk + 2 page + 2 user nodes
	assert.Equal(t, 6, g.NodeCount())
	// 2 talk->page + 3 user->talk edges
	assert.Equal(t, 5, g.EdgeCount())

	assert.Equal(t, ClassTalk, g.Class("Talk:HIV"))
	assert.Equal(t, ClassPage, g.Class("HIV"))
	assert.Equal(t, ClassUser, g.Class("User:Alice"))

	assert.Contains(t, g.Edges(), Edge{From: "Talk:HIV", To: "HIV"})
	assert.Contains(t, g.Edges(), Edge{From: "User:Alice", To: "Talk:Malaria"})
}

func TestBuild_DropsLinksWithUnknownOrigin(t *testing.T) {
	g, userEdges := Build(
		[]string{"Talk:HIV"},
		[]string{"HIV"},
		[]*parse.TalkPage{
			{OriginTitle: "Talk:Stale", UserLinks: []string{"User:Alice"}},
		},
	)

	assert.Equal(t, 0, userEdges)
	assert.False(t, g.HasNode("User:Alice"))
	assert.False(t, g.HasNode("Talk:Stale"))
}

func TestBuild_SkipsNilPages(t *testing.T) {
	g, userEdges := Build(
		[]string{"Talk:HIV"},
		[]string{"HIV"},
		[]*parse.TalkPage{nil},
	)

	assert.Equal(t, 0, userEdges)
	assert.Equal(t, 2, g.NodeCount())
}

func TestBuild_TruncatedWikiTitles(t *testing.T) {
	// Positional pairing stops at the shorter slice
	g, _ := Build(
		[]string{"Talk:HIV", "Talk:Malaria"},
		[]string{"HIV"},
		nil,
	)

	assert.True(t, g.HasNode("Talk:HIV"))
	assert.False(t, g.HasNode("Talk:Malaria"))
}
