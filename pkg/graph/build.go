package graph

import (
	"github.com/wikitalk/crawler/pkg/parse"
)

// Build assembles the page graph the crawl pipeline produces: one talk→page
// edge per title pair, plus one user→talk edge per User: link found on a
// talk page or its archives. Returns the graph and the user edge count.
//
// talkTitles and wikiTitles correspond by position. Links whose origin talk
// page is not in the graph are dropped (stale category members).
func Build(talkTitles, wikiTitles []string, talkData []*parse.TalkPage) (*Graph, int) {
	g := New()

	for i, talkTitle := range talkTitles {
		if i >= len(wikiTitles) {
			break
		}
		g.AddNode(talkTitle, ClassTalk)
		g.AddNode(wikiTitles[i], ClassPage)
		g.AddEdge(talkTitle, wikiTitles[i])
	}

	userEdges := 0
	for _, page := range talkData {
		if page == nil {
			continue
		}
		if !g.HasNode(page.OriginTitle) {
			continue
		}
		for _, link := range page.UserLinks {
			if !g.HasNode(link) {
				g.AddNode(link, ClassUser)
			}
			g.AddEdge(link, page.OriginTitle)
			userEdges++
		}
	}

	return g, userEdges
}
