// Package wikiapi builds query descriptors and response handlers for the
// MediaWiki action API.
package wikiapi

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/wikitalk/crawler/pkg/fetch"
)

// DefaultBaseURL is the English Wikipedia action API endpoint.
const DefaultBaseURL = "https://en.wikipedia.org/w/api.php"

// MediaWiki namespace IDs.
const (
	NamespaceMain = 0
	NamespaceTalk = 1
)

// PageBatchSize is the maximum number of titles one revisions query may
// carry (API limit for unauthenticated clients).
const PageBatchSize = 50

// CategoryMembersQuery builds a descriptor listing the members of a category
// in the given namespace. The category paginates through cmcontinue.
func CategoryMembersQuery(baseURL, categoryTitle string, namespace int) fetch.Descriptor {
	q := fmt.Sprintf("%s?action=query&list=categorymembers&cmtitle=%s&cmnamespace=%d&format=json&cmlimit=500",
		baseURL, url.QueryEscape(categoryTitle), namespace)

	return fetch.Descriptor{
		BaseQuery:     q,
		ContinueParam: "&cmcontinue=",
	}
}

// AllPagesPrefixQuery builds a descriptor listing page titles starting with
// prefix in the given namespace. Single page by construction: one response
// carries up to 500 titles, which covers any archive series.
func AllPagesPrefixQuery(baseURL, prefix string, namespace int) fetch.Descriptor {
	q := fmt.Sprintf("%s?action=query&list=allpages&apprefix=%s&apnamespace=%d&format=json&aplimit=500",
		baseURL, url.QueryEscape(prefix), namespace)

	return fetch.Descriptor{BaseQuery: q}
}

// PageContentQuery builds a descriptor fetching the latest revision content
// of up to PageBatchSize titles in one request.
func PageContentQuery(baseURL string, titles []string) fetch.Descriptor {
	q := fmt.Sprintf("%s?action=query&prop=revisions&rvprop=content&rvslots=*&format=json&titles=%s",
		baseURL, url.QueryEscape(strings.Join(titles, "|")))

	return fetch.Descriptor{BaseQuery: q}
}

// Chunk splits titles into batches of at most n for the per-request title
// limit. The last batch may be shorter.
func Chunk(titles []string, n int) [][]string {
	if n <= 0 {
		n = PageBatchSize
	}

	var batches [][]string
	for start := 0; start < len(titles); start += n {
		end := start + n
		if end > len(titles) {
			end = len(titles)
		}
		batches = append(batches, titles[start:end])
	}
	return batches
}
