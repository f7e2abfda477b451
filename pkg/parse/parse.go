// Package parse extracts link and title data from fetched wiki page content.
// It consumes the opaque revisions payload produced by the fetch engine.
package parse

import (
	"regexp"
	"sort"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`[\n\t ]+`)
	userLinkRe   = regexp.MustCompile(`\[(User:[^/\]\[|]+)[\]|]`)
	originRe     = regexp.MustCompile(`^([^/]+)`)
)

// TalkPage is the parse result of one talk page revision.
type TalkPage struct {
	// OriginTitle is the page title with any subpage suffix stripped, so
	// archive pages attribute their links to the parent talk page.
	OriginTitle string

	// UserLinks are the unique User: page links found in the content, sorted.
	UserLinks []string
}

// WikiPage is the parse result of one article page revision.
type WikiPage struct {
	OriginTitle string
}

// ParseTalkPage extracts the origin title and User: links from one page
// object of a revisions payload. Returns false for pages that do not exist
// (no revisions field).
func ParseTalkPage(page map[string]any) (*TalkPage, bool) {
	content, title, ok := revisionContent(page)
	if !ok {
		return nil, false
	}

	content = whitespaceRe.ReplaceAllString(content, " ")

	matches := userLinkRe.FindAllStringSubmatch(content, -1)
	links := make([]string, 0, len(matches))
	seen := make(map[string]bool, len(matches))
	for _, m := range matches {
		if !seen[m[1]] {
			seen[m[1]] = true
			links = append(links, m[1])
		}
	}
	sort.Strings(links)

	return &TalkPage{
		OriginTitle: originTitle(title),
		UserLinks:   links,
	}, true
}

// ParseWikiPage extracts the title of one existing article page. Returns
// false for pages that do not exist.
func ParseWikiPage(page map[string]any) (*WikiPage, bool) {
	_, title, ok := revisionContent(page)
	if !ok {
		return nil, false
	}
	return &WikiPage{OriginTitle: title}, true
}

// revisionContent digs the latest revision wikitext out of one page object.
// Layout: revisions[0].slots.main["*"] (rvslots=* request format).
func revisionContent(page map[string]any) (content, title string, ok bool) {
	if page == nil {
		return "", "", false
	}

	title, _ = page["title"].(string)

	revisions, ok := page["revisions"].([]any)
	if !ok || len(revisions) == 0 {
		return "", "", false
	}
	rev, ok := revisions[0].(map[string]any)
	if !ok {
		return "", "", false
	}
	slots, ok := rev["slots"].(map[string]any)
	if !ok {
		return "", "", false
	}
	main, ok := slots["main"].(map[string]any)
	if !ok {
		return "", "", false
	}
	content, ok = main["*"].(string)
	if !ok {
		return "", "", false
	}

	return content, title, true
}

// originTitle strips any subpage suffix ("Talk:HIV/Archive 1" -> "Talk:HIV").
func originTitle(title string) string {
	if m := originRe.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return title
}

// StripTalkPrefix maps a talk page title to its article title.
func StripTalkPrefix(title string) string {
	return strings.Replace(title, "Talk:", "", 1)
}
