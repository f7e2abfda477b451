package wikiapi

import (
	"fmt"

	"github.com/wikitalk/crawler/pkg/fetch"
)

// CategoryMembersHandler extracts category member objects and the cmcontinue
// token from a list=categorymembers response.
type CategoryMembersHandler struct{}

// Handle implements fetch.Handler.
func (CategoryMembersHandler) Handle(body map[string]any) (fetch.Payload, error) {
	members, err := queryList(body, "categorymembers")
	if err != nil {
		return fetch.Payload{}, err
	}

	return fetch.Payload{
		Items: members,
		Token: continueToken(body, "cmcontinue"),
	}, nil
}

// AllPagesHandler extracts page titles from a list=allpages response. It
// never continues: the first page of titles is final.
type AllPagesHandler struct{}

// Handle implements fetch.Handler.
func (AllPagesHandler) Handle(body map[string]any) (fetch.Payload, error) {
	pages, err := queryList(body, "allpages")
	if err != nil {
		return fetch.Payload{}, err
	}

	titles := make([]any, 0, len(pages))
	for _, p := range pages {
		entry, ok := p.(map[string]any)
		if !ok {
			return fetch.Payload{}, fmt.Errorf("allpages entry is not an object")
		}
		title, ok := entry["title"].(string)
		if !ok {
			return fetch.Payload{}, fmt.Errorf("allpages entry has no title")
		}
		titles = append(titles, title)
	}

	return fetch.Payload{Items: titles}, nil
}

// RevisionsHandler extracts the pages mapping (keyed by page ID) from a
// prop=revisions response. It never continues.
type RevisionsHandler struct{}

// Handle implements fetch.Handler.
func (RevisionsHandler) Handle(body map[string]any) (fetch.Payload, error) {
	query, ok := body["query"].(map[string]any)
	if !ok {
		return fetch.Payload{}, fmt.Errorf("response has no query object")
	}
	pages, ok := query["pages"].(map[string]any)
	if !ok {
		return fetch.Payload{}, fmt.Errorf("query has no pages mapping")
	}

	return fetch.Payload{Fields: pages}, nil
}

// queryList extracts query.<field> as a list.
func queryList(body map[string]any, field string) ([]any, error) {
	query, ok := body["query"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response has no query object")
	}
	list, ok := query[field].([]any)
	if !ok {
		return nil, fmt.Errorf("query has no %s list", field)
	}
	return list, nil
}

// continueToken extracts continue.<param> from the conventional top-level
// continue field. Absence means the last page.
func continueToken(body map[string]any, param string) string {
	cont, ok := body["continue"].(map[string]any)
	if !ok {
		return ""
	}
	token, _ := cont[param].(string)
	return token
}
