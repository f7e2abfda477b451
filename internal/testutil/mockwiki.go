// Package testutil provides a configurable mock MediaWiki action API server
// for testing.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
)

// Member is one category member entry.
type Member struct {
	PageID int    `json:"pageid"`
	Title  string `json:"title"`
}

// MockWiki is a configurable mock wiki API server. Fixture maps are read by
// the handler; configure them before issuing requests.
type MockWiki struct {
	server *httptest.Server

	mu           sync.Mutex
	requestCount int
	requests     []url.Values
	handlers     map[string]http.HandlerFunc

	// Categories maps a category title to its member pages, pre-split into
	// response pages. More than one page produces cmcontinue tokens.
	Categories map[string][][]Member

	// Prefixes maps an allpages prefix to the titles it matches.
	Prefixes map[string][]string

	// PageContent maps a page title to its latest revision wikitext. Titles
	// absent from the map are served as missing pages.
	PageContent map[string]string
}

// NewMockWiki creates a started mock wiki API server.
func NewMockWiki() *MockWiki {
	mock := &MockWiki{
		handlers:    make(map[string]http.HandlerFunc),
		Categories:  make(map[string][][]Member),
		Prefixes:    make(map[string][]string),
		PageContent: make(map[string]string),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()

		mock.mu.Lock()
		mock.requestCount++
		mock.requests = append(mock.requests, params)
		handler, custom := mock.handlers[params.Get("list")+params.Get("prop")]
		mock.mu.Unlock()

		if custom {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, params)
	}))

	return mock
}

// URL returns the mock API endpoint URL.
func (m *MockWiki) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockWiki) Close() {
	m.server.Close()
}

// RequestCount returns the number of requests served.
func (m *MockWiki) RequestCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestCount
}

// Requests returns the query parameters of every request served, in order.
func (m *MockWiki) Requests() []url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]url.Values, len(m.requests))
	copy(out, m.requests)
	return out
}

// Reset clears request tracking.
func (m *MockWiki) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestCount = 0
	m.requests = nil
}

// SetHandler overrides responses for one resource family ("categorymembers",
// "allpages", or "revisions").
func (m *MockWiki) SetHandler(family string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[family] = handler
}

// defaultHandler serves the fixture maps in the action API response format.
func (m *MockWiki) defaultHandler(w http.ResponseWriter, params url.Values) {
	switch {
	case params.Get("list") == "categorymembers":
		m.serveCategoryMembers(w, params)
	case params.Get("list") == "allpages":
		m.serveAllPages(w, params)
	case params.Get("prop") == "revisions":
		m.serveRevisions(w, params)
	default:
		writeJSON(w, map[string]any{
			"error": map[string]any{"code": "unknown_action"},
		})
	}
}

func (m *MockWiki) serveCategoryMembers(w http.ResponseWriter, params url.Values) {
	m.mu.Lock()
	pages := m.Categories[params.Get("cmtitle")]
	m.mu.Unlock()

	pageIndex := 0
	if token := params.Get("cmcontinue"); token != "" {
		fmt.Sscanf(token, "page-%d", &pageIndex)
	}

	var members []Member
	if pageIndex < len(pages) {
		members = pages[pageIndex]
	}
	if members == nil {
		members = []Member{}
	}

	body := map[string]any{
		"query": map[string]any{"categorymembers": members},
	}
	if pageIndex+1 < len(pages) {
		body["continue"] = map[string]any{
			"cmcontinue": fmt.Sprintf("page-%d", pageIndex+1),
		}
	}

	writeJSON(w, body)
}

func (m *MockWiki) serveAllPages(w http.ResponseWriter, params url.Values) {
	m.mu.Lock()
	titles := m.Prefixes[params.Get("apprefix")]
	m.mu.Unlock()

	pages := make([]map[string]any, 0, len(titles))
	for i, title := range titles {
		pages = append(pages, map[string]any{"pageid": i + 1, "title": title})
	}

	writeJSON(w, map[string]any{
		"query": map[string]any{"allpages": pages},
	})
}

func (m *MockWiki) serveRevisions(w http.ResponseWriter, params url.Values) {
	titles := strings.Split(params.Get("titles"), "|")

	pages := make(map[string]any, len(titles))
	for i, title := range titles {
		m.mu.Lock()
		content, exists := m.PageContent[title]
		m.mu.Unlock()

		if !exists {
			pages[fmt.Sprintf("-%d", i+1)] = map[string]any{
				"title":   title,
				"missing": "",
			}
			continue
		}

		pages[fmt.Sprintf("%d", i+1)] = map[string]any{
			"pageid": i + 1,
			"title":  title,
			"revisions": []any{
				map[string]any{
					"slots": map[string]any{
						"main": map[string]any{"*": content},
					},
				},
			},
		}
	}

	writeJSON(w, map[string]any{
		"query": map[string]any{"pages": pages},
	})
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
