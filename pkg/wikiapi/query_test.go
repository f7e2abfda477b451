package wikiapi

import (
	"net/url"
	"reflect"
	"strings"
	"testing"
)

func TestCategoryMembersQuery(t *testing.T) {
	desc := CategoryMembersQuery(DefaultBaseURL, "Category:HIV/AIDS", NamespaceTalk)

	u, err := url.Parse(desc.BaseQuery)
	if err != nil {
		t.Fatalf("BaseQuery is not a valid URL: %v", err)
	}

	params := u.Query()
	if params.Get("action") != "query" {
		t.Errorf("action = %q", params.Get("action"))
	}
	if params.Get("list") != "categorymembers" {
		t.Errorf("list = %q", params.Get("list"))
	}
	if params.Get("cmtitle") != "Category:HIV/AIDS" {
		t.Errorf("cmtitle = %q", params.Get("cmtitle"))
	}
	if params.Get("cmnamespace") != "1" {
		t.Errorf("cmnamespace = %q", params.Get("cmnamespace"))
	}
	if params.Get("format") != "json" {
		t.Errorf("format = %q", params.Get("format"))
	}
	if params.Get("cmlimit") != "500" {
		t.Errorf("cmlimit = %q", params.Get("cmlimit"))
	}

	if desc.ContinueParam != "&cmcontinue=" {
		t.Errorf("ContinueParam = %q, want &cmcontinue=", desc.ContinueParam)
	}
}

func TestAllPagesPrefixQuery(t *testing.T) {
	desc := AllPagesPrefixQuery(DefaultBaseURL, "HIV/Archive", NamespaceTalk)

	u, err := url.Parse(desc.BaseQuery)
	if err != nil {
		t.Fatalf("BaseQuery is not a valid URL: %v", err)
	}

	params := u.Query()
	if params.Get("list") != "allpages" {
		t.Errorf("list = %q", params.Get("list"))
	}
	if params.Get("apprefix") != "HIV/Archive" {
		t.Errorf("apprefix = %q", params.Get("apprefix"))
	}
	if params.Get("apnamespace") != "1" {
		t.Errorf("apnamespace = %q", params.Get("apnamespace"))
	}

	if desc.ContinueParam != "" {
		t.Errorf("ContinueParam = %q, want empty (single page by construction)", desc.ContinueParam)
	}
}

func TestPageContentQuery(t *testing.T) {
	desc := PageContentQuery(DefaultBaseURL, []string{"Talk:HIV", "Talk:Malaria"})

	u, err := url.Parse(desc.BaseQuery)
	if err != nil {
		t.Fatalf("BaseQuery is not a valid URL: %v", err)
	}

	params := u.Query()
	if params.Get("prop") != "revisions" {
		t.Errorf("prop = %q", params.Get("prop"))
	}
	if params.Get("rvslots") != "*" {
		t.Errorf("rvslots = %q", params.Get("rvslots"))
	}
	if params.Get("titles") != "Talk:HIV|Talk:Malaria" {
		t.Errorf("titles = %q", params.Get("titles"))
	}
}

func TestQueryTitlesAreEscaped(t *testing.T) {
	desc := CategoryMembersQuery(DefaultBaseURL, "Category:HIV/AIDS & friends", 0)

	if strings.Contains(desc.BaseQuery, " ") {
		t.Errorf("BaseQuery contains unescaped space: %s", desc.BaseQuery)
	}
	// The raw ampersand must not leak into the query structure
	u, _ := url.Parse(desc.BaseQuery)
	if u.Query().Get("cmtitle") != "Category:HIV/AIDS & friends" {
		t.Errorf("cmtitle = %q", u.Query().Get("cmtitle"))
	}
}

func TestChunk(t *testing.T) {
	tests := []struct {
		name     string
		titles   []string
		n        int
		expected [][]string
	}{
		{
			name:     "even split",
			titles:   []string{"a", "b", "c", "d"},
			n:        2,
			expected: [][]string{{"a", "b"}, {"c", "d"}},
		},
		{
			name:     "remainder batch",
			titles:   []string{"a", "b", "c"},
			n:        2,
			expected: [][]string{{"a", "b"}, {"c"}},
		},
		{
			name:     "single batch",
			titles:   []string{"a"},
			n:        50,
			expected: [][]string{{"a"}},
		},
		{
			name:     "empty input",
			titles:   nil,
			n:        50,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Chunk(tt.titles, tt.n)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Chunk() = %v, want %v", got, tt.expected)
			}
		})
	}
}
