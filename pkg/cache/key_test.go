package cache

import (
	"testing"
)

func TestKeyForURL(t *testing.T) {
	key := KeyForURL("https://en.wikipedia.org/w/api.php?action=query&list=allpages&format=json")

	if key.Host != "en.wikipedia.org" {
		t.Errorf("Host = %q", key.Host)
	}
	if key.Path != "/w/api.php" {
		t.Errorf("Path = %q", key.Path)
	}
	if key.QueryParams.Get("list") != "allpages" {
		t.Errorf("QueryParams[list] = %q", key.QueryParams.Get("list"))
	}
}

func TestKey_String_Deterministic(t *testing.T) {
	// Same params, different order in the raw URL
	a := KeyForURL("https://en.wikipedia.org/w/api.php?action=query&format=json&list=categorymembers")
	b := KeyForURL("https://en.wikipedia.org/w/api.php?list=categorymembers&action=query&format=json")

	if a.String() != b.String() {
		t.Errorf("keys differ:\n  %s\n  %s", a.String(), b.String())
	}
}

func TestKey_String_Format(t *testing.T) {
	key := KeyForURL("https://en.wikipedia.org/w/api.php?action=query&list=allpages")

	want := "wiki:en.wikipedia.org/w/api.php:action=query:list=allpages"
	if got := key.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestKey_String_DifferentParamsDiffer(t *testing.T) {
	a := KeyForURL("https://en.wikipedia.org/w/api.php?cmtitle=Category:HIV")
	b := KeyForURL("https://en.wikipedia.org/w/api.php?cmtitle=Category:Malaria")

	if a.String() == b.String() {
		t.Error("keys for different queries must differ")
	}
}
