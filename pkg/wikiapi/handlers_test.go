package wikiapi

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("invalid test fixture: %v", err)
	}
	return body
}

func TestCategoryMembersHandler(t *testing.T) {
	body := decode(t, `{
		"query": {"categorymembers": [
			{"pageid": 1, "title": "Talk:HIV"},
			{"pageid": 2, "title": "Talk:Malaria"}
		]},
		"continue": {"cmcontinue": "page|abc|123", "continue": "-||"}
	}`)

	payload, err := (CategoryMembersHandler{}).Handle(body)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if len(payload.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(payload.Items))
	}
	if payload.Token != "page|abc|123" {
		t.Errorf("Token = %q, want continuation token", payload.Token)
	}
	if payload.Fields != nil {
		t.Error("category members payload must be sequence-shaped")
	}
}

func TestCategoryMembersHandler_LastPage(t *testing.T) {
	body := decode(t, `{"query": {"categorymembers": []}}`)

	payload, err := (CategoryMembersHandler{}).Handle(body)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if payload.Token != "" {
		t.Errorf("Token = %q, want empty on last page", payload.Token)
	}
}

func TestCategoryMembersHandler_MissingQuery(t *testing.T) {
	body := decode(t, `{"error": {"code": "invalid"}}`)

	if _, err := (CategoryMembersHandler{}).Handle(body); err == nil {
		t.Error("Expected error for body without query object")
	}
}

func TestAllPagesHandler(t *testing.T) {
	body := decode(t, `{
		"query": {"allpages": [
			{"pageid": 10, "title": "Talk:HIV/Archive 1"},
			{"pageid": 11, "title": "Talk:HIV/Archive 2"}
		]}
	}`)

	payload, err := (AllPagesHandler{}).Handle(body)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	want := []any{"Talk:HIV/Archive 1", "Talk:HIV/Archive 2"}
	if !reflect.DeepEqual(payload.Items, want) {
		t.Errorf("Items = %v, want %v", payload.Items, want)
	}
	if payload.Token != "" {
		t.Errorf("Token = %q, want empty (allpages never continues)", payload.Token)
	}
}

func TestAllPagesHandler_EmptyResult(t *testing.T) {
	body := decode(t, `{"query": {"allpages": []}}`)

	payload, err := (AllPagesHandler{}).Handle(body)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if len(payload.Items) != 0 {
		t.Errorf("Items = %v, want empty", payload.Items)
	}
}

func TestRevisionsHandler(t *testing.T) {
	body := decode(t, `{
		"query": {"pages": {
			"123": {"pageid": 123, "title": "Talk:HIV"},
			"-1": {"title": "Talk:Missing", "missing": ""}
		}}
	}`)

	payload, err := (RevisionsHandler{}).Handle(body)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}

	if payload.Fields == nil {
		t.Fatal("revisions payload must be mapping-shaped")
	}
	if len(payload.Fields) != 2 {
		t.Errorf("fields = %d, want 2", len(payload.Fields))
	}
	if _, ok := payload.Fields["123"]; !ok {
		t.Error("Fields missing page 123")
	}
}

func TestRevisionsHandler_MissingPages(t *testing.T) {
	body := decode(t, `{"query": {}}`)

	if _, err := (RevisionsHandler{}).Handle(body); err == nil {
		t.Error("Expected error for query without pages mapping")
	}
}
