package articlescmd

import "testing"

func TestCreateArticleCommandValidate(t *testing.T) {
	if err := (CreateArticleCommand{APIKey: "k", Body: "b"}).Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
	for name, cmd := range map[string]CreateArticleCommand{
		"missing key": {Body: "b"},
		"blank key":   {APIKey: "   ", Body: "b"},
		"empty body":  {APIKey: "k"},
	} {
		if err := cmd.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestUpdateArticleCommandValidate(t *testing.T) {
	if err := (UpdateArticleCommand{ID: 3, APIKey: "k", Body: "b"}).Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
	for name, cmd := range map[string]UpdateArticleCommand{
		"missing id":  {APIKey: "k", Body: "b"},
		"negative id": {ID: -1, APIKey: "k", Body: "b"},
		"missing key": {ID: 3, Body: "b"},
	} {
		if err := cmd.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestCommandTypes(t *testing.T) {
	if (CreateArticleCommand{}).Type() != "devsync.articles.create" {
		t.Fatalf("unexpected create type")
	}
	if (UpdateArticleCommand{}).Type() != "devsync.articles.update" {
		t.Fatalf("unexpected update type")
	}
}
