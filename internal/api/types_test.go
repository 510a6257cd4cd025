package api

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestBuildRequest_SystemContext(t *testing.T) {
	tests := []struct {
		name          string
		context       string
		wantMsgCount  int
		wantFirstRole string
	}{
		{"empty context yields no messages", "", 0, ""},
		{"context yields one system message", "ctx", 1, "system"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := BuildRequest("sonar", tt.context, SearchOptions{})

			if req.Model != "sonar" {
				t.Errorf("Model = %q, want sonar", req.Model)
			}
			if len(req.Messages) != tt.wantMsgCount {
				t.Fatalf("len(Messages) = %d, want %d", len(req.Messages), tt.wantMsgCount)
			}
			if tt.wantMsgCount > 0 {
				if req.Messages[0].Role != tt.wantFirstRole {
					t.Errorf("first role = %q, want %q", req.Messages[0].Role, tt.wantFirstRole)
				}
				if req.Messages[0].Content != tt.context {
					t.Errorf("first content = %q, want %q", req.Messages[0].Content, tt.context)
				}
			}
		})
	}
}

func TestBuildRequest_IncludeDomains(t *testing.T) {
	req := BuildRequest("sonar", "", SearchOptions{
		IncludeDomains: []string{"a.com", "b.com"},
	})

	want := []string{"a.com", "b.com"}
	if !reflect.DeepEqual(req.SearchDomainFilter, want) {
		t.Errorf("SearchDomainFilter = %v, want %v", req.SearchDomainFilter, want)
	}
}

func TestBuildRequest_ExcludeDomains(t *testing.T) {
	req := BuildRequest("sonar", "", SearchOptions{
		ExcludeDomains: []string{"a.com"},
	})

	want := []string{"-a.com"}
	if !reflect.DeepEqual(req.SearchDomainFilter, want) {
		t.Errorf("SearchDomainFilter = %v, want %v", req.SearchDomainFilter, want)
	}
}

func TestBuildRequest_IncludeAndExclude(t *testing.T) {
	req := BuildRequest("sonar", "", SearchOptions{
		IncludeDomains: []string{"keep.com"},
		ExcludeDomains: []string{"spam.com", "ads.com"},
	})

	want := []string{"keep.com", "-spam.com", "-ads.com"}
	if !reflect.DeepEqual(req.SearchDomainFilter, want) {
		t.Errorf("SearchDomainFilter = %v, want %v", req.SearchDomainFilter, want)
	}
}

func TestBuildRequest_RecencyAndRelated(t *testing.T) {
	req := BuildRequest("sonar", "", SearchOptions{Recency: "week", Related: true})

	if req.SearchRecencyFilter != "week" {
		t.Errorf("SearchRecencyFilter = %q, want week", req.SearchRecencyFilter)
	}
	if !req.ReturnRelatedQuestions {
		t.Error("ReturnRelatedQuestions = false, want true")
	}
}

func TestBuildRequest_AbsentOptionsOmittedFromPayload(t *testing.T) {
	req := BuildRequest("sonar", "ctx", SearchOptions{})

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	for _, key := range []string{"search_domain_filter", "search_recency_filter", "return_related_questions", "max_tokens"} {
		if _, present := raw[key]; present {
			t.Errorf("absent option %q serialized into payload: %s", key, data)
		}
	}
	if _, present := raw["model"]; !present {
		t.Error("model missing from payload")
	}
	if _, present := raw["messages"]; !present {
		t.Error("messages missing from payload")
	}
}

func TestBuildRequest_DoesNotMutateOptions(t *testing.T) {
	opts := SearchOptions{
		IncludeDomains: []string{"a.com"},
		ExcludeDomains: []string{"b.com"},
	}
	includeBefore := append([]string(nil), opts.IncludeDomains...)
	excludeBefore := append([]string(nil), opts.ExcludeDomains...)

	req := BuildRequest("sonar", "", opts)
	req.SearchDomainFilter[0] = "mutated"

	if !reflect.DeepEqual(opts.IncludeDomains, includeBefore) {
		t.Errorf("IncludeDomains mutated: %v", opts.IncludeDomains)
	}
	if !reflect.DeepEqual(opts.ExcludeDomains, excludeBefore) {
		t.Errorf("ExcludeDomains mutated: %v", opts.ExcludeDomains)
	}
}

func TestChatResponse_Content(t *testing.T) {
	resp := &ChatResponse{
		Choices: []Choice{{Message: Message{Role: "assistant", Content: "the answer"}}},
	}

	content, err := resp.Content()
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if content != "the answer" {
		t.Errorf("Content = %q, want %q", content, "the answer")
	}
}

func TestChatResponse_Content_NoChoices(t *testing.T) {
	resp := &ChatResponse{}

	_, err := resp.Content()
	if err == nil {
		t.Fatal("Content should fail with no choices")
	}
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestChatResponse_Content_PreservesUnicode(t *testing.T) {
	want := "Müller © 2023 — 日本語"
	resp := &ChatResponse{
		Choices: []Choice{{Message: Message{Content: want}}},
	}

	content, err := resp.Content()
	if err != nil {
		t.Fatalf("Content: %v", err)
	}
	if content != want {
		t.Errorf("Content = %q, want %q", content, want)
	}
}

func TestChatResponse_Sources_Structured(t *testing.T) {
	resp := &ChatResponse{
		SearchResults: []SearchResult{
			{Title: "s1", URL: "http://s1.com", Date: "2023-01-01"},
			{Title: "s2"},
		},
	}

	sources := resp.Sources()
	if len(sources) != 2 {
		t.Fatalf("len(Sources) = %d, want 2", len(sources))
	}
	if sources[0].Title != "s1" || sources[1].Title != "s2" {
		t.Errorf("sources out of order: %v", sources)
	}
}

func TestChatResponse_Sources_LegacyCitationsPromoted(t *testing.T) {
	resp := &ChatResponse{
		Citations: []string{"http://a.com", "http://b.com"},
	}

	sources := resp.Sources()
	if len(sources) != 2 {
		t.Fatalf("len(Sources) = %d, want 2", len(sources))
	}
	if sources[0].URL != "http://a.com" || sources[0].Title != "" {
		t.Errorf("legacy citation not promoted to URL-only record: %+v", sources[0])
	}
}

func TestChatResponse_Sources_Empty(t *testing.T) {
	resp := &ChatResponse{}
	if sources := resp.Sources(); sources != nil {
		t.Errorf("Sources = %v, want nil", sources)
	}
}
