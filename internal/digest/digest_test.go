package digest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fourtumon/internal/model"

	"github.com/sashabaranov/go-openai"
)

func sampleTable() *model.Table {
	ts, _ := time.Parse("2006-01-02", "2025-01-02")
	return &model.Table{
		ItemType: model.ItemTypeDataset,
		Rows: []model.Row{
			{ID: "a1", Title: "Foo", PublishedDate: &ts, GroupName: "TU Delft"},
			{ID: "a2", Title: "Bar", GroupName: "Unknown"},
		},
	}
}

func TestNewSummarizer_RequiresAPIKey(t *testing.T) {
	if _, err := NewSummarizer(Config{}); err == nil {
		t.Fatal("Expected error without API key")
	}
}

func TestSummarizer_Summarize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Bad request body: %v", err)
		}
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, "TU Delft") {
			t.Errorf("Expected table data in the prompt, got %+v", req.Messages)
		}

		resp := openai.ChatCompletionResponse{
			Choices: []openai.ChatCompletionChoice{
				{Message: openai.ChatCompletionMessage{Role: "assistant", Content: "Two new datasets, one from TU Delft."}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	s, err := NewSummarizer(Config{APIKey: "test-key", BaseURL: server.URL, Model: "gpt-4o-mini"})
	if err != nil {
		t.Fatalf("NewSummarizer failed: %v", err)
	}

	summary, err := s.Summarize(context.Background(), sampleTable())
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary != "Two new datasets, one from TU Delft." {
		t.Errorf("Unexpected summary: %q", summary)
	}
}

func TestBuildPrompt_CountsAndSample(t *testing.T) {
	prompt := BuildPrompt(sampleTable())

	for _, want := range []string{"2 records", "TU Delft: 1", "Unknown: 1", "a1 | 2025-01-02"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected %q in prompt:\n%s", want, prompt)
		}
	}
}

func TestBuildPrompt_BoundsRowSample(t *testing.T) {
	table := &model.Table{ItemType: model.ItemTypeSoftware}
	for i := 0; i < promptRowLimit+10; i++ {
		table.Rows = append(table.Rows, model.Row{ID: i, GroupName: "Unknown"})
	}

	prompt := BuildPrompt(table)
	if !strings.Contains(prompt, "... and 10 more") {
		t.Errorf("Expected the sample to be bounded:\n%s", prompt[:200])
	}
}

func TestBuildPrompt_TruncationNote(t *testing.T) {
	table := sampleTable()
	table.Truncated = true
	if !strings.Contains(BuildPrompt(table), "cut short") {
		t.Error("Expected a truncation note in the prompt")
	}
}
