// Package digest generates an optional LLM summary of a monitoring
// table. It is strictly additive: digest failures warn, they never fail
// the fetch that produced the table.
package digest

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"fourtumon/internal/model"

	"github.com/sashabaranov/go-openai"
)

// Config holds the digest settings.
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int
	// BaseURL overrides the OpenAI endpoint, used by tests.
	BaseURL string
}

// Summarizer produces a short natural-language digest of a table.
type Summarizer struct {
	client *openai.Client
	cfg    Config
}

// NewSummarizer creates a summarizer. An API key is required.
func NewSummarizer(cfg Config) (*Summarizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &Summarizer{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
	}, nil
}

// Summarize asks the model for a short digest of the table.
func (s *Summarizer) Summarize(ctx context.Context, table *model.Table) (string, error) {
	m := s.cfg.Model
	if m == "" {
		m = openai.GPT4oMini
	}
	maxTokens := s.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     m,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You summarize research-data deposit activity for a monitoring dashboard. Be factual and brief; mention volume, active groups and notable gaps. Use only the data provided.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(table),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// promptRowLimit bounds how many rows are inlined into the prompt.
const promptRowLimit = 50

// BuildPrompt renders the table into a compact prompt: per-group counts
// plus a bounded sample of recent rows.
func BuildPrompt(table *model.Table) string {
	var b strings.Builder

	kind := "datasets"
	if table.ItemType == model.ItemTypeSoftware {
		kind = "software deposits"
	}
	fmt.Fprintf(&b, "Recent %s from a research-data repository: %d records.\n\n", kind, len(table.Rows))

	counts := make(map[string]int)
	for _, row := range table.Rows {
		counts[row.GroupName]++
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("Records per group:\n")
	for _, name := range names {
		fmt.Fprintf(&b, "- %s: %d\n", name, counts[name])
	}

	b.WriteString("\nSample records (id | date | group | title):\n")
	for i, row := range table.Rows {
		if i >= promptRowLimit {
			fmt.Fprintf(&b, "... and %d more\n", len(table.Rows)-promptRowLimit)
			break
		}
		date := ""
		if row.PublishedDate != nil {
			date = row.PublishedDate.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "%v | %s | %s | %s\n", row.ID, date, row.GroupName, row.Title)
	}

	if table.Truncated {
		b.WriteString("\nNote: the fetch was cut short by a request failure; counts are a lower bound.\n")
	}
	return b.String()
}
