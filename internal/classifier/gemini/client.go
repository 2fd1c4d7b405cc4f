package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/innovedge/matchbot/internal/model"
)

const (
	defaultModel  = "gemini-2.5-flash"
	maxCategories = 3
)

const promptTemplate = `You label short marketplace texts with skill categories.
Given the text below, answer with up to %d lowercase category labels separated
by commas (for example: web, design). Answer NONE if no category applies.
Answer with the labels only.

Text:
%s`

var _ model.Classifier = (*Classifier)(nil)

// Classifier maps free text to category labels via the Gemini API.
type Classifier struct {
	client    *genai.Client
	modelName string
}

// New creates a Classifier configured for the Gemini API backend.
func New(ctx context.Context, apiKey, model string) (*Classifier, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}

	return &Classifier{client: client, modelName: model}, nil
}

// Categorize asks Gemini for category labels. Empty input yields no labels
// without calling the API.
func (c *Classifier) Categorize(ctx context.Context, text string) ([]string, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("gemini classifier is not initialized")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	prompt := fmt.Sprintf(promptTemplate, maxCategories, text)

	resp, err := c.client.Models.GenerateContent(ctx, c.modelName, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(part.Text)
		}
	}

	return parseCategories(builder.String()), nil
}

// Model returns the configured model name.
func (c *Classifier) Model() string {
	if c == nil {
		return ""
	}
	return c.modelName
}

func parseCategories(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")
	if raw == "" || strings.EqualFold(raw, "none") {
		return nil
	}

	seen := make(map[string]struct{})
	var categories []string
	for _, field := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	}) {
		label := strings.ToLower(strings.TrimSpace(field))
		if label == "" || label == "none" {
			continue
		}
		if _, ok := seen[label]; ok {
			continue
		}
		seen[label] = struct{}{}
		categories = append(categories, label)
		if len(categories) == maxCategories {
			break
		}
	}

	return categories
}
