package dagsrulle

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// Vision describes a single image in natural language.
type Vision interface {
	DescribeImage(ctx context.Context, jpeg []byte, prompt string) (string, error)
}

// TextGen produces free text from a single prompt, no conversation state.
type TextGen interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gemini implements Vision and TextGen against the Gemini API. It is
// constructed explicitly and injected so tests can substitute fakes.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini client for the given API key and model.
func NewGemini(ctx context.Context, apiKey string, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing API key")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}

	return &Gemini{client: client, model: model}, nil
}

// DescribeImage sends JPEG bytes plus an instruction and returns the text.
func (g *Gemini) DescribeImage(ctx context.Context, jpeg []byte, prompt string) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(jpeg, "image/jpeg"),
		}, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("describe image: %w", err)
	}

	return responseText(resp), nil
}

// Generate runs a single-shot text generation call.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	return responseText(resp), nil
}

// responseText collects text parts from the first candidate that has any.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	var b strings.Builder
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		for _, p := range c.Content.Parts {
			if p.Text != "" {
				b.WriteString(p.Text)
			}
		}
		if b.Len() > 0 {
			break
		}
	}

	return strings.TrimSpace(b.String())
}
