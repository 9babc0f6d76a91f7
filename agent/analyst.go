// Package agent generates the written market analysis from the structured
// run data, using the Gemini API.
package agent

import (
	"context"
	"fmt"

	"github.com/etnz/pulse"
	"google.golang.org/genai"
)

// DefaultModel is the generative model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// Analyst turns a performance snapshot, index levels and a news digest into
// a prose market briefing.
type Analyst struct {
	Model  string
	Config *genai.GenerateContentConfig

	client *genai.Client
}

// NewAnalyst returns an Analyst speaking to the given Gemini client.
func NewAnalyst(client *genai.Client, model string) *Analyst {
	if model == "" {
		model = DefaultModel
	}
	return &Analyst{Model: model, client: client}
}

// NewClient builds the Gemini client for the given API key.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// Narrate assembles the prompt and asks the model for the briefing text.
// Errors are returned to the caller, which decides how to degrade; the
// prompt wording itself is not part of any contract.
func (a *Analyst) Narrate(ctx context.Context, perf *pulse.Performance, indices []pulse.IndexLevel, news pulse.NewsDigest) (string, error) {
	prompt, err := Prompt(perf, indices, news)
	if err != nil {
		return "", fmt.Errorf("assembling prompt: %w", err)
	}

	resp, err := a.client.Models.GenerateContent(ctx, a.Model, genai.Text(prompt), a.Config)
	if err != nil {
		return "", fmt.Errorf("generating analysis: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from model %s", a.Model)
	}
	return resp.Text(), nil
}
