package chatbot

import (
	"context"
	"os"
	"strings"
	"time"

	"google.golang.org/genai"
)

const modelID = "gemini-1.5-flash"

// upstreamTimeout aborts the model call; there is no retry.
const upstreamTimeout = 15 * time.Second

// APIKey checks the alternately-named key variables in precedence order.
func APIKey() string {
	for _, name := range []string{"GOOGLE_GENAI_API_KEY", "GEMINI_API_KEY", "GOOGLE_GEMINI_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

type GeminiClient struct {
	client *genai.Client
}

func NewGeminiClient(ctx context.Context, apiKey string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client}, nil
}

// Generate asks the model with bounded sampling and output length. A
// response without the candidate → content → parts → text path comes back
// as "", nil.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, upstreamTimeout)
	defer cancel()

	temperature := float32(0.4)
	topP := float32(0.9)
	topK := float32(40)
	config := &genai.GenerateContentConfig{
		Temperature:     &temperature,
		TopP:            &topP,
		TopK:            &topK,
		MaxOutputTokens: 300,
	}

	resp, err := g.client.Models.GenerateContent(ctx, modelID, genai.Text(prompt), config)
	if err != nil {
		return "", err
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", nil
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", nil
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		b.WriteString(part.Text)
	}
	return strings.TrimSpace(b.String()), nil
}
