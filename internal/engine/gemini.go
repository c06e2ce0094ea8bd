package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	genai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Gemini is the Generator implementation backed by the Google Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini dials the Gemini API with the given key. The caller owns the
// returned client and must Close it.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty API key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini init: %w", err)
	}
	return &Gemini{client: client, model: model}, nil
}

// Close releases the underlying API client.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// Model returns the configured model name.
func (g *Gemini) Model() string { return g.model }

func (g *Gemini) Generate(ctx context.Context, history []Message, parts []Part) (string, error) {
	cs := g.client.GenerativeModel(g.model).StartChat()
	cs.History = historyContents(history)

	resp, err := cs.SendMessage(ctx, genaiParts(parts)...)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return responseText(resp)
}

func (g *Gemini) GenerateStream(ctx context.Context, history []Message, parts []Part, onDelta func(string) error) (string, error) {
	cs := g.client.GenerativeModel(g.model).StartChat()
	cs.History = historyContents(history)

	it := cs.SendMessageStream(ctx, genaiParts(parts)...)
	var sb strings.Builder
	for {
		resp, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("gemini stream: %w", err)
		}
		chunk, err := responseText(resp)
		if err != nil {
			// Chunks without text (e.g. safety metadata only) are skipped.
			continue
		}
		sb.WriteString(chunk)
		if onDelta != nil {
			if err := onDelta(chunk); err != nil {
				return "", fmt.Errorf("delivering stream chunk: %w", err)
			}
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini: empty response")
	}
	return sb.String(), nil
}

func historyContents(history []Message) []*genai.Content {
	out := make([]*genai.Content, len(history))
	for i, m := range history {
		out[i] = &genai.Content{
			Role:  m.Role,
			Parts: []genai.Part{genai.Text(m.Text)},
		}
	}
	return out
}

func genaiParts(parts []Part) []genai.Part {
	out := make([]genai.Part, 0, len(parts))
	for _, p := range parts {
		if p.Blob != nil {
			out = append(out, genai.ImageData(p.Blob.Format, p.Blob.Data))
			continue
		}
		out = append(out, genai.Text(p.Text))
	}
	return out
}

func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini: empty response")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini: response contained no text")
	}
	return sb.String(), nil
}
