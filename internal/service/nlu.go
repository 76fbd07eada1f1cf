package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// QueryIntent is the structured result of parsing a free-text question about
// the team library.
type QueryIntent struct {
	Generation string  `json:"generation"`
	Filter     string  `json:"filter"`
	Confidence float64 `json:"confidence"`
}

// JSONProvider generates a JSON answer for a prompt. Providers are tried in
// order; the first success wins.
type JSONProvider interface {
	Name() string
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

const nluPromptTemplate = `You translate a user's question about a library of competitive Pokémon teams into a JSON query.
The library is organized by generation (e.g. "gen9", "gen7") and each team may carry a free-text style label and six Pokémon.
Respond with a single JSON object: {"generation": string, "filter": string, "confidence": number}.
"generation" is required; "filter" is a style name or a single Pokémon name, or "" when the user wants everything in the generation.
"confidence" is 0..1. Do not include any text outside the JSON object.

Question: %s`

// NLUEngine parses natural-language team questions through a provider chain.
type NLUEngine struct {
	providers []JSONProvider
	logger    *zap.Logger
}

func NewNLUEngine(providers []JSONProvider, logger *zap.Logger) *NLUEngine {
	return &NLUEngine{providers: providers, logger: logger}
}

// Available reports whether at least one provider is configured.
func (e *NLUEngine) Available() bool {
	return e != nil && len(e.providers) > 0
}

// ParseQuery resolves a question to a QueryIntent, falling through the
// provider chain on errors.
func (e *NLUEngine) ParseQuery(ctx context.Context, question string) (*QueryIntent, error) {
	if !e.Available() {
		return nil, fmt.Errorf("no language providers configured")
	}

	prompt := fmt.Sprintf(nluPromptTemplate, question)

	var lastErr error
	for _, provider := range e.providers {
		text, err := provider.GenerateJSON(ctx, prompt)
		if err != nil {
			e.logger.Warn("NLU provider failed, trying next",
				zap.String("provider", provider.Name()),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		intent, err := parseIntentJSON(text)
		if err != nil {
			e.logger.Warn("NLU provider returned unparseable intent",
				zap.String("provider", provider.Name()),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		e.logger.Debug("NLU intent parsed",
			zap.String("provider", provider.Name()),
			zap.String("generation", intent.Generation),
			zap.String("filter", intent.Filter),
			zap.Float64("confidence", intent.Confidence),
		)
		return intent, nil
	}

	return nil, fmt.Errorf("all language providers failed: %w", lastErr)
}

func parseIntentJSON(text string) (*QueryIntent, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var intent QueryIntent
	if err := json.Unmarshal([]byte(text), &intent); err != nil {
		return nil, fmt.Errorf("invalid intent JSON: %w", err)
	}
	if strings.TrimSpace(intent.Generation) == "" {
		return nil, fmt.Errorf("intent missing generation")
	}
	return &intent, nil
}

// GeminiProvider is the primary language provider.
type GeminiProvider struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiProvider(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiProvider{client: client, model: model, logger: logger}, nil
}

func (g *GeminiProvider) Name() string {
	return "Gemini"
}

func (g *GeminiProvider) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	temp := float32(0)
	config := &genai.GenerateContentConfig{
		Temperature:      &temp,
		MaxOutputTokens:  256,
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, []*genai.Content{
		{Parts: []*genai.Part{{Text: prompt}}},
	}, config)
	if err != nil {
		return "", err
	}

	text := extractGeminiText(resp)
	if text == "" {
		return "", fmt.Errorf("empty response from Gemini")
	}
	return text, nil
}

func extractGeminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return ""
	}

	var texts []string
	for _, part := range candidate.Content.Parts {
		if part.Text != "" {
			texts = append(texts, part.Text)
		}
	}
	return strings.Join(texts, "")
}

// OpenAIProvider is the fallback language provider.
type OpenAIProvider struct {
	client *openai.Client
	model  openai.ChatModel
	logger *zap.Logger
}

func NewOpenAIProvider(apiKey string, logger *zap.Logger) *OpenAIProvider {
	if apiKey == "" {
		return nil
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIProvider{
		client: &client,
		model:  openai.ChatModelGPT4oMini,
		logger: logger,
	}
}

func (o *OpenAIProvider) Name() string {
	return "OpenAI"
}

func (o *OpenAIProvider) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	o.logger.Info("Fallback: generating with OpenAI", zap.String("model", string(o.model)))

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You must respond with valid JSON only. Do not include any text outside the JSON object."),
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(256),
		Temperature:         openai.Float(0),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in OpenAI response")
	}
	return resp.Choices[0].Message.Content, nil
}
