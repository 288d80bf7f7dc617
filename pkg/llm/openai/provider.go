package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-research-safety-be/pkg/llm"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultBaseURL = "https://api.openai.com/v1"

	// Model defaults mirror the deployment this service was tuned on.
	defaultChatModel       = "gpt-4o-mini"
	defaultSearchModel     = "gpt-4o-search-preview"
	defaultModerationModel = "omni-moderation-latest"

	maxRetries = 3
)

type OpenAIProvider struct {
	BaseURL         string
	APIKey          string
	ChatModel       string
	SearchModel     string
	ModerationModel string
	Client          *http.Client
	ModClient       *http.Client
}

// Ensure OpenAIProvider implements every collaborator capability
var _ llm.LLMProvider = &OpenAIProvider{}
var _ llm.VisionProvider = &OpenAIProvider{}
var _ llm.SearchProvider = &OpenAIProvider{}
var _ llm.ModerationProvider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, chatModel string) *OpenAIProvider {
	if chatModel == "" {
		chatModel = defaultChatModel
	}
	return &OpenAIProvider{
		BaseURL:         defaultBaseURL,
		APIKey:          apiKey,
		ChatModel:       chatModel,
		SearchModel:     defaultSearchModel,
		ModerationModel: defaultModerationModel,
		// Generation calls can be slow (web search especially); moderation
		// is a small classifier and gets a tighter budget.
		Client:    &http.Client{Timeout: 90 * time.Second},
		ModClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// --- Request/Response structs (Internal to this package) ---

type chatRequest struct {
	Model            string                 `json:"model"`
	Messages         []chatMessage          `json:"messages"`
	MaxTokens        int                    `json:"max_tokens,omitempty"`
	Temperature      *float64               `json:"temperature,omitempty"`
	WebSearchOptions map[string]interface{} `json:"web_search_options,omitempty"`
}

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"` // string or []contentPart for vision
}

type contentPart struct {
	Type     string         `json:"type"`
	Text     string         `json:"text,omitempty"`
	ImageURL *imageURLBlock `json:"image_url,omitempty"`
}

type imageURLBlock struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type moderationRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type moderationResponse struct {
	Results []struct {
		Flagged        bool               `json:"flagged"`
		Categories     map[string]bool    `json:"categories"`
		CategoryScores map[string]float64 `json:"category_scores"`
	} `json:"results"`
}

// --- Interface Implementation ---

func (o *OpenAIProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	// 1. Process Options
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}

	model := o.ChatModel
	if options.Model != "" {
		model = options.Model
	}

	// 2. Map generic messages
	messages := make([]chatMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		messages[i] = chatMessage{Role: role, Content: msg.Content}
	}

	reqPayload := chatRequest{
		Model:    model,
		Messages: messages,
	}
	if options.MaxTokens > 0 {
		reqPayload.MaxTokens = options.MaxTokens
	}
	if options.Temperature > 0 {
		reqPayload.Temperature = &options.Temperature
	}

	return o.completion(ctx, reqPayload)
}

func (o *OpenAIProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return o.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

// AnalyzeImage sends the prompt plus an image reference (URL or data URI) to
// the vision-capable chat model.
func (o *OpenAIProvider) AnalyzeImage(ctx context.Context, prompt, imageURL string, opts ...llm.Option) (string, error) {
	options := &llm.Options{}
	for _, opt := range opts {
		opt(options)
	}

	model := o.ChatModel
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := chatRequest{
		Model: model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: prompt},
					{Type: "image_url", ImageURL: &imageURLBlock{URL: imageURL}},
				},
			},
		},
	}
	if options.MaxTokens > 0 {
		reqPayload.MaxTokens = options.MaxTokens
	}

	return o.completion(ctx, reqPayload)
}

// SearchGenerate runs the prompt through the web-search-enabled model.
func (o *OpenAIProvider) SearchGenerate(ctx context.Context, prompt string, searchOpts llm.SearchOptions) (string, error) {
	webSearch := map[string]interface{}{}
	if searchOpts.ContextSize != "" {
		webSearch["search_context_size"] = searchOpts.ContextSize
	}
	if searchOpts.UserLocation != nil {
		webSearch["user_location"] = searchOpts.UserLocation
	}

	reqPayload := chatRequest{
		Model:            o.SearchModel,
		Messages:         []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:        2000,
		WebSearchOptions: webSearch,
	}

	return o.completion(ctx, reqPayload)
}

func (o *OpenAIProvider) Moderate(ctx context.Context, input string) (*llm.ModerationOutcome, error) {
	reqPayload := moderationRequest{
		Model: o.ModerationModel,
		Input: input,
	}

	body, err := o.post(ctx, o.ModClient, "/moderations", reqPayload)
	if err != nil {
		return nil, err
	}

	var modResp moderationResponse
	if err := json.Unmarshal(body, &modResp); err != nil {
		return nil, fmt.Errorf("unmarshal moderation response: %w", err)
	}
	if len(modResp.Results) == 0 {
		return nil, fmt.Errorf("moderation response contained no results")
	}

	result := modResp.Results[0]
	return &llm.ModerationOutcome{
		Flagged:        result.Flagged,
		Categories:     result.Categories,
		CategoryScores: result.CategoryScores,
	}, nil
}

// --- Transport helpers ---

func (o *OpenAIProvider) completion(ctx context.Context, reqPayload chatRequest) (string, error) {
	body, err := o.post(ctx, o.Client, "/chat/completions", reqPayload)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}

	return resp.Choices[0].Message.Content, nil
}

// post sends the payload with bounded exponential-backoff retry. Retry lives
// here at the collaborator-call boundary only; parsing and aggregation layers
// never retry.
func (o *OpenAIProvider) post(ctx context.Context, client *http.Client, path string, payload interface{}) ([]byte, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", o.BaseURL+path, bytes.NewBuffer(payloadBytes))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+o.APIKey)

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("openai request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("openai error: status %d, body: %s", resp.StatusCode, string(body))
		}
		if resp.StatusCode != http.StatusOK {
			// Client errors won't heal on retry
			return backoff.Permanent(fmt.Errorf("openai error: status %d, body: %s", resp.StatusCode, string(body)))
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}
