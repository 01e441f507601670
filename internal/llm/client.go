// Package llm wraps the generative model and embedding endpoints. One
// synchronous call per request, no retries: transport failures propagate to
// the pipeline boundary.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Client talks to an OpenAI-compatible chat completions API and an optional
// embedding service.
type Client struct {
	httpClient          *http.Client
	apiKey              string
	llmURL              string
	model               string
	embeddingServiceURL string
	logger              *slog.Logger
}

// NewClient creates a model client. embeddingURL may be empty, in which case
// Embed reports the backend as unavailable and callers degrade to keyword
// retrieval.
func NewClient(apiKey, llmURL, model, embeddingURL string, logger *slog.Logger) *Client {
	return &Client{
		httpClient:          &http.Client{Timeout: 90 * time.Second},
		apiKey:              apiKey,
		llmURL:              llmURL,
		model:               model,
		embeddingServiceURL: embeddingURL,
		logger:              logger.With("component", "llm_client"),
	}
}

// Enabled reports whether a model endpoint is configured. When it is not,
// the advisor falls back to its deterministic calculator.
func (c *Client) Enabled() bool {
	return c.apiKey != "" && c.llmURL != ""
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one prompt to the chat completions API and returns the raw
// response text.
func (c *Client) Complete(ctx context.Context, prompt string, useJSONMode bool) (string, error) {
	if !c.Enabled() {
		return "", fmt.Errorf("model endpoint is not configured")
	}

	requestBody := completionRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	if useJSONMode {
		requestBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.llmURL, bytes.NewBuffer(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call model API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("model API returned non-OK status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", fmt.Errorf("failed to decode model response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from model")
	}
	return completion.Choices[0].Message.Content, nil
}

type embeddingRequest struct {
	Text string `json:"text"`
}

type embeddingResponse struct {
	Embedding []float32 `json:"embedding"`
}

// CanEmbed reports whether an embedding backend is configured.
func (c *Client) CanEmbed() bool {
	return c.embeddingServiceURL != ""
}

// Embed generates an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	if !c.CanEmbed() {
		return nil, fmt.Errorf("embedding service is not configured")
	}

	payload, err := json.Marshal(embeddingRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal embedding request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.embeddingServiceURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call embedding service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("embedding service returned non-OK status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var embedding embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedding); err != nil {
		return nil, fmt.Errorf("failed to decode embedding response: %w", err)
	}
	return embedding.Embedding, nil
}
