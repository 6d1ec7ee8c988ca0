package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func NewClient(apiKey, baseURL, model string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// GenerateFollowUp asks the model for a {subject, html_body, text_body,
// reasoning} draft grounded in the transcript.
func (c *Client) GenerateFollowUp(ctx context.Context, req GenerationRequest) (*FollowUpDraft, error) {
	url := fmt.Sprintf("%s/chat/completions", c.baseURL)

	payload := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: buildUserPrompt(req)},
		},
		Temperature:    0.7,
		MaxTokens:      800,
		ResponseFormat: responseFormat{Type: "json_object"},
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("openai returned status %d: %s", resp.StatusCode, truncate(string(body), 300))
	}

	var response chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode openai response: %w", err)
	}
	if response.Error != nil {
		return nil, fmt.Errorf("openai error: %s", response.Error.Message)
	}
	if len(response.Choices) == 0 {
		return nil, errors.New("openai returned no choices")
	}

	var draft draftJSON
	if err := json.Unmarshal([]byte(response.Choices[0].Message.Content), &draft); err != nil {
		return nil, fmt.Errorf("model returned non-JSON draft: %w", err)
	}
	if draft.Subject == "" || draft.TextBody == "" {
		return nil, errors.New("model draft missing subject or text body")
	}

	return &FollowUpDraft{
		Subject:   draft.Subject,
		HTMLBody:  draft.HTMLBody,
		TextBody:  draft.TextBody,
		Reasoning: draft.Reasoning,
	}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
