package openai

import (
	"github.com/lloydpilapil/pixelmojo-leads/internal/entity"
)

// GenerationRequest is everything the model sees: lead attributes plus the
// ordered conversation transcript.
type GenerationRequest struct {
	Lead       *entity.Lead
	Transcript []entity.ChatMessage
}

// FollowUpDraft is the structured result of one generation call.
type FollowUpDraft struct {
	Subject   string
	HTMLBody  string
	TextBody  string
	Reasoning string
}

// --- wire types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	MaxTokens      int            `json:"max_tokens,omitempty"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// draftJSON is the contract the system prompt pins the model to.
type draftJSON struct {
	Subject   string `json:"subject"`
	HTMLBody  string `json:"html_body"`
	TextBody  string `json:"text_body"`
	Reasoning string `json:"reasoning"`
}
