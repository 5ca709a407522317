package api

import (
	"github.com/savethebus/objection-api/internal/domain"
	"github.com/savethebus/objection-api/internal/letter"
)

// ChatMessage is one entry of the ordered message sequence of a chat
// completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionRequest is the OpenAI-compatible payload accepted by the
// proxy gateway. Pointer fields distinguish "unset" from zero so defaults
// can be applied.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   *int          `json:"max_tokens,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	Stream      *bool         `json:"stream,omitempty"`
	Stop        []string      `json:"stop,omitempty"`
}

// upstreamChatRequest is the normalized payload forwarded upstream after
// defaults are applied.
type upstreamChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	TopP        *float64      `json:"top_p,omitempty"`
	Stream      bool          `json:"stream"`
	Stop        []string      `json:"stop,omitempty"`
}

// upstreamErrorBody mirrors the OpenAI-compatible error envelope, used when
// the upstream error body is not parseable JSON.
type upstreamErrorBody struct {
	Error upstreamErrorDetail `json:"error"`
}

type upstreamErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ServiceInfo is the static body of GET /api/proxy.
type ServiceInfo struct {
	Name          string            `json:"name"`
	Version       string            `json:"version"`
	Status        string            `json:"status"`
	Provider      string            `json:"provider"`
	Endpoints     map[string]string `json:"endpoints"`
	Documentation string            `json:"documentation"`
}

// GenerateLetterRequest is the request body for POST /api/letters.
type GenerateLetterRequest struct {
	Name       string   `json:"name" validate:"required"`
	Location   string   `json:"location" validate:"required"`
	Tone       string   `json:"tone" validate:"required"`
	Concerns   []string `json:"concerns"`
	Language   string   `json:"language" validate:"required,oneof=en ta"`
	Mode       string   `json:"mode" validate:"required,oneof=auto manual"`
	CustomText string   `json:"custom_text"`
}

// toDomain converts the DTO to a domain request. Mode-dependent invariants
// are checked by domain.ObjectionRequest.Validate.
func (r *GenerateLetterRequest) toDomain() *domain.ObjectionRequest {
	return &domain.ObjectionRequest{
		Name:       r.Name,
		Location:   r.Location,
		Tone:       domain.ObjectionTone(r.Tone),
		Concerns:   r.Concerns,
		Language:   domain.Language(r.Language),
		Mode:       domain.GenerationMode(r.Mode),
		CustomText: r.CustomText,
	}
}

// LetterResponse is the response body for POST /api/letters.
type LetterResponse struct {
	Subject     string `json:"subject"`
	Body        string `json:"body"`
	IsOptimized bool   `json:"is_optimized"`
	Provider    string `json:"provider"`
}

func letterToResponse(l *domain.GeneratedLetter) LetterResponse {
	return LetterResponse{
		Subject:     l.Subject,
		Body:        l.Body,
		IsOptimized: l.IsOptimized,
		Provider:    string(l.Provider),
	}
}

// TemplateResponse is one entry of GET /api/letters/templates.
type TemplateResponse struct {
	Topic   string `json:"topic"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

func templatesToResponse(lang domain.Language) []TemplateResponse {
	catalog := letter.Catalog(lang)

	out := make([]TemplateResponse, 0, len(catalog))
	for _, topic := range letter.Topics() {
		tpl := catalog[topic]
		out = append(out, TemplateResponse{
			Topic:   string(topic),
			Subject: tpl.Subject,
			Body:    tpl.Body,
		})
	}
	return out
}
