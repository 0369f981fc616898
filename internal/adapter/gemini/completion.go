// Package gemini implements port.TextCompletionService on the Google Gen AI
// SDK with JSON-constrained output.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"traffic-analyzer/internal/core/port"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash"

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("empty model response")

// generator is the part of *genai.Models the service needs.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// CompletionService asks a Gemini model for a JSON object matching the
// request schema.
type CompletionService struct {
	models generator
	model  string
}

// NewCompletionService creates a client for the Gemini API.
func NewCompletionService(ctx context.Context, apiKey, model string) (*CompletionService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return newCompletionService(client.Models, model), nil
}

func newCompletionService(models generator, model string) *CompletionService {
	if model == "" {
		model = DefaultModel
	}
	return &CompletionService{models: models, model: model}
}

// Complete sends the message with the system context and schema and returns
// the raw JSON text of the first candidate.
func (s *CompletionService) Complete(ctx context.Context, req port.CompletionRequest) ([]byte, error) {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   toSchema(req.Schema),
		ThinkingConfig:   &genai.ThinkingConfig{ThinkingBudget: genai.Ptr[int32](0)},
	}
	if req.SystemContext != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemContext, genai.RoleUser)
	}

	resp, err := s.models.GenerateContent(ctx, s.model, genai.Text(req.Message), cfg)
	if err != nil {
		return nil, fmt.Errorf("GenAI generate failed: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, ErrEmptyResponse
	}
	return []byte(text), nil
}

func toSchema(s port.Schema) *genai.Schema {
	out := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(s.Fields)),
		Required:   s.Required,
	}
	for _, f := range s.Fields {
		prop := &genai.Schema{Type: genai.TypeString}
		if f.Type == port.FieldNumber {
			prop.Type = genai.TypeNumber
		}
		if len(f.Enum) > 0 {
			prop.Enum = f.Enum
		}
		out.Properties[f.Name] = prop
		out.PropertyOrdering = append(out.PropertyOrdering, f.Name)
	}
	return out
}
