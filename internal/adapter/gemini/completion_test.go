package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"traffic-analyzer/internal/core/port"
)

type fakeGenerator struct {
	model  string
	text   string
	config *genai.GenerateContentConfig
	err    error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, _ []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.text, genai.RoleModel)}},
	}, nil
}

var testSchema = port.Schema{
	Fields: []port.SchemaField{
		{Name: "spend", Type: port.FieldNumber},
		{Name: "platform", Type: port.FieldString, Enum: []string{"Facebook", "Google"}},
	},
	Required: []string{"spend", "platform"},
}

func TestCompleteReturnsModelText(t *testing.T) {
	gen := &fakeGenerator{text: ` {"spend":500,"platform":"Facebook"} `}
	svc := newCompletionService(gen, "")

	raw, err := svc.Complete(context.Background(), port.CompletionRequest{
		SystemContext: "extract",
		Message:       "500 on face",
		Schema:        testSchema,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"spend":500,"platform":"Facebook"}`, string(raw))
	assert.Equal(t, DefaultModel, gen.model)

	require.NotNil(t, gen.config)
	assert.Equal(t, "application/json", gen.config.ResponseMIMEType)
	require.NotNil(t, gen.config.SystemInstruction)
	schema := gen.config.ResponseSchema
	require.NotNil(t, schema)
	assert.Equal(t, genai.TypeObject, schema.Type)
	assert.Equal(t, []string{"spend", "platform"}, schema.Required)
	assert.Equal(t, genai.TypeNumber, schema.Properties["spend"].Type)
	assert.Equal(t, []string{"Facebook", "Google"}, schema.Properties["platform"].Enum)
	assert.Equal(t, []string{"spend", "platform"}, schema.PropertyOrdering)
}

func TestCompleteErrors(t *testing.T) {
	svc := newCompletionService(&fakeGenerator{err: errors.New("429")}, "gemini-test")
	_, err := svc.Complete(context.Background(), port.CompletionRequest{Message: "x", Schema: testSchema})
	require.Error(t, err)

	svc = newCompletionService(&fakeGenerator{text: "  "}, "gemini-test")
	_, err = svc.Complete(context.Background(), port.CompletionRequest{Message: "x", Schema: testSchema})
	require.ErrorIs(t, err, ErrEmptyResponse)
}

func TestNewCompletionServiceRequiresKey(t *testing.T) {
	_, err := NewCompletionService(context.Background(), "", "")
	require.Error(t, err)
}
