package port

import (
	"context"
	"errors"

	"traffic-analyzer/internal/core/domain"
)

// FieldType is the JSON type of a schema field.
type FieldType string

const (
	FieldNumber FieldType = "number"
	FieldString FieldType = "string"
)

// SchemaField describes one property of the requested JSON object.
type SchemaField struct {
	Name string
	Type FieldType
	// Enum restricts string fields to a closed set when non-empty.
	Enum []string
}

// Schema is the shape a completion response must honour.
type Schema struct {
	Fields   []SchemaField
	Required []string
}

// CompletionRequest asks for structured extraction from a message.
type CompletionRequest struct {
	SystemContext string
	Message       string
	Schema        Schema
}

// TextCompletionService is the boundary to an external text-generation
// provider. Complete returns the raw JSON payload produced for the request.
// Nothing about the payload is trusted; callers validate it.
type TextCompletionService interface {
	Complete(ctx context.Context, req CompletionRequest) ([]byte, error)
}

// ErrIngestionDisabled is returned when message ingestion has no extractor.
var ErrIngestionDisabled = errors.New("message ingestion is not configured")

// MetricExtractor turns a free-text message into a ParsedMetric.
type MetricExtractor interface {
	Extract(ctx context.Context, message string) (domain.ParsedMetric, error)
}
