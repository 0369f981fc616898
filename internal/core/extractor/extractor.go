// Package extractor turns an informal message about an ad result into a
// ParsedMetric. Interpretation is delegated to a TextCompletionService; this
// package only checks and normalizes what comes back.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"traffic-analyzer/internal/core/domain"
	"traffic-analyzer/internal/core/port"
)

// DefaultTimeout bounds a single completion call.
const DefaultTimeout = 10 * time.Second

// MaxSpend is the largest accepted spend. Counters derived from spend, up to
// 15 impressions per unit, must still fit in an int64.
const MaxSpend = math.MaxInt64 / 15

var (
	ErrTimeout      = errors.New("completion service timed out")
	ErrCanceled     = errors.New("extraction canceled")
	ErrPanic        = errors.New("completion service panicked")
	ErrMalformed    = errors.New("payload is not a JSON object")
	ErrMissingField = errors.New("required field missing")
)

// Error is the failure value returned by Extract. Reason is a short
// human-readable description suitable for an activity feed.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "extract metric: " + e.Reason
	}
	return fmt.Sprintf("extract metric: %s: %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// SystemContext instructs the model how to read traffic managers' messages.
const SystemContext = `You read WhatsApp messages sent by paid-traffic managers and extract one ad result.
Messages are informal and may use slang such as "burned 1k on face" or "dropped 500 on the campaigns".
Rules:
- spend: the amount of money spent, as a number.
- platform: one of Facebook, Google, TikTok, Instagram. Use Facebook when none is named.
- clicks and conversions: numbers; return 0 when the message does not mention them.
- date: YYYY-MM-DD when the message names a day, otherwise omit it.
Return only the JSON object.`

// MetricSchema is the response shape requested from the service.
var MetricSchema = port.Schema{
	Fields: []port.SchemaField{
		{Name: "spend", Type: port.FieldNumber},
		{Name: "clicks", Type: port.FieldNumber},
		{Name: "conversions", Type: port.FieldNumber},
		{Name: "platform", Type: port.FieldString, Enum: platformNames()},
		{Name: "date", Type: port.FieldString},
	},
	Required: []string{"spend", "platform"},
}

// Extractor is safe for concurrent use.
type Extractor struct {
	svc     port.TextCompletionService
	timeout time.Duration
	now     func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTimeout overrides DefaultTimeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(e *Extractor) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithClock sets the source of "today" used for missing dates.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// New returns an Extractor backed by svc.
func New(svc port.TextCompletionService, opts ...Option) *Extractor {
	e := &Extractor{svc: svc, timeout: DefaultTimeout, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract makes exactly one completion call for message. A blank message is
// a *domain.ValidationError; every other failure is an *Error.
func (e *Extractor) Extract(ctx context.Context, message string) (domain.ParsedMetric, error) {
	if strings.TrimSpace(message) == "" {
		return domain.ParsedMetric{}, domain.NewValidationError("message", "must not be empty")
	}

	raw, err := e.complete(ctx, port.CompletionRequest{
		SystemContext: SystemContext,
		Message:       message,
		Schema:        MetricSchema,
	})
	if err != nil {
		return domain.ParsedMetric{}, err
	}
	return e.normalize(raw)
}

type result struct {
	raw []byte
	err error
}

// complete runs the service call under the timeout. The call runs in its own
// goroutine so a service that ignores ctx cannot hold Extract past the deadline.
func (e *Extractor) complete(ctx context.Context, req port.CompletionRequest) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- result{err: fmt.Errorf("%w: %v", ErrPanic, r)}
			}
		}()
		raw, err := e.svc.Complete(ctx, req)
		done <- result{raw: raw, err: err}
	}()

	select {
	case res := <-done:
		if res.err == nil {
			return res.raw, nil
		}
		if errors.Is(res.err, context.DeadlineExceeded) {
			return nil, &Error{Reason: "service timed out", Err: ErrTimeout}
		}
		return nil, &Error{Reason: "service call failed", Err: res.err}
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &Error{Reason: "service timed out", Err: ErrTimeout}
		}
		return nil, &Error{Reason: "request canceled", Err: ErrCanceled}
	}
}

type payload struct {
	Spend       *float64 `json:"spend"`
	Clicks      *float64 `json:"clicks"`
	Conversions *float64 `json:"conversions"`
	Platform    *string  `json:"platform"`
	Date        *string  `json:"date"`
}

func (e *Extractor) normalize(raw []byte) (domain.ParsedMetric, error) {
	var p payload
	body := stripFence(raw)
	if len(body) == 0 || body[0] != '{' {
		return domain.ParsedMetric{}, &Error{Reason: "unreadable response", Err: ErrMalformed}
	}
	if err := json.Unmarshal(body, &p); err != nil {
		return domain.ParsedMetric{}, &Error{Reason: "unreadable response", Err: fmt.Errorf("%w: %v", ErrMalformed, err)}
	}

	if p.Spend == nil {
		return domain.ParsedMetric{}, &Error{Reason: "no spend found", Err: fmt.Errorf("%w: spend", ErrMissingField)}
	}
	if p.Platform == nil {
		return domain.ParsedMetric{}, &Error{Reason: "no platform found", Err: fmt.Errorf("%w: platform", ErrMissingField)}
	}
	platform, ok := domain.ParsePlatform(*p.Platform)
	if !ok {
		return domain.ParsedMetric{}, invalid("platform", "unsupported platform "+*p.Platform)
	}
	if *p.Spend < 0 {
		return domain.ParsedMetric{}, invalid("spend", "must not be negative")
	}
	if *p.Spend >= MaxSpend {
		return domain.ParsedMetric{}, invalid("spend", "out of range")
	}
	clicks, err := count("clicks", p.Clicks)
	if err != nil {
		return domain.ParsedMetric{}, err
	}
	conversions, err := count("conversions", p.Conversions)
	if err != nil {
		return domain.ParsedMetric{}, err
	}

	date := domain.DateOf(e.now())
	if p.Date != nil {
		if d, err := domain.ParseDate(*p.Date); err == nil {
			date = d
		}
	}

	return domain.ParsedMetric{
		Name:        "WA_" + strings.ToUpper(string(platform)) + "_AUTO",
		Spend:       *p.Spend,
		Clicks:      clicks,
		Conversions: conversions,
		Platform:    platform,
		Date:        date,
	}, nil
}

// count converts an optional JSON number to a non-negative counter,
// truncating fractions. Absent means 0.
func count(field string, v *float64) (int64, error) {
	if v == nil {
		return 0, nil
	}
	if *v < 0 {
		return 0, invalid(field, "must not be negative")
	}
	if *v >= math.MaxInt64 {
		return 0, invalid(field, "out of range")
	}
	return int64(*v), nil
}

func invalid(field, reason string) *Error {
	return &Error{Reason: "invalid " + field, Err: domain.NewValidationError(field, reason)}
}

// stripFence removes a markdown code fence some models wrap JSON in.
func stripFence(raw []byte) []byte {
	b := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	b = bytes.TrimPrefix(b, []byte("```"))
	if i := bytes.IndexByte(b, '\n'); i >= 0 {
		b = b[i+1:]
	}
	b = bytes.TrimSuffix(bytes.TrimSpace(b), []byte("```"))
	return bytes.TrimSpace(b)
}

func platformNames() []string {
	names := make([]string, len(domain.Platforms))
	for i, p := range domain.Platforms {
		names[i] = string(p)
	}
	return names
}
