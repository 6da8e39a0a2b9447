package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/skillprobe/internal/logger"
	"github.com/abhisek/skillprobe/internal/metrics"
)

// RequestEvent describes one completed LLM call.
type RequestEvent struct {
	Provider     string
	Model        string
	Purpose      string
	SessionID    string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// EventRecorder persists request events.
type EventRecorder interface {
	AppendLLMRequest(ctx context.Context, e RequestEvent) error
}

// LoggingProvider is a decorator that logs, counts and records every LLM
// request.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   EventRecorder
	logger   *zap.Logger
}

// WithLogging wraps a Provider. events may be nil.
func WithLogging(p Provider, providerName string, events EventRecorder, log *zap.Logger) Provider {
	l := logger.OrNop(log)
	return &LoggingProvider{
		inner:    p,
		provider: providerName,
		events:   events,
		logger:   logger.WithFields(l, logger.CommonFields(providerName, p.ModelID())...),
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()

	resp, err := l.inner.Generate(ctx, req)

	e := RequestEvent{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     PurposeFrom(ctx),
		SessionID:   SessionFrom(ctx),
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: serializeRequest(req),
	}
	if resp != nil {
		e.InputTokens = resp.Usage.InputTokens
		e.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			e.Model = resp.Model
		}
		e.ResponseBody = string(resp.Content)
	}
	if err != nil {
		e.ErrorMessage = err.Error()
	}

	metrics.LLMRequests.WithLabelValues(l.provider, outcome(err)).Inc()
	metrics.LLMTokens.WithLabelValues("input").Add(float64(e.InputTokens))
	metrics.LLMTokens.WithLabelValues("output").Add(float64(e.OutputTokens))

	fields := []zap.Field{
		zap.String("purpose", e.Purpose),
		zap.Int64("latency_ms", e.LatencyMs),
		zap.Int("input_tokens", e.InputTokens),
		zap.Int("output_tokens", e.OutputTokens),
	}
	if e.SessionID != "" {
		fields = append(fields, zap.String(logger.FieldSession, e.SessionID))
	}
	if err != nil {
		l.logger.Warn("LLM request failed", append(fields, zap.Error(err))...)
	} else {
		l.logger.Debug("LLM request", fields...)
	}

	// Recording must not fail the request.
	if l.events != nil {
		if recErr := l.events.AppendLLMRequest(ctx, e); recErr != nil {
			l.logger.Warn("failed to record LLM request event", zap.Error(recErr))
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n", m.Role)
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n", req.Schema.Name)
			b.Write(schemaDef)
			b.WriteString("\n")
		}
	}

	return b.String()
}
