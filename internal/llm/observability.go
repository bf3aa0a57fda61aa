package llm

import (
	"context"
	"log/slog"
)

// LLMCallEvent records metadata about a single LLM invocation.
type LLMCallEvent struct {
	Task        TaskType
	Model       string
	LatencyMs   int64
	PromptChars int
	Success     bool
	ErrorCode   string
	Err         error
}

// Observer receives events about LLM calls for logging and metrics.
type Observer interface {
	OnCallComplete(event LLMCallEvent)
}

// LogObserver writes LLM call events to a structured logger.
// Failed calls are logged at Warn. Successful calls are logged at Debug, or
// at Info when logCalls is set.
type LogObserver struct {
	logger       *slog.Logger
	successLevel slog.Level
}

// NewLogObserver creates an Observer that logs events to logger.
func NewLogObserver(logger *slog.Logger, logCalls bool) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelDebug
	if logCalls {
		level = slog.LevelInfo
	}
	return &LogObserver{logger: logger, successLevel: level}
}

func (o *LogObserver) OnCallComplete(event LLMCallEvent) {
	attrs := []slog.Attr{
		slog.String("task", string(event.Task)),
		slog.String("model", event.Model),
		slog.Int64("latency_ms", event.LatencyMs),
		slog.Int("prompt_chars", event.PromptChars),
	}
	if !event.Success {
		attrs = append(attrs, slog.String("code", event.ErrorCode))
		if event.Err != nil {
			attrs = append(attrs, slog.String("error", event.Err.Error()))
		}
		o.logger.LogAttrs(context.Background(), slog.LevelWarn, "llm_call", attrs...)
		return
	}
	o.logger.LogAttrs(context.Background(), o.successLevel, "llm_call", attrs...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(LLMCallEvent) {}
