package llm

import "time"

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskDefault      TaskType = "default"
	TaskClarify      TaskType = "clarify"
	TaskGenerate     TaskType = "generate"
	TaskBlockContent TaskType = "block_content"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature     float64
	MaxOutputTokens int
	TimeoutMs       int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	APIKey          string
	Endpoint        string
	Model           string
	TimeoutMs       int
	LogCalls        bool
	RateLimit       int
	RateWindow      time.Duration
	SuggestInterval time.Duration
	Tasks           map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults. The API key is
// left empty; it must come from the environment or a config file.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Endpoint:        "https://generativelanguage.googleapis.com/v1beta",
		Model:           "gemini-2.0-flash",
		TimeoutMs:       30000,
		RateLimit:       DefaultRateLimit,
		RateWindow:      DefaultRateWindow,
		SuggestInterval: 500 * time.Millisecond,
		Tasks: map[TaskType]TaskConfig{
			TaskDefault:      {Temperature: 0.7, MaxOutputTokens: 1000},
			TaskClarify:      {Temperature: 0.3, MaxOutputTokens: 300, TimeoutMs: 15000},
			TaskGenerate:     {Temperature: 0.7, MaxOutputTokens: 1024},
			TaskBlockContent: {Temperature: 0.7, MaxOutputTokens: 150, TimeoutMs: 15000},
		},
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) time.Duration {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return time.Duration(tc.TimeoutMs) * time.Millisecond
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// taskConfig returns the parameters for task, falling back to TaskDefault.
func (c LLMConfig) taskConfig(task TaskType) TaskConfig {
	if tc, ok := c.Tasks[task]; ok {
		return tc
	}
	return c.Tasks[TaskDefault]
}
