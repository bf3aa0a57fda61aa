package llm

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogObserver_LogsUpstreamFailureAtWarn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("model overloaded"))
	}))
	defer srv.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
	client, err := NewGeminiClient(testConfig(srv.URL), NewLogObserver(logger, false))
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), GenerateRequest{Task: TaskClarify, Prompt: "x"})
	require.Error(t, err)

	out := logs.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "code=UPSTREAM")
	assert.Contains(t, out, "model overloaded")
}

func TestLogObserver_SuccessLevel(t *testing.T) {
	cases := []struct {
		logCalls bool
		want     string
	}{
		{false, "level=DEBUG"},
		{true, "level=INFO"},
	}
	for _, tc := range cases {
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		NewLogObserver(logger, tc.logCalls).OnCallComplete(LLMCallEvent{Task: TaskGenerate, Success: true})
		assert.Contains(t, logs.String(), tc.want)
	}
}
