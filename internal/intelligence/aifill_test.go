package intelligence

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/alexanderramin/promptblocks/internal/domain"
	"github.com/alexanderramin/promptblocks/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fillReply struct {
	text string
	err  error
}

// fillMockClient answers calls from a script and records each request.
type fillMockClient struct {
	mu      sync.Mutex
	replies []fillReply
	reqs    []llm.GenerateRequest
	gate    chan struct{} // when set, each call waits for a receive
	entered chan struct{}
}

func (m *fillMockClient) Generate(ctx context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	m.mu.Lock()
	m.reqs = append(m.reqs, req)
	n := len(m.reqs)
	m.mu.Unlock()

	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.gate != nil {
		<-m.gate
	}
	if n > len(m.replies) {
		return nil, errors.New("unexpected call")
	}
	r := m.replies[n-1]
	if r.err != nil {
		return nil, r.err
	}
	return &llm.GenerateResponse{Text: r.text}, nil
}

func (m *fillMockClient) calls() []llm.GenerateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]llm.GenerateRequest(nil), m.reqs...)
}

type recordingSink struct {
	mu      sync.Mutex
	blocks  []domain.Block
	replace int
}

func (s *recordingSink) ReplaceBlocks(blocks []domain.Block) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks = blocks
	s.replace++
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFill(replies ...fillReply) (*AIFill, *fillMockClient, *recordingSink) {
	client := &fillMockClient{replies: replies}
	sink := &recordingSink{}
	return NewAIFill(client, sink, quietLogger()), client, sink
}

func TestAIFill_Submit_EmptyInputSkipsLLM(t *testing.T) {
	fill, client, sink := newFill()

	state, err := fill.Submit(context.Background(), "   \n\t")
	assert.ErrorIs(t, err, ErrEmptyInput)
	assert.Equal(t, StateInput, state)
	assert.Empty(t, client.calls())
	assert.Zero(t, sink.replace)
	assert.NotEmpty(t, fill.Snapshot().Error)
}

func TestAIFill_Submit_SentinelGoesStraightToGeneration(t *testing.T) {
	fill, client, sink := newFill(
		fillReply{text: NoClarificationSentinel},
		fillReply{text: "**Task:** Do X\n\n**Tone:** Be nice"},
	)

	state, err := fill.Submit(context.Background(), "  Help me write a thank-you note ")
	require.NoError(t, err)
	assert.Equal(t, StateComplete, state)

	snap := fill.Snapshot()
	assert.Empty(t, snap.Questions, "questions are never populated on the sentinel path")
	assert.Equal(t, "Help me write a thank-you note", snap.Input)
	assert.False(t, snap.Processing)

	calls := client.calls()
	require.Len(t, calls, 2)
	assert.Equal(t, llm.TaskClarify, calls[0].Task)
	assert.Equal(t, llm.TaskGenerate, calls[1].Task)
	assert.Contains(t, calls[1].Prompt, "Help me write a thank-you note")

	assert.Equal(t, 1, sink.replace)
	assert.Equal(t, [][2]string{{"Task", "Do X"}, {"Tone", "Be nice"}}, blockPairs(sink.blocks))
}

func TestAIFill_Submit_ZeroQuestionsFailsOpen(t *testing.T) {
	fill, _, sink := newFill(
		fillReply{text: "Looks good to me."},
		fillReply{text: "**Task:** Summarise"},
	)

	state, err := fill.Submit(context.Background(), "Summarise this")
	require.NoError(t, err)
	assert.Equal(t, StateComplete, state)
	assert.Len(t, sink.blocks, 1)
}

func TestAIFill_ClarificationThenAnswer(t *testing.T) {
	fill, client, sink := newFill(
		fillReply{text: "1. Who is the audience?\n2. How long should it be?"},
		fillReply{text: "**Task:** Write an email\n**Format:** Short"},
	)

	state, err := fill.Submit(context.Background(), "Write an email")
	require.NoError(t, err)
	assert.Equal(t, StateClarification, state)
	snap := fill.Snapshot()
	assert.Equal(t, []string{"Who is the audience?", "How long should it be?"}, snap.Questions)
	assert.Zero(t, sink.replace)

	state, err = fill.Answer(context.Background(), []string{"My manager", ""})
	require.NoError(t, err)
	assert.Equal(t, StateComplete, state)

	calls := client.calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[1].Prompt, "Write an email. Who is the audience? My manager")
	assert.NotContains(t, calls[1].Prompt, "How long should it be?")
	assert.Equal(t, [][2]string{{"Task", "Write an email"}, {"Format", "Short"}}, blockPairs(sink.blocks))
}

func TestAIFill_Back_DiscardsClarification(t *testing.T) {
	fill, _, _ := newFill(fillReply{text: "1. Who is it for?"})

	_, err := fill.Submit(context.Background(), "Write a poem")
	require.NoError(t, err)
	require.NoError(t, fill.Back())

	snap := fill.Snapshot()
	assert.Equal(t, StateInput, snap.State)
	assert.Empty(t, snap.Questions)
	assert.Empty(t, snap.Answers)

	assert.ErrorIs(t, fill.Back(), ErrInvalidTransition)
}

func TestAIFill_ClarificationFailure_StaysOnInput(t *testing.T) {
	fill, _, sink := newFill(fillReply{err: llm.ErrServerRateLimited})

	state, err := fill.Submit(context.Background(), "Write a poem")
	assert.ErrorIs(t, err, llm.ErrServerRateLimited)
	assert.Equal(t, StateInput, state)
	assert.Zero(t, sink.replace)

	snap := fill.Snapshot()
	assert.Equal(t, StateInput, snap.State)
	assert.Contains(t, snap.Error, "rate")
	assert.False(t, snap.Processing)
}

func TestAIFill_GenerationFailure_ReturnsToOriginAndKeepsBlocks(t *testing.T) {
	t.Run("from input", func(t *testing.T) {
		fill, _, sink := newFill(
			fillReply{text: NoClarificationSentinel},
			fillReply{err: llm.ErrEmptyGeneration},
		)
		state, err := fill.Submit(context.Background(), "Plan a party")
		assert.ErrorIs(t, err, llm.ErrEmptyGeneration)
		assert.Equal(t, StateInput, state)
		assert.Zero(t, sink.replace, "existing blocks are never cleared on failure")
	})

	t.Run("from clarification", func(t *testing.T) {
		fill, _, sink := newFill(
			fillReply{text: "1. For how many guests?"},
			fillReply{text: "Sorry, I cannot help with that."},
		)
		_, err := fill.Submit(context.Background(), "Plan a party")
		require.NoError(t, err)

		state, err := fill.Answer(context.Background(), []string{"Ten"})
		assert.ErrorIs(t, err, ErrNoBlocksParsed)
		assert.Equal(t, StateClarification, state)
		assert.Zero(t, sink.replace)

		snap := fill.Snapshot()
		assert.Equal(t, []string{"For how many guests?"}, snap.Questions)
		assert.Equal(t, []string{"Ten"}, snap.Answers)
		assert.NotEmpty(t, snap.Error)
	})
}

func TestAIFill_Answer_WrongState(t *testing.T) {
	fill, _, _ := newFill()
	_, err := fill.Answer(context.Background(), []string{"x"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestAIFill_Submit_FromCompleteNeedsReset(t *testing.T) {
	fill, _, _ := newFill(
		fillReply{text: NoClarificationSentinel},
		fillReply{text: "**Task:** A"},
		fillReply{text: NoClarificationSentinel},
		fillReply{text: "**Task:** B"},
	)
	_, err := fill.Submit(context.Background(), "first")
	require.NoError(t, err)

	_, err = fill.Submit(context.Background(), "second")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	fill.Reset()
	snap := fill.Snapshot()
	assert.Equal(t, StateInput, snap.State)
	assert.Empty(t, snap.Input)
	assert.Empty(t, snap.Generated)

	state, err := fill.Submit(context.Background(), "second")
	require.NoError(t, err)
	assert.Equal(t, StateComplete, state)
}

func TestAIFill_BusyAndStaleResult(t *testing.T) {
	client := &fillMockClient{
		replies: []fillReply{{text: NoClarificationSentinel}, {text: "**Task:** late"}},
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 2),
	}
	sink := &recordingSink{}
	var logs bytes.Buffer
	fill := NewAIFill(client, sink, slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))

	type result struct {
		state FillState
		err   error
	}
	done := make(chan result, 1)
	go func() {
		s, err := fill.Submit(context.Background(), "something")
		done <- result{s, err}
	}()

	<-client.entered
	assert.True(t, fill.Snapshot().Processing)
	_, err := fill.Submit(context.Background(), "again")
	assert.ErrorIs(t, err, ErrFillBusy)

	fill.Reset()
	client.gate <- struct{}{}

	res := <-done
	assert.ErrorIs(t, res.err, ErrStaleResult)
	assert.Equal(t, StateInput, res.state)
	assert.Len(t, client.calls(), 1, "stale clarification does not continue to generation")
	assert.Zero(t, sink.replace)
	assert.False(t, fill.Snapshot().Processing)
	assert.Contains(t, logs.String(), "ai fill result discarded")
	assert.Contains(t, logs.String(), "step=clarify")
}

func TestAIFill_Generate_StaleResultIsLogged(t *testing.T) {
	client := &fillMockClient{
		replies: []fillReply{{err: errors.New("upstream hiccup")}},
		gate:    make(chan struct{}),
		entered: make(chan struct{}, 1),
	}
	sink := &recordingSink{}
	var logs bytes.Buffer
	fill := NewAIFill(client, sink, slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))

	done := make(chan error, 1)
	go func() {
		_, err := fill.Generate(context.Background(), "late answer")
		done <- err
	}()

	<-client.entered
	fill.Reset()
	client.gate <- struct{}{}

	assert.ErrorIs(t, <-done, ErrStaleResult)
	assert.Zero(t, sink.replace)
	assert.Empty(t, fill.Snapshot().Error, "stale failure does not leak into the reset session")
	out := logs.String()
	assert.Contains(t, out, "ai fill result discarded")
	assert.Contains(t, out, "step=generate")
	assert.Contains(t, out, "upstream hiccup")
}

func TestAIFill_Generate_SkipsClarification(t *testing.T) {
	fill, client, sink := newFill(
		fillReply{text: "**Task:** Plan a trip\n**Format:** A day-by-day list"},
	)

	state, err := fill.Generate(context.Background(), "weekend in Lisbon")
	require.NoError(t, err)
	assert.Equal(t, StateComplete, state)

	calls := client.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, llm.TaskGenerate, calls[0].Task)
	assert.Equal(t, 1, sink.replace)
	assert.Equal(t, [][2]string{{"Task", "Plan a trip"}, {"Format", "A day-by-day list"}}, blockPairs(sink.blocks))
}

func TestAIFill_Generate_FailureStaysOnInput(t *testing.T) {
	fill, _, sink := newFill(fillReply{text: "nothing labeled here"})

	state, err := fill.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNoBlocksParsed)
	assert.Equal(t, StateInput, state)
	assert.Zero(t, sink.replace)

	_, err = fill.Generate(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyInput)
}
