package intelligence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/alexanderramin/promptblocks/internal/domain"
	"github.com/alexanderramin/promptblocks/internal/llm"
)

// FillState is the step an AI Fill session is on.
type FillState string

const (
	StateInput         FillState = "input"
	StateClarification FillState = "clarification"
	StateProcessing    FillState = "processing"
	StateComplete      FillState = "complete"
)

var (
	ErrEmptyInput        = errors.New("describe what you want the prompt to do")
	ErrFillBusy          = errors.New("an AI fill request is already in progress")
	ErrStaleResult       = errors.New("AI fill result discarded: session was reset")
	ErrInvalidTransition = errors.New("action not available in the current AI fill step")
	ErrNoBlocksParsed    = errors.New("the model returned no usable blocks")
)

// BlockReplacer receives the generated block set in one call.
type BlockReplacer interface {
	ReplaceBlocks(blocks []domain.Block)
}

// FillSnapshot is a read-only view of an AI Fill session.
type FillSnapshot struct {
	State      FillState
	Input      string
	Questions  []string
	Answers    []string
	Error      string
	Processing bool
	Generated  []domain.Block
}

// AIFill drives the two-pass AI Fill flow: an optional clarification round
// followed by block generation. Generated blocks reach the builder only after
// a successful parse, through a single ReplaceBlocks call.
type AIFill struct {
	client llm.LLMClient
	sink   BlockReplacer
	logger *slog.Logger

	mu         sync.Mutex
	state      FillState
	input      string
	questions  []string
	answers    []string
	errMsg     string
	processing bool
	generated  []domain.Block
	session    uint64
}

// NewAIFill creates an AI Fill session in the input step.
func NewAIFill(client llm.LLMClient, sink BlockReplacer, logger *slog.Logger) *AIFill {
	if logger == nil {
		logger = slog.Default()
	}
	return &AIFill{client: client, sink: sink, logger: logger, state: StateInput}
}

// Submit starts the flow from free-text intent. The returned state is
// StateClarification when the model asked questions and StateComplete when
// blocks were generated straight away.
func (f *AIFill) Submit(ctx context.Context, input string) (FillState, error) {
	input = strings.TrimSpace(input)

	f.mu.Lock()
	if err := f.checkLocked(StateInput); err != nil {
		f.mu.Unlock()
		return f.State(), err
	}
	if input == "" {
		f.errMsg = ErrEmptyInput.Error()
		f.mu.Unlock()
		return StateInput, ErrEmptyInput
	}
	f.input = input
	f.errMsg = ""
	f.processing = true
	session := f.session
	f.mu.Unlock()
	defer f.done()

	resp, err := f.client.Generate(ctx, llm.GenerateRequest{
		Task:   llm.TaskClarify,
		Prompt: buildClarifyPrompt(input),
	})

	f.mu.Lock()
	if f.session != session {
		f.mu.Unlock()
		f.logger.DebugContext(ctx, "ai fill result discarded", "step", "clarify", "error", err)
		return f.State(), ErrStaleResult
	}
	if err != nil {
		f.logger.ErrorContext(ctx, "ai fill clarification failed", "error", err, "input_chars", len(input))
		f.errMsg = err.Error()
		f.mu.Unlock()
		return StateInput, fmt.Errorf("clarification pass: %w", err)
	}

	var questions []string
	if !NeedsNoClarification(resp.Text) {
		questions = ExtractClarificationQuestions(resp.Text)
	}
	if len(questions) > 0 {
		f.state = StateClarification
		f.questions = questions
		f.answers = make([]string, len(questions))
		f.mu.Unlock()
		f.logger.DebugContext(ctx, "ai fill clarification requested", "questions", len(questions))
		return StateClarification, nil
	}
	f.state = StateProcessing
	f.mu.Unlock()

	return f.generate(ctx, session, input, StateInput)
}

// Generate skips the clarification pass and generates blocks directly from
// input. It is available from the same step as Submit.
func (f *AIFill) Generate(ctx context.Context, input string) (FillState, error) {
	input = strings.TrimSpace(input)

	f.mu.Lock()
	if err := f.checkLocked(StateInput); err != nil {
		f.mu.Unlock()
		return f.State(), err
	}
	if input == "" {
		f.errMsg = ErrEmptyInput.Error()
		f.mu.Unlock()
		return StateInput, ErrEmptyInput
	}
	f.input = input
	f.errMsg = ""
	f.processing = true
	f.state = StateProcessing
	session := f.session
	f.mu.Unlock()
	defer f.done()

	return f.generate(ctx, session, input, StateInput)
}

// Answer supplies answers for the clarification questions, positionally, and
// runs the generation pass on the combined input.
func (f *AIFill) Answer(ctx context.Context, answers []string) (FillState, error) {
	f.mu.Lock()
	if err := f.checkLocked(StateClarification); err != nil {
		f.mu.Unlock()
		return f.State(), err
	}
	f.answers = make([]string, len(f.questions))
	copy(f.answers, answers)
	combined := CombineAnswers(f.input, f.questions, f.answers)
	f.errMsg = ""
	f.processing = true
	f.state = StateProcessing
	session := f.session
	f.mu.Unlock()
	defer f.done()

	return f.generate(ctx, session, combined, StateClarification)
}

// Back leaves the clarification step, dropping its questions and answers.
func (f *AIFill) Back() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.checkLocked(StateClarification); err != nil {
		return err
	}
	f.session++
	f.state = StateInput
	f.questions = nil
	f.answers = nil
	f.errMsg = ""
	return nil
}

// Reset returns to the input step from anywhere and clears all session state.
// A call still in flight finishes, but its result is discarded.
func (f *AIFill) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.session++
	f.state = StateInput
	f.input = ""
	f.questions = nil
	f.answers = nil
	f.errMsg = ""
	f.generated = nil
}

// State returns the current step.
func (f *AIFill) State() FillState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Snapshot returns a copy of the session state.
func (f *AIFill) Snapshot() FillSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FillSnapshot{
		State:      f.state,
		Input:      f.input,
		Questions:  append([]string(nil), f.questions...),
		Answers:    append([]string(nil), f.answers...),
		Error:      f.errMsg,
		Processing: f.processing,
		Generated:  append([]domain.Block(nil), f.generated...),
	}
}

func (f *AIFill) generate(ctx context.Context, session uint64, input string, origin FillState) (FillState, error) {
	resp, err := f.client.Generate(ctx, llm.GenerateRequest{
		Task:   llm.TaskGenerate,
		Prompt: buildGeneratePrompt(input),
	})

	var blocks []domain.Block
	if err == nil {
		blocks = ParseLabeledBlocks(resp.Text)
		if len(blocks) == 0 {
			err = ErrNoBlocksParsed
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session != session {
		f.logger.DebugContext(ctx, "ai fill result discarded", "step", "generate", "error", err)
		return f.state, ErrStaleResult
	}
	if err != nil {
		f.logger.ErrorContext(ctx, "ai fill generation failed",
			"error", err,
			"from_state", string(origin),
			"input_chars", len(input),
		)
		f.state = origin
		f.errMsg = err.Error()
		return origin, fmt.Errorf("generation pass: %w", err)
	}

	f.sink.ReplaceBlocks(blocks)
	f.generated = blocks
	f.state = StateComplete
	f.logger.InfoContext(ctx, "ai fill complete", "blocks", len(blocks))
	return StateComplete, nil
}

// checkLocked rejects a call while another is in flight or from the wrong step.
func (f *AIFill) checkLocked(want FillState) error {
	if f.processing {
		return ErrFillBusy
	}
	if f.state != want {
		return fmt.Errorf("%w: in %s, need %s", ErrInvalidTransition, f.state, want)
	}
	return nil
}

func (f *AIFill) done() {
	f.mu.Lock()
	f.processing = false
	f.mu.Unlock()
}
