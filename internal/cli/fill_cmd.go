package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/promptblocks/internal/cli/formatter"
	"github.com/alexanderramin/promptblocks/internal/intelligence"
	"github.com/alexanderramin/promptblocks/internal/service"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newFillCmd(app *App) *cobra.Command {
	var (
		answers   []string
		noClarify bool
	)

	cmd := &cobra.Command{
		Use:   "fill [INTENT...]",
		Short: "Generate blocks from a plain-language description",
		Long: `Describe what the prompt should do and let the model fill in Task,
Tone, Format, Persona and Constraint blocks. The model may first ask up to
three clarification questions. Answer them interactively, with repeated
--answer flags, or one per line on stdin. The builder is only replaced when
generation succeeds.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireLLM(ctx); err != nil {
				return err
			}

			intent := strings.TrimSpace(strings.Join(args, " "))
			if intent == "" && app.interactive() {
				if err := intentForm(&intent).RunWithContext(ctx); err != nil {
					return formAborted(cmd, err)
				}
			}

			if err := app.restoreWorkspace(ctx); err != nil {
				return err
			}

			fill := app.newFill()
			var (
				state intelligence.FillState
				err   error
			)
			if noClarify {
				state, err = app.withSpinner(cmd, "Generating blocks", func() (intelligence.FillState, error) {
					return fill.Generate(ctx, intent)
				})
			} else {
				state, err = app.withSpinner(cmd, "Thinking about your request", func() (intelligence.FillState, error) {
					return fill.Submit(ctx, intent)
				})
			}
			if err != nil {
				return service.ClassifyFailure(err)
			}

			if state == intelligence.StateClarification {
				questions := fill.Snapshot().Questions
				replies, err := app.collectAnswers(cmd, questions, answers)
				if err != nil {
					return err
				}
				state, err = app.withSpinner(cmd, "Generating blocks", func() (intelligence.FillState, error) {
					return fill.Answer(ctx, replies)
				})
				if err != nil {
					return service.ClassifyFailure(err)
				}
			}

			if state != intelligence.StateComplete {
				return fmt.Errorf("ai fill stopped in the %s step", state)
			}
			if err := app.persistWorkspace(ctx); err != nil {
				return err
			}

			generated := fill.Snapshot().Generated
			fmt.Fprintln(out(cmd), formatter.Success(fmt.Sprintf("Generated %d blocks", len(generated))))
			fmt.Fprint(out(cmd), formatter.FormatBlockList(app.Store.Blocks()))
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&answers, "answer", "a", nil, "answer to a clarification question, in order (repeatable)")
	cmd.Flags().BoolVar(&noClarify, "no-clarify", false, "skip clarification and generate straight away")
	return cmd
}

// collectAnswers gathers one answer per question from flags, a huh form or
// stdin, in that order of preference.
func (a *App) collectAnswers(cmd *cobra.Command, questions, flagged []string) ([]string, error) {
	if len(flagged) > 0 {
		replies := make([]string, len(questions))
		copy(replies, flagged)
		return replies, nil
	}
	if a.interactive() {
		replies := make([]string, len(questions))
		if err := clarificationForm(questions, replies).RunWithContext(cmd.Context()); err != nil {
			return nil, formAborted(cmd, err)
		}
		return replies, nil
	}
	fmt.Fprint(out(cmd), formatter.FormatQuestions(questions))
	return readAnswersIO(cmd.InOrStdin(), out(cmd), questions), nil
}

// withSpinner runs fn behind a spinner on stderr when the session is interactive.
func (a *App) withSpinner(cmd *cobra.Command, message string, fn func() (intelligence.FillState, error)) (intelligence.FillState, error) {
	if !a.interactive() {
		return fn()
	}
	stop := formatter.StartSpinner(cmd.ErrOrStderr(), message)
	defer stop()
	return fn()
}

func formAborted(cmd *cobra.Command, err error) error {
	if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("cancelled")
	}
	return err
}
