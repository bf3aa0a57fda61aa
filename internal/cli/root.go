package cli

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/promptblocks/internal/intelligence"
	"github.com/alexanderramin/promptblocks/internal/llm"
	"github.com/alexanderramin/promptblocks/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services used by CLI commands.
type App struct {
	Store     *service.PromptStore
	Workspace *service.WorkspaceService
	LLM       llm.LLMClient // nil when no API key is configured
	Suggester *llm.Suggester
	Logger    *slog.Logger

	// IsInteractive reports whether huh forms and confirmations may be shown.
	IsInteractive func() bool
	Now           func() time.Time

	// Bootstrap runs after flags are parsed and fills in the fields above
	// from configuration. Tests wire App directly and leave it nil.
	Bootstrap func(cmd *cobra.Command) error
}

// NewRootCmd creates the top-level "promptblocks" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "promptblocks",
		Short:         "Build AI prompts from typed blocks",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.Bootstrap != nil {
				if err := app.Bootstrap(cmd); err != nil {
					return err
				}
			}
			if f := cmd.Flags().Lookup("user"); f != nil && f.Changed {
				app.Store.SetUser(f.Value.String())
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ~/.promptblocks/config.yaml)")
	flags.String("db", "", "SQLite database path")
	flags.String("user", "", "user identity that owns saved prompts")
	flags.BoolP("verbose", "v", false, "debug logging on stderr")

	root.AddCommand(
		newBlockCmd(app),
		newPreviewCmd(app),
		newFillCmd(app),
		newSuggestCmd(app),
		newPromptCmd(app),
	)

	return root
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}

// restoreWorkspace loads the signed-in user's builder blocks.
func (a *App) restoreWorkspace(ctx context.Context) error {
	if err := a.Workspace.Restore(ctx, a.Store.User(), a.Store); err != nil {
		return a.fail(ctx, "restoring workspace", err)
	}
	return nil
}

// persistWorkspace writes the builder blocks back after a change.
func (a *App) persistWorkspace(ctx context.Context) error {
	if err := a.Workspace.Persist(ctx, a.Store.User(), a.Store); err != nil {
		return a.fail(ctx, "saving workspace", err)
	}
	return nil
}

// editWorkspace restores the builder, applies fn and persists the result.
func (a *App) editWorkspace(ctx context.Context, fn func() error) error {
	if err := a.restoreWorkspace(ctx); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	return a.persistWorkspace(ctx)
}

// fail logs err and returns its user-facing classification.
func (a *App) fail(ctx context.Context, op string, err error) error {
	f := service.ClassifyFailure(err)
	a.logger().ErrorContext(ctx, op+" failed",
		"error", err,
		"category", string(f.Category),
	)
	return f
}

// requireLLM reports a missing API key as an auth failure.
func (a *App) requireLLM(ctx context.Context) error {
	if a.LLM == nil {
		return a.fail(ctx, "ai request", llm.ErrMissingAPIKey)
	}
	return nil
}

// newFill starts an AI Fill session that writes into the builder.
func (a *App) newFill() *intelligence.AIFill {
	return intelligence.NewAIFill(a.LLM, a.Store, a.logger())
}

func out(cmd *cobra.Command) io.Writer { return cmd.OutOrStdout() }
