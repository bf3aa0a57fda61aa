package cli

import (
	"context"
	"fmt"

	"github.com/alexanderramin/promptblocks/internal/cli/formatter"
	"github.com/alexanderramin/promptblocks/internal/domain"
	"github.com/alexanderramin/promptblocks/internal/repository"
	"github.com/spf13/cobra"
)

func newPromptCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Save, browse and reuse prompt snapshots",
	}

	cmd.AddCommand(
		newPromptSaveCmd(app),
		newPromptListCmd(app),
		newPromptShowCmd(app),
		newPromptLoadCmd(app),
		newPromptRemoveCmd(app),
		newPromptPinCmd(app, true),
		newPromptPinCmd(app, false),
	)

	return cmd
}

func newPromptSaveCmd(app *App) *cobra.Command {
	var name, color string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save the builder as a new prompt snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.restoreWorkspace(ctx); err != nil {
				return err
			}
			if !cmd.Flags().Changed("name") && app.interactive() {
				if err := saveForm(&name).RunWithContext(ctx); err != nil {
					return formAborted(cmd, err)
				}
			}

			var customName *string
			if name != "" {
				customName = &name
			}
			id, err := app.Store.SavePrompt(ctx, customName, color)
			if err != nil {
				return err
			}

			label := domain.DeriveTitle(app.Store.Blocks())
			if customName != nil {
				label = *customName
			}
			fmt.Fprintln(out(cmd), formatter.Success(fmt.Sprintf("Saved %q %s", label, formatter.Dim(id))))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "custom name shown instead of the derived title")
	cmd.Flags().StringVar(&color, "color", "", "hex color label (default "+domain.DefaultPromptColor+")")
	return cmd
}

func newPromptListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved prompts, pinned first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Store.LoadSavedPrompts(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatPromptList(app.Store.SavedPrompts(), app.now()))
			return nil
		},
	}
}

func newPromptShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a saved prompt and its blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.findSaved(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.FormatPromptShow(p, app.now()))
			return nil
		},
	}
}

func newPromptLoadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "load ID",
		Short: "Replace the builder with a saved prompt's blocks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := app.resolveSaved(ctx, args[0])
			if err != nil {
				return err
			}
			p, err := app.Store.LoadIntoBuilder(ctx, id)
			if err != nil {
				return err
			}
			if err := app.persistWorkspace(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.Success(fmt.Sprintf("Loaded %q", p.DisplayName())))
			fmt.Fprint(out(cmd), formatter.FormatBlockList(app.Store.Blocks()))
			return nil
		},
	}
}

func newPromptRemoveCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a saved prompt",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.findSaved(ctx, args[0])
			if err != nil {
				return err
			}
			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete without confirmation: pass --yes")
				}
				if !confirmIO(cmd.InOrStdin(), out(cmd), fmt.Sprintf("Delete %q? [y/N]: ", p.DisplayName()), false) {
					fmt.Fprintln(out(cmd), formatter.Dim("Cancelled."))
					return nil
				}
			}
			if err := app.Store.DeleteSavedPrompt(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.Success(fmt.Sprintf("Deleted %q", p.DisplayName())))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newPromptPinCmd(app *App, pin bool) *cobra.Command {
	use, short, verb, state := "pin ID", "Pin a saved prompt to the top of the list", "Pinned", "pinned"
	if !pin {
		use, short, verb, state = "unpin ID", "Unpin a saved prompt", "Unpinned", "not pinned"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := app.findSaved(ctx, args[0])
			if err != nil {
				return err
			}
			if p.IsPinned == pin {
				fmt.Fprintln(out(cmd), formatter.Dim(fmt.Sprintf("%q is already %s.", p.DisplayName(), state)))
				return nil
			}
			if _, err := app.Store.TogglePin(ctx, p.ID); err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.Success(fmt.Sprintf("%s %q", verb, p.DisplayName())))
			return nil
		},
	}
}

// resolveSaved loads the user's prompts and resolves ref to a full ID.
func (a *App) resolveSaved(ctx context.Context, ref string) (string, error) {
	if err := a.Store.LoadSavedPrompts(ctx); err != nil {
		return "", err
	}
	return resolvePromptID(a.Store.SavedPrompts(), ref)
}

// findSaved returns the loaded prompt ref points at.
func (a *App) findSaved(ctx context.Context, ref string) (*domain.PromptSnapshot, error) {
	id, err := a.resolveSaved(ctx, ref)
	if err != nil {
		return nil, err
	}
	for _, p := range a.Store.SavedPrompts() {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, a.fail(ctx, "finding prompt", fmt.Errorf("prompt %s: %w", ref, repository.ErrNotFound))
}
