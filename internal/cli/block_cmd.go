package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/promptblocks/internal/cli/formatter"
	"github.com/alexanderramin/promptblocks/internal/domain"
	"github.com/spf13/cobra"
)

func newBlockCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "block",
		Short: "Edit the blocks in the prompt builder",
	}

	cmd.AddCommand(
		newBlockTypesCmd(),
		newBlockListCmd(app),
		newBlockAddCmd(app),
		newBlockSetCmd(app),
		newBlockRemoveCmd(app),
		newBlockMoveCmd(app),
		newBlockSortCmd(app),
		newBlockClearCmd(app),
	)

	return cmd
}

func newBlockTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the known block types in layout order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(out(cmd), formatter.FormatBlockTypes())
			return nil
		},
	}
}

func newBlockListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the builder's blocks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.restoreWorkspace(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatBlockList(app.Store.Blocks()))
			return nil
		},
	}
}

func newBlockAddCmd(app *App) *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "add TYPE",
		Short: "Append a block",
		Long: `Append a block of the given type. Known types are matched loosely
("tone", "creativity-level"); any other label is kept as typed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blockType, known := domain.ParseBlockType(args[0])
			blockType = strings.TrimSpace(blockType)
			if blockType == "" {
				return fmt.Errorf("block type is empty")
			}

			var added domain.Block
			err := app.editWorkspace(cmd.Context(), func() error {
				added = app.Store.AddBlockWithContent(blockType, content)
				return nil
			})
			if err != nil {
				return err
			}

			if !known {
				fmt.Fprintln(out(cmd), formatter.Warning(fmt.Sprintf("%q is not a known block type; it keeps its position in the preview", blockType)))
			}
			fmt.Fprintln(out(cmd), formatter.Success("Added "+formatter.BlockTypeBadge(added.Type)+" "+formatter.Dim(added.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&content, "content", "c", "", "initial block content")
	return cmd
}

func newBlockSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set BLOCK CONTENT...",
		Short: "Replace a block's content",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			content := strings.Join(args[1:], " ")
			var target domain.Block
			err := app.editWorkspace(cmd.Context(), func() error {
				var err error
				target, err = resolveBlock(app.Store.Blocks(), args[0])
				if err != nil {
					return err
				}
				if !app.Store.UpdateBlock(target.ID, content) {
					return fmt.Errorf("block %s not found", target.ID)
				}
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.Success("Updated "+formatter.BlockTypeBadge(target.Type)))
			return nil
		},
	}
}

func newBlockRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm BLOCK",
		Aliases: []string{"remove"},
		Short:   "Remove a block",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var target domain.Block
			err := app.editWorkspace(cmd.Context(), func() error {
				var err error
				target, err = resolveBlock(app.Store.Blocks(), args[0])
				if err != nil {
					return err
				}
				app.Store.RemoveBlock(target.ID)
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.Success("Removed "+formatter.BlockTypeBadge(target.Type)))
			return nil
		},
	}
}

func newBlockMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move BLOCK POSITION",
		Short: "Move a block to a 1-based position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pos, err := strconv.Atoi(args[1])
			if err != nil || pos < 1 {
				return fmt.Errorf("invalid position %q: must be a positive number", args[1])
			}
			err = app.editWorkspace(cmd.Context(), func() error {
				target, err := resolveBlock(app.Store.Blocks(), args[0])
				if err != nil {
					return err
				}
				return app.Store.MoveBlock(target.ID, pos-1)
			})
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatBlockList(app.Store.Blocks()))
			return nil
		},
	}
}

func newBlockSortCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sort",
		Short: "Reorder blocks into the standard layout order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := app.editWorkspace(cmd.Context(), func() error {
				app.Store.ReorderBlocks(domain.SortByOrder(app.Store.Blocks()))
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprint(out(cmd), formatter.FormatBlockList(app.Store.Blocks()))
			return nil
		},
	}
}

func newBlockClearCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every block from the builder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to clear without confirmation: pass --yes")
				}
				if !confirmIO(cmd.InOrStdin(), out(cmd), "Clear all blocks? [y/N]: ", false) {
					fmt.Fprintln(out(cmd), formatter.Dim("Cancelled."))
					return nil
				}
			}
			err := app.editWorkspace(cmd.Context(), func() error {
				app.Store.ClearBuilder()
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.Success("Builder cleared"))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newPreviewCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the composed prompt text",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.restoreWorkspace(cmd.Context()); err != nil {
				return err
			}
			text := domain.ComposePrompt(app.Store.Blocks())
			if raw {
				fmt.Fprintln(out(cmd), text)
				return nil
			}
			fmt.Fprint(out(cmd), formatter.FormatPreview(text))
			return nil
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print plain text for piping")
	return cmd
}
