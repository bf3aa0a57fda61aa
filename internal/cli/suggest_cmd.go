package cli

import (
	"fmt"

	"github.com/alexanderramin/promptblocks/internal/cli/formatter"
	"github.com/alexanderramin/promptblocks/internal/domain"
	"github.com/spf13/cobra"
)

const maxSuggestions = 5

func newSuggestCmd(app *App) *cobra.Command {
	var (
		count int
		add   bool
	)

	cmd := &cobra.Command{
		Use:   "suggest TYPE",
		Short: "Ask the model for example content for a block type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := app.requireLLM(ctx); err != nil {
				return err
			}
			if count < 1 || count > maxSuggestions {
				return fmt.Errorf("--count must be between 1 and %d", maxSuggestions)
			}
			blockType, _ := domain.ParseBlockType(args[0])

			var suggestions []string
			if count == 1 {
				text, err := app.Suggester.GenerateBlockContent(ctx, blockType)
				if err != nil {
					return app.fail(ctx, "suggesting block content", err)
				}
				suggestions = []string{text}
			} else {
				// Best effort: whatever arrived before a failure is shown.
				suggestions = app.Suggester.GenerateSuggestions(ctx, blockType, count)
			}

			fmt.Fprint(out(cmd), formatter.FormatSuggestions(blockType, suggestions))
			if !add || len(suggestions) == 0 {
				return nil
			}

			var added domain.Block
			err := app.editWorkspace(ctx, func() error {
				added = app.Store.AddBlockWithContent(blockType, suggestions[0])
				return nil
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(out(cmd), formatter.Success("Added "+formatter.BlockTypeBadge(added.Type)+" with the first suggestion"))
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of suggestions")
	cmd.Flags().BoolVar(&add, "add", false, "add the first suggestion to the builder")
	return cmd
}
