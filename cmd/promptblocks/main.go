package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/promptblocks/internal/cli"
	"github.com/alexanderramin/promptblocks/internal/config"
	"github.com/alexanderramin/promptblocks/internal/db"
	"github.com/alexanderramin/promptblocks/internal/llm"
	"github.com/alexanderramin/promptblocks/internal/repository"
	"github.com/alexanderramin/promptblocks/internal/service"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	var database *sql.DB
	defer func() {
		if database != nil {
			database.Close()
		}
	}()

	app := &cli.App{}

	// Detect interactive terminal for forms, spinners and confirmations.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	app.Bootstrap = func(cmd *cobra.Command) error {
		v := config.New()
		if err := config.BindFlags(v, cmd.Root().PersistentFlags()); err != nil {
			return err
		}
		configFile, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(v, configFile)
		if err != nil {
			return err
		}

		logger := cfg.NewLogger(os.Stderr)
		slog.SetDefault(logger)
		app.Logger = logger

		database, err = db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}

		// Wire repositories and unit of work
		prompts, err := repository.NewCachedPromptRepo(repository.NewSQLitePromptRepo(database), cfg.CacheSize)
		if err != nil {
			return err
		}
		uow := db.NewSQLiteUnitOfWork(database)

		// Wire services
		observer := service.NewLogUseCaseObserver(logger)
		retry := service.RetryPolicy{
			MaxAttempts:     cfg.RetryAttempts,
			InitialInterval: cfg.RetryInitial,
			MaxInterval:     cfg.RetryMax,
		}
		gateway := service.NewPersistenceGateway(prompts, uow, retry, observer)
		app.Store = service.NewPromptStore(gateway, logger)
		app.Store.SetUser(cfg.User)
		app.Workspace = service.NewWorkspaceService(uow, observer)

		// Wire the LLM client (only when an API key is configured)
		client, err := llm.NewGeminiClient(cfg.LLM, llm.NewLogObserver(logger, cfg.LLM.LogCalls))
		if err != nil {
			logger.Debug("ai features disabled", "reason", err)
			return nil
		}
		app.LLM = client
		app.Suggester = llm.NewSuggester(client, cfg.LLM.SuggestInterval)
		return nil
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
