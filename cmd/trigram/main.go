package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Source of training text when none is given on the command line.
	Stdin io.Reader

	// History store, opened in Run when enabled.
	History *History
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Stdin: os.Stdin}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.History != nil {
		err := m.History.Close()
		m.History = nil
		return err
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdin:  m.Stdin,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	var helpShown bool
	parser, err := kong.New(cli,
		kong.Name("trigram"),
		kong.Description("Train a trigram language model on text and generate or score with it."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) { helpShown = true }), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'trigram --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	// Subcommand help (e.g. "generate --help") must not run the command, and
	// missing required arguments after help are not an error.
	if helpShown {
		return nil
	}
	if err != nil {
		return err
	}

	// Log to stderr at the default level until the configured logger exists.
	bootLogger := slog.New(slog.NewTextHandler(stderr, nil))
	config, err := LoadConfig(cli.ConfigPath, bootLogger)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cli.LogLevel != "" {
		config.LogLevel = cli.LogLevel
	}
	if cli.HistoryDB != "" {
		config.HistoryEnabled = true
		config.HistoryDatabasePath = cli.HistoryDB
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: parseLogLevel(config.LogLevel)}))
	deps.Logger = logger
	deps.Config = config

	if config.HistoryEnabled {
		if err := m.openHistory(config.HistoryDatabasePath, logger); err != nil {
			logger.Warn("History disabled for this run", "path", config.HistoryDatabasePath, "error", err)
		}
		defer m.Close()
	}
	deps.History = m.History

	return kongCtx.Run(deps)
}

func (m *Main) openHistory(path string, logger *slog.Logger) error {
	db, err := initDB(path)
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	h, err := NewHistory(db, logger)
	if err != nil {
		_ = db.Close()
		return err
	}
	m.History = h
	return nil
}
