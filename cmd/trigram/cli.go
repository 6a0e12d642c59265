package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/CTAG07/trigram/pkg/trigram"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Logger  *slog.Logger
	Config  *Config
	History *History
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	ConfigPath string `name:"config" default:"./trigram.json" help:"Path to the JSON config file"`
	LogLevel   string `name:"log-level" help:"Override the configured log level (debug, info, warn, error)"`
	HistoryDB  string `name:"history-db" help:"Record runs in this SQLite database, overriding the config"`

	Generate GenerateCmd `cmd:"" help:"Train on text and generate a continuation"`
	Score    ScoreCmd    `cmd:"" help:"Train on text and score a sample against it"`
	Stats    StatsCmd    `cmd:"" help:"Train on text and print model statistics"`
	History  HistoryCmd  `cmd:"" help:"List recorded generation runs"`
}

// GenerateCmd is the "generate" subcommand.
type GenerateCmd struct {
	Text      string   `arg:"" optional:"" help:"Training text; read from stdin when omitted"`
	MaxLength int      `short:"n" help:"Number of tokens to generate (default from config)"`
	Seed      uint64   `short:"s" help:"Seed for the random start pair; 0 draws a random seed"`
	From      []string `help:"Start from this comma-separated pair instead of a random one"`
}

// Run trains a model and prints one generated sequence.
func (c *GenerateCmd) Run(deps *Dependencies) error {
	model, err := deps.trainModel(c.Text)
	if err != nil {
		return err
	}

	maxLength := c.MaxLength
	if maxLength <= 0 {
		maxLength = deps.Config.MaxLength
	}
	// A concrete seed is always drawn so every recorded run can be replayed.
	seed := c.Seed
	for seed == 0 {
		seed = rand.Uint64()
	}
	opts := []trigram.GenerateOption{
		trigram.WithMaxLength(maxLength),
		trigram.WithRand(rand.New(rand.NewPCG(seed, seed))),
	}

	var output string
	switch len(c.From) {
	case 0:
		output = model.Generate(opts...)
	case 2:
		// Training text is lowercased, so the start pair must be too.
		output = model.GenerateFrom(strings.ToLower(c.From[0]), strings.ToLower(c.From[1]), opts...)
	default:
		return fmt.Errorf("--from needs exactly two tokens, got %d", len(c.From))
	}

	if _, err = fmt.Fprintln(deps.Stdout, output); err != nil {
		return err
	}

	if deps.History != nil {
		run, err := deps.History.Record(deps.Ctx, seed, maxLength, model.Stats(), output)
		if err != nil {
			return fmt.Errorf("failed to record run: %w", err)
		}
		deps.Logger.Info("Run recorded", "run_id", run.ID, "seed", run.Seed)
	}
	return nil
}

// ScoreCmd is the "score" subcommand.
type ScoreCmd struct {
	Train  string `arg:"" help:"Training text"`
	Sample string `arg:"" help:"Text to score"`
}

// Run trains on the training text and prints the sample's score.
func (c *ScoreCmd) Run(deps *Dependencies) error {
	model, err := deps.trainModel(c.Train)
	if err != nil {
		return err
	}
	score := model.Score(c.Sample)
	_, err = fmt.Fprintf(deps.Stdout, "log_prob: %.6f\ntrigrams: %d\nperplexity: %.4f\n",
		score.LogProb, score.Trigrams, score.Perplexity())
	return err
}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct {
	Text string `arg:"" optional:"" help:"Training text; read from stdin when omitted"`
}

// Run trains on the text and prints the model's stats snapshot.
func (c *StatsCmd) Run(deps *Dependencies) error {
	model, err := deps.trainModel(c.Text)
	if err != nil {
		return err
	}
	s := model.Stats()
	_, err = fmt.Fprintf(deps.Stdout, "vocab_size: %d\ntotal_tokens: %d\nunique_bigrams: %d\nunique_trigrams: %d\n",
		s.VocabSize, s.TotalTokens, s.UniqueBigrams, s.UniqueTrigrams)
	return err
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Limit int `short:"l" default:"10" help:"Maximum number of runs to list"`
}

// Run lists the most recent generation runs.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if deps.History == nil {
		return errors.New("history is disabled; set history_enabled in the config or pass --history-db")
	}
	runs, err := deps.History.Recent(deps.Ctx, c.Limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, err = fmt.Fprintln(deps.Stdout, "No runs recorded")
		return err
	}
	for _, run := range runs {
		if _, err = fmt.Fprintf(deps.Stdout, "%s\t%s\tseed=%d\tvocab=%d\t%s\n",
			run.ID, run.CreatedAt.Format("2006-01-02 15:04:05"), run.Seed, run.VocabSize, run.Output); err != nil {
			return err
		}
	}
	return nil
}

// trainModel builds a model from text, falling back to stdin when text is blank.
func (d *Dependencies) trainModel(text string) (*trigram.Model, error) {
	if strings.TrimSpace(text) == "" && d.Stdin != nil {
		data, err := io.ReadAll(d.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read training text from stdin: %w", err)
		}
		text = string(data)
	}

	model := trigram.NewModel()
	model.SetLogger(d.Logger)
	model.Fit(text)

	d.Logger.Debug("Model trained", "vocab_size", model.VocabSize(), "total_tokens", model.TotalTokens())
	return model, nil
}
