// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/sourcetrace"
	"github.com/poiesic/sourcetrace/consolidate"
	"github.com/poiesic/sourcetrace/core"
	"github.com/poiesic/sourcetrace/evidence"
	"github.com/poiesic/sourcetrace/pipeline"
	"github.com/poiesic/sourcetrace/retrieval"
	"github.com/poiesic/sourcetrace/segment"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "sourcetrace",
		Usage: "Find the sources a document copies, paraphrases or borrows ideas from",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "analyze",
				Usage:  "Search for sources of a document and report per-sentence evidence",
				Action: analyzeCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Document to analyze, plain text or a JSON document",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "YAML configuration file",
					},
					&cli.StringFlag{
						Name:  "mode",
						Usage: "Consolidation mode (topn, priority)",
					},
					&cli.BoolFlag{
						Name:  "allow-binary",
						Usage: "Download and extract PDF and office sources",
					},
					&cli.StringFlag{
						Name:  "cache",
						Usage: "Fetch cache backend (memory, badger)",
					},
					&cli.StringFlag{
						Name:  "cache-path",
						Usage: "BadgerDB directory for the fetch cache",
					},
					&cli.BoolFlag{
						Name:  "offline",
						Usage: "Skip web search and use only --candidates",
					},
					&cli.StringFlag{
						Name:  "candidates",
						Usage: "JSON file of candidate sources used instead of web search",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report block progress on stderr",
						Value: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the JSON result to this file instead of stdout",
					},
				},
			},
			{
				Name:   "segment",
				Usage:  "Print the blocks a document is split into",
				Action: segmentCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Document to segment, plain text or a JSON document",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "YAML configuration file",
					},
				},
			},
			{
				Name:   "fingerprint",
				Usage:  "Print how much of one text is reproduced in another",
				Action: fingerprintCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "original",
						Usage:    "Text checked for reuse",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "source",
						Usage:    "Text that may have been reused",
						Required: true,
					},
				},
			},
		},
	}
}

func analyzeCommand(c *cli.Context) error {
	cfg, err := sourcetrace.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if mode := c.String("mode"); mode != "" {
		m, err := consolidate.ParseMode(mode)
		if err != nil {
			return err
		}
		cfg.Pipeline.Consolidate.Mode = m
	}
	if c.IsSet("allow-binary") {
		cfg.Fetch.AllowBinary = c.Bool("allow-binary")
	}
	if backend := c.String("cache"); backend != "" {
		cfg.Cache.Backend = backend
	}
	if path := c.String("cache-path"); path != "" {
		cfg.Cache.Path = path
	}

	doc, err := readDocument(c.String("input"))
	if err != nil {
		return err
	}

	opts := []sourcetrace.EngineOption{sourcetrace.WithLogger(slog.Default())}
	if c.Bool("offline") || c.String("candidates") != "" {
		var candidates []core.Candidate
		if path := c.String("candidates"); path != "" {
			if candidates, err = readCandidates(path); err != nil {
				return err
			}
		}
		opts = append(opts, sourcetrace.WithProviders(retrieval.NewStaticProvider("static", candidates...)))
	}
	var progress *pipeline.ProgressMonitor
	if c.Bool("progress") {
		progress = pipeline.NewProgressMonitor(c.App.ErrWriter)
		opts = append(opts, sourcetrace.WithMonitor(progress))
	}

	engine, err := sourcetrace.NewEngine(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer engine.Close()

	result, err := engine.Analyze(c.Context, doc)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if progress != nil {
		fmt.Fprintf(c.App.ErrWriter, "Completed %d blocks in %s\n", len(result.Blocks), progress.Elapsed().Round(time.Millisecond))
	}

	out := c.App.Writer
	if path := c.String("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		out = f
	}
	return writeJSON(out, result)
}

func segmentCommand(c *cli.Context) error {
	cfg, err := sourcetrace.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if err := cfg.Pipeline.Segment.Validate(); err != nil {
		return err
	}
	doc, err := readDocument(c.String("input"))
	if err != nil {
		return err
	}
	if err := core.ValidateDocument(&doc); err != nil {
		return err
	}

	blocks := segment.SegmentDocument(doc, cfg.Pipeline.Segment)
	for _, b := range blocks {
		fmt.Fprintf(c.App.Writer, "%s [%s] words %d-%d (%d)\n", b.ID, b.Section, b.StartWord, b.EndWord, b.WordCount)
		fmt.Fprintf(c.App.Writer, "  %s\n", preview(b.Text, 120))
	}
	fmt.Fprintf(c.App.Writer, "%d blocks\n", len(blocks))
	return nil
}

func fingerprintCommand(c *cli.Context) error {
	original, err := os.ReadFile(c.String("original"))
	if err != nil {
		return fmt.Errorf("failed to read original: %w", err)
	}
	source, err := os.ReadFile(c.String("source"))
	if err != nil {
		return fmt.Errorf("failed to read source: %w", err)
	}

	cfg := evidence.DefaultConfig()
	coverage := evidence.NewFingerprintMatcher(cfg.FingerprintK, cfg.FingerprintWindow).
		Coverage(string(original), string(source))
	fmt.Fprintf(c.App.Writer, "coverage: %.2f%%\n", coverage)
	return nil
}

// readDocument loads a JSON document from .json files and plain text otherwise.
func readDocument(path string) (core.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to read input: %w", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var doc core.Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return core.Document{}, fmt.Errorf("failed to parse document %s: %w", path, err)
		}
		return doc, nil
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return core.Document{ID: name, Text: string(data)}, nil
}

func readCandidates(path string) ([]core.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read candidates: %w", err)
	}
	var candidates []core.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, fmt.Errorf("failed to parse candidates %s: %w", path, err)
	}
	return candidates, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func preview(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max]) + "..."
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
