// Copyright 2026 Archiva Systems
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
	"fmt"
	"log"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/archiva-systems/docbase"
	"github.com/archiva-systems/docbase/ai"
	"github.com/archiva-systems/docbase/core"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "docbase",
		Usage: "Document knowledge base with retrieval-augmented answering",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the database directory",
				Value:   "docbase-data",
			},
			&cli.StringFlag{
				Name:    "owner",
				Aliases: []string{"u"},
				Usage:   "Owner identity for all operations",
				Value:   "default",
			},
			&cli.StringFlag{
				Name:  "ai-host",
				Usage: "OpenAI-compatible service host URL",
				Value: "http://localhost:11434/v1",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model name",
			},
			&cli.StringFlag{
				Name:  "generator-model",
				Usage: "Generation model name",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest a file into the knowledge base",
				ArgsUsage: "<file>",
				Action:    ingestCommand,
			},
			{
				Name:   "list",
				Usage:  "List the owner's documents",
				Action: listCommand,
			},
			{
				Name:      "ask",
				Usage:     "Ask a question over the owner's documents",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "scope",
						Usage: "Restrict retrieval to one document filename",
					},
				},
			},
			{
				Name:      "cross-summary",
				Usage:     "Synthesize a report across several documents",
				ArgsUsage: "<filename>...",
				Action:    crossSummaryCommand,
			},
			{
				Name:      "page-summary",
				Usage:     "Summarize a document page by page",
				ArgsUsage: "<filename>",
				Action:    pageSummaryCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setupLogger(c *cli.Context) error {
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

func openBase(c *cli.Context) (*docbase.Base, error) {
	var configOpts []ai.ConfigOption
	if host := c.String("ai-host"); host != "" {
		configOpts = append(configOpts, ai.WithHost(host))
	}
	if model := c.String("embedding-model"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("generator-model"); model != "" {
		configOpts = append(configOpts, ai.WithGeneratorModel(model))
	}

	base, err := docbase.New(c.String("db"), docbase.WithAIConfig(ai.NewConfig(configOpts...)))
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}
	return base, nil
}

func owner(c *cli.Context) core.OwnerID {
	return core.OwnerID(c.String("owner"))
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one file argument")
	}
	path := c.Args().First()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	mediaType := mime.TypeByExtension(filepath.Ext(path))
	if mediaType == "" {
		mediaType = "text/plain"
	}

	base, err := openBase(c)
	if err != nil {
		return err
	}
	defer base.Close()

	category, err := base.Ingest(context.Background(), owner(c), filepath.Base(path), data, mediaType)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Ingested %s (category: %s)\n", filepath.Base(path), category)
	return nil
}

func listCommand(c *cli.Context) error {
	base, err := openBase(c)
	if err != nil {
		return err
	}
	defer base.Close()

	docs, err := base.ListDocuments(context.Background(), owner(c))
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Println("No documents.")
		return nil
	}

	for _, doc := range docs {
		summary := "(not summarized)"
		if doc.Summary.Valid {
			summary = doc.Summary.Text
		}
		fmt.Printf("%-30s %-10s %s\n", doc.Filename, doc.Category, summary)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one question argument")
	}

	base, err := openBase(c)
	if err != nil {
		return err
	}
	defer base.Close()

	answer, err := base.Search(context.Background(), owner(c), c.Args().First(), c.String("scope"))
	if err != nil {
		return err
	}

	fmt.Println(answer.Text)
	if answer.Citation.Filename != "" {
		fmt.Printf("\nSource: %s, page %d\n", answer.Citation.Filename, answer.Citation.Page)
	}
	if answer.Stale {
		fmt.Println("(cached answer: the generation service is currently rate limited)")
	}
	return nil
}

func crossSummaryCommand(c *cli.Context) error {
	if c.NArg() < 1 {
		return fmt.Errorf("expected at least one filename argument")
	}

	base, err := openBase(c)
	if err != nil {
		return err
	}
	defer base.Close()

	report, err := base.CrossSummary(context.Background(), owner(c), c.Args().Slice())
	if err != nil {
		return err
	}

	fmt.Println(report)
	return nil
}

func pageSummaryCommand(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one filename argument")
	}

	base, err := openBase(c)
	if err != nil {
		return err
	}
	defer base.Close()

	summaries, err := base.PageSummary(context.Background(), owner(c), c.Args().First())
	if err != nil {
		return err
	}

	for _, ps := range summaries {
		fmt.Printf("Page %d: %s\n", ps.Page, ps.Summary)
	}
	return nil
}
