package main

import (
	"flag"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func newLogLevelContext(t *testing.T, level string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", "", "")
	require.NoError(t, set.Set("log-level", level))
	return cli.NewContext(&cli.App{}, set, nil)
}

func TestSetupLogger(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	for _, level := range []string{"debug", "info", "warn", "error", "WARN"} {
		t.Run(level, func(t *testing.T) {
			assert.NoError(t, setupLogger(newLogLevelContext(t, level)))
		})
	}

	t.Run("invalid level", func(t *testing.T) {
		err := setupLogger(newLogLevelContext(t, "verbose"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "verbose")
	})
}

func TestCommandArgumentValidation(t *testing.T) {
	app := &cli.App{
		Name: "docbase",
		Commands: []*cli.Command{
			{Name: "ingest", Action: ingestCommand},
			{Name: "ask", Action: askCommand},
			{Name: "cross-summary", Action: crossSummaryCommand},
			{Name: "page-summary", Action: pageSummaryCommand},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db", Value: "unused"},
			&cli.StringFlag{Name: "owner", Value: "default"},
			&cli.StringFlag{Name: "ai-host"},
			&cli.StringFlag{Name: "embedding-model"},
			&cli.StringFlag{Name: "generator-model"},
		},
	}

	tests := []struct {
		name string
		args []string
	}{
		{"ingest without file", []string{"docbase", "ingest"}},
		{"ask without question", []string{"docbase", "ask"}},
		{"cross-summary without filenames", []string{"docbase", "cross-summary"}},
		{"page-summary without filename", []string{"docbase", "page-summary"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, app.Run(tt.args))
		})
	}
}
