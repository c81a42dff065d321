// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/dbdigest/lib/dbdigest"
	"github.com/bureau-foundation/dbdigest/lib/sqlitesource"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		schemaOnly    bool
		withoutSchema bool
		like          string
		verifyPath    string
		logLevel      string
	)

	flagSet := pflag.NewFlagSet("dbdigest", pflag.ContinueOnError)
	flagSet.BoolVar(&schemaOnly, "schema-only", false, "hash only the schema, not table content")
	flagSet.BoolVar(&withoutSchema, "without-schema", false, "hash only table content, not the schema")
	flagSet.StringVar(&like, "like", "", "only hash tables whose name matches this LIKE pattern")
	flagSet.StringVar(&verifyPath, "verify", "", "verify databases against the digests in this YAML manifest")
	flagSet.StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return 0
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return 0
	}

	selection, err := resolveSelection(schemaOnly, withoutSchema)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	logger, err := newLogger(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	ctx := context.Background()

	if verifyPath != "" {
		if flagSet.NArg() > 0 {
			fmt.Fprintf(os.Stderr, "error: --verify takes no database arguments (the manifest lists them)\n")
			return 2
		}
		return runVerify(ctx, verifyPath, logger)
	}

	if flagSet.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "error: no database files given\n")
		printHelp(flagSet)
		return 2
	}

	for _, path := range flagSet.Args() {
		digest, err := digestDatabase(ctx, path, like, selection, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}
		fmt.Printf("%s %s\n", digest, path)
	}
	return 0
}

// digestDatabase opens one database read-only, computes its digest,
// and closes it.
func digestDatabase(ctx context.Context, path, pattern string, selection dbdigest.Selection, logger *slog.Logger) (dbdigest.Digest, error) {
	source, err := sqlitesource.Open(sqlitesource.Config{
		Path:   path,
		Logger: logger,
	})
	if err != nil {
		return dbdigest.Digest{}, err
	}
	defer source.Close()

	return dbdigest.Compute(ctx, source, pattern, selection)
}

// resolveSelection maps the two exclusion flags onto a Selection.
func resolveSelection(schemaOnly, withoutSchema bool) (dbdigest.Selection, error) {
	switch {
	case schemaOnly && withoutSchema:
		return 0, fmt.Errorf("--schema-only and --without-schema are mutually exclusive")
	case schemaOnly:
		return dbdigest.SchemaOnly, nil
	case withoutSchema:
		return dbdigest.ContentOnly, nil
	default:
		return dbdigest.SchemaAndContent, nil
	}
}

// newLogger builds a stderr text logger at the requested level.
func newLogger(level string) (*slog.Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slogLevel})), nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `dbdigest — deterministic digest of SQLite schema and content.

Prints one line per database: the 32-character hex digest followed by
the path. Equivalent logical content always produces the same digest,
independent of physical storage layout.

Usage:
  dbdigest [flags] DATABASE...
  dbdigest --verify MANIFEST

Flags:
%s
Examples:
  dbdigest prod.db restored.db
  dbdigest --schema-only --like 'emp%%' prod.db
  dbdigest --verify expected.yaml
`, flagSet.FlagUsages())
}
