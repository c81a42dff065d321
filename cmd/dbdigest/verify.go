// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bureau-foundation/dbdigest/lib/dbdigest"
)

// Manifest is the verification input: a list of databases with their
// expected digests. Relative database paths are resolved against the
// manifest file's directory, so a manifest checked into a repository
// works from any working directory.
type Manifest struct {
	Databases []ManifestEntry `yaml:"databases"`
}

// ManifestEntry is one database to verify.
type ManifestEntry struct {
	// Path to the database file, absolute or manifest-relative.
	Path string `yaml:"path"`

	// Digest is the expected 32-character hex digest.
	Digest string `yaml:"digest"`

	// Like optionally scopes the digest to matching tables.
	Like string `yaml:"like,omitempty"`

	// Selection is "full" (default), "schema-only", or "content-only".
	Selection string `yaml:"selection,omitempty"`
}

// loadManifest parses and validates a manifest file.
func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	if len(manifest.Databases) == 0 {
		return nil, fmt.Errorf("manifest %s lists no databases", path)
	}
	for i, entry := range manifest.Databases {
		if entry.Path == "" {
			return nil, fmt.Errorf("manifest %s: entry %d has no path", path, i)
		}
		if _, err := dbdigest.ParseDigest(entry.Digest); err != nil {
			return nil, fmt.Errorf("manifest %s: entry %s: %w", path, entry.Path, err)
		}
		if _, err := entrySelection(entry); err != nil {
			return nil, fmt.Errorf("manifest %s: entry %s: %w", path, entry.Path, err)
		}
	}
	return &manifest, nil
}

// entrySelection resolves an entry's selection, defaulting to full.
func entrySelection(entry ManifestEntry) (dbdigest.Selection, error) {
	if entry.Selection == "" {
		return dbdigest.SchemaAndContent, nil
	}
	return dbdigest.ParseSelection(entry.Selection)
}

// runVerify recomputes every manifest entry and compares against the
// expected digests. Returns 0 when all match, 1 on any mismatch, 2 on
// operational errors.
func runVerify(ctx context.Context, manifestPath string, logger *slog.Logger) int {
	manifest, err := loadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	baseDir := filepath.Dir(manifestPath)
	mismatches := 0

	for _, entry := range manifest.Databases {
		expected, err := dbdigest.ParseDigest(entry.Digest)
		if err != nil {
			// Validated by loadManifest; kept for safety.
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}
		selection, err := entrySelection(entry)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}

		databasePath := entry.Path
		if !filepath.IsAbs(databasePath) {
			databasePath = filepath.Join(baseDir, databasePath)
		}

		actual, err := digestDatabase(ctx, databasePath, entry.Like, selection, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			return 2
		}

		if actual == expected {
			fmt.Printf("ok       %s\n", entry.Path)
		} else {
			fmt.Printf("MISMATCH %s: computed %s, manifest has %s\n", entry.Path, actual, expected)
			mismatches++
		}
	}

	if mismatches > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d databases did not match\n", mismatches, len(manifest.Databases))
		return 1
	}
	return 0
}
