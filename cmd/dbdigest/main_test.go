// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/bureau-foundation/dbdigest/lib/dbdigest"
)

func createDatabase(t *testing.T, dir string, statements ...string) string {
	t.Helper()
	path := filepath.Join(dir, "test.db")
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite|sqlite.OpenCreate)
	if err != nil {
		t.Fatalf("OpenConn: %v", err)
	}
	defer conn.Close()
	for _, statement := range statements {
		if err := sqlitex.ExecuteTransient(conn, statement, nil); err != nil {
			t.Fatalf("executing %q: %v", statement, err)
		}
	}
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestResolveSelection(t *testing.T) {
	tests := []struct {
		schemaOnly    bool
		withoutSchema bool
		want          dbdigest.Selection
		wantErr       bool
	}{
		{false, false, dbdigest.SchemaAndContent, false},
		{true, false, dbdigest.SchemaOnly, false},
		{false, true, dbdigest.ContentOnly, false},
		{true, true, 0, true},
	}
	for _, test := range tests {
		got, err := resolveSelection(test.schemaOnly, test.withoutSchema)
		if test.wantErr {
			if err == nil {
				t.Error("resolveSelection(true, true) should fail")
			}
			continue
		}
		if err != nil {
			t.Fatalf("resolveSelection(%v, %v): %v", test.schemaOnly, test.withoutSchema, err)
		}
		if got != test.want {
			t.Errorf("resolveSelection(%v, %v) = %v, want %v", test.schemaOnly, test.withoutSchema, got, test.want)
		}
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	content := `databases:
  - path: prod.db
    digest: 00112233445566778899aabbccddeeff
  - path: /abs/other.db
    digest: ffeeddccbbaa99887766554433221100
    like: "emp%"
    selection: content-only
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	manifest, err := loadManifest(path)
	if err != nil {
		t.Fatalf("loadManifest: %v", err)
	}
	if len(manifest.Databases) != 2 {
		t.Fatalf("got %d entries, want 2", len(manifest.Databases))
	}
	if manifest.Databases[1].Like != "emp%" {
		t.Errorf("Like = %q, want emp%%", manifest.Databases[1].Like)
	}
	selection, err := entrySelection(manifest.Databases[1])
	if err != nil {
		t.Fatalf("entrySelection: %v", err)
	}
	if selection != dbdigest.ContentOnly {
		t.Errorf("selection = %v, want content-only", selection)
	}
	if selection, _ := entrySelection(manifest.Databases[0]); selection != dbdigest.SchemaAndContent {
		t.Errorf("default selection = %v, want full", selection)
	}
}

func TestLoadManifestRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", `databases: []`},
		{"no path", "databases:\n  - digest: 00112233445566778899aabbccddeeff\n"},
		{"bad digest", "databases:\n  - path: a.db\n    digest: nothex\n"},
		{"bad selection", "databases:\n  - path: a.db\n    digest: 00112233445566778899aabbccddeeff\n    selection: everything\n"},
		{"not yaml", `{{{{`},
	}
	for _, test := range tests {
		path := filepath.Join(t.TempDir(), "manifest.yaml")
		if err := os.WriteFile(path, []byte(test.content), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		if _, err := loadManifest(path); err == nil {
			t.Errorf("%s: loadManifest succeeded, want error", test.name)
		}
	}
}

func TestRunVerify(t *testing.T) {
	dir := t.TempDir()
	createDatabase(t, dir,
		`CREATE TABLE t(a INTEGER)`,
		`INSERT INTO t VALUES (1)`,
	)

	digest, err := digestDatabase(context.Background(), filepath.Join(dir, "test.db"), "", dbdigest.SchemaAndContent, discardLogger())
	if err != nil {
		t.Fatalf("digestDatabase: %v", err)
	}

	// Database path is relative to the manifest's directory.
	manifestPath := filepath.Join(dir, "manifest.yaml")
	content := "databases:\n  - path: test.db\n    digest: " + digest.String() + "\n"
	if err := os.WriteFile(manifestPath, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if code := runVerify(context.Background(), manifestPath, discardLogger()); code != 0 {
		t.Errorf("runVerify = %d, want 0", code)
	}

	// Flip one digest byte: verification must fail with exit code 1.
	tampered := digest
	tampered[0] ^= 0xff
	content = "databases:\n  - path: test.db\n    digest: " + tampered.String() + "\n"
	if err := os.WriteFile(manifestPath, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if code := runVerify(context.Background(), manifestPath, discardLogger()); code != 1 {
		t.Errorf("runVerify after tamper = %d, want 1", code)
	}

	// A missing database is an operational error, not a mismatch.
	content = "databases:\n  - path: missing.db\n    digest: " + digest.String() + "\n"
	if err := os.WriteFile(manifestPath, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if code := runVerify(context.Background(), manifestPath, discardLogger()); code != 2 {
		t.Errorf("runVerify with missing database = %d, want 2", code)
	}
}

func TestDigestDatabaseMatchesAcrossCopies(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	statements := []string{
		`CREATE TABLE t(a INTEGER, b TEXT)`,
		`INSERT INTO t VALUES (1, 'x')`,
	}
	pathA := createDatabase(t, dirA, statements...)
	pathB := createDatabase(t, dirB, statements...)

	digestA, err := digestDatabase(context.Background(), pathA, "", dbdigest.SchemaAndContent, discardLogger())
	if err != nil {
		t.Fatalf("digestDatabase(A): %v", err)
	}
	digestB, err := digestDatabase(context.Background(), pathB, "", dbdigest.SchemaAndContent, discardLogger())
	if err != nil {
		t.Fatalf("digestDatabase(B): %v", err)
	}
	if digestA != digestB {
		t.Errorf("equivalent databases digest differently: %s != %s", digestA, digestB)
	}
}
