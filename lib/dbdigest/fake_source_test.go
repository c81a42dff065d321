// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dbdigest_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bureau-foundation/dbdigest/lib/canonical"
	"github.com/bureau-foundation/dbdigest/lib/dbdigest"
)

// fakeSource is an in-memory Source for exercising pipeline behavior
// the SQLite collaborator cannot easily produce, such as catalog
// objects without definition text and injected read failures.
type fakeSource struct {
	objects []dbdigest.SchemaObject
	tables  []dbdigest.TableDescriptor
	rows    map[string][][]canonical.Value

	schemaErr   error
	tablesErr   error
	rowsErr     error
	snapshotErr error
	releaseErr  error

	snapshots int
	releases  int
}

func (f *fakeSource) Snapshot(ctx context.Context) (func() error, error) {
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	f.snapshots++
	return func() error {
		f.releases++
		return f.releaseErr
	}, nil
}

func (f *fakeSource) SchemaObjects(ctx context.Context, fn func(dbdigest.SchemaObject) error) error {
	if f.schemaErr != nil {
		return f.schemaErr
	}
	for _, object := range f.objects {
		if err := fn(object); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeSource) Tables(ctx context.Context) ([]dbdigest.TableDescriptor, error) {
	if f.tablesErr != nil {
		return nil, f.tablesErr
	}
	return f.tables, nil
}

func (f *fakeSource) Rows(ctx context.Context, table dbdigest.TableDescriptor, fn func([]canonical.Value) error) error {
	if f.rowsErr != nil {
		return f.rowsErr
	}
	for _, row := range f.rows[table.Name] {
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

func fakeCompute(t *testing.T, source *fakeSource, pattern string, selection dbdigest.Selection) dbdigest.Digest {
	t.Helper()
	digest, err := dbdigest.Compute(context.Background(), source, pattern, selection)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return digest
}

func TestDefinitionlessObjectStillContributes(t *testing.T) {
	// An object without definition text must still move the digest:
	// removing it changes the schema stream.
	withAutoIndex := &fakeSource{
		objects: []dbdigest.SchemaObject{
			{Type: dbdigest.ObjectTable, Name: "t", TableName: "t", SQL: "CREATE TABLE t(x UNIQUE)", HasSQL: true, CreationOrder: 1},
			{Type: dbdigest.ObjectIndex, Name: "t_constraint_1", TableName: "t", CreationOrder: 2},
		},
	}
	withoutAutoIndex := &fakeSource{
		objects: withAutoIndex.objects[:1],
	}

	if fakeCompute(t, withAutoIndex, "", dbdigest.SchemaOnly) == fakeCompute(t, withoutAutoIndex, "", dbdigest.SchemaOnly) {
		t.Error("definition-less object did not affect schema digest")
	}
}

func TestDefinitionlessDistinctFromEmptyDefinition(t *testing.T) {
	// NULL definition text and empty definition text are different
	// catalog states.
	null := &fakeSource{
		objects: []dbdigest.SchemaObject{
			{Type: dbdigest.ObjectIndex, Name: "i", TableName: "t", CreationOrder: 1},
		},
	}
	empty := &fakeSource{
		objects: []dbdigest.SchemaObject{
			{Type: dbdigest.ObjectIndex, Name: "i", TableName: "t", SQL: "", HasSQL: true, CreationOrder: 1},
		},
	}
	if fakeCompute(t, null, "", dbdigest.SchemaOnly) == fakeCompute(t, empty, "", dbdigest.SchemaOnly) {
		t.Error("NULL and empty definitions hash identically")
	}
}

func TestSchemaPhasePrecedesContentPhase(t *testing.T) {
	// The full digest is the digest of schema stream followed by
	// content stream. Swapping which half carries the data must
	// change the result — a trivial check that both phases feed one
	// ordered stream rather than being combined commutatively.
	source := &fakeSource{
		objects: []dbdigest.SchemaObject{
			{Type: dbdigest.ObjectTable, Name: "t", TableName: "t", SQL: "CREATE TABLE t(x)", HasSQL: true, CreationOrder: 1},
		},
		tables: []dbdigest.TableDescriptor{
			{Name: "t", Columns: []dbdigest.Column{{Name: "x"}}},
		},
		rows: map[string][][]canonical.Value{
			"t": {{canonical.Integer(1)}},
		},
	}

	full := fakeCompute(t, source, "", dbdigest.SchemaAndContent)
	schemaOnly := fakeCompute(t, source, "", dbdigest.SchemaOnly)
	contentOnly := fakeCompute(t, source, "", dbdigest.ContentOnly)

	if full == schemaOnly || full == contentOnly {
		t.Error("full digest equals a single-phase digest")
	}
	if source.snapshots != 3 || source.releases != 3 {
		t.Errorf("snapshots/releases = %d/%d, want 3/3", source.snapshots, source.releases)
	}
}

func TestContentTablesSortedByName(t *testing.T) {
	// Descriptor order from the source must not matter.
	tables := []dbdigest.TableDescriptor{
		{Name: "b", Columns: []dbdigest.Column{{Name: "x"}}},
		{Name: "a", Columns: []dbdigest.Column{{Name: "x"}}},
	}
	rows := map[string][][]canonical.Value{
		"a": {{canonical.Integer(1)}},
		"b": {{canonical.Integer(2)}},
	}
	forward := &fakeSource{tables: tables, rows: rows}
	reversed := &fakeSource{tables: []dbdigest.TableDescriptor{tables[1], tables[0]}, rows: rows}

	if fakeCompute(t, forward, "", dbdigest.ContentOnly) != fakeCompute(t, reversed, "", dbdigest.ContentOnly) {
		t.Error("descriptor enumeration order affected content digest")
	}
}

func TestComputeErrorPropagation(t *testing.T) {
	readFailure := errors.New("disk read failed")

	tests := []struct {
		name      string
		source    *fakeSource
		selection dbdigest.Selection
	}{
		{"snapshot", &fakeSource{snapshotErr: readFailure}, dbdigest.SchemaAndContent},
		{"schema", &fakeSource{schemaErr: readFailure}, dbdigest.SchemaOnly},
		{"tables", &fakeSource{tablesErr: readFailure}, dbdigest.ContentOnly},
		{
			"rows",
			&fakeSource{
				tables:  []dbdigest.TableDescriptor{{Name: "t", Columns: []dbdigest.Column{{Name: "x"}}}},
				rowsErr: readFailure,
			},
			dbdigest.ContentOnly,
		},
		{"release", &fakeSource{releaseErr: readFailure}, dbdigest.SchemaOnly},
	}

	for _, test := range tests {
		digest, err := dbdigest.Compute(context.Background(), test.source, "", test.selection)
		if !errors.Is(err, readFailure) {
			t.Errorf("%s: err = %v, want wrapped read failure", test.name, err)
		}
		if digest != (dbdigest.Digest{}) {
			t.Errorf("%s: partial digest %s returned on error", test.name, digest)
		}
	}
}
