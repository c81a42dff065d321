// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dbdigest

import (
	"context"

	"github.com/bureau-foundation/dbdigest/lib/canonical"
)

// Source is the data-source collaborator the digest pipeline reads
// from. Implementations expose a read-only view of one database:
// catalog enumeration, table metadata, and ordered row iteration. The
// pipeline never writes and never retries — any read error makes the
// digest undefined and aborts the call.
type Source interface {
	// Snapshot establishes one consistent read view spanning the
	// catalog and every table read until release is called. A digest
	// computed against a source mutated mid-scan is out of contract;
	// sources that can detect mid-scan mutation must surface it as an
	// error from the enumeration methods rather than return
	// inconsistent data.
	Snapshot(ctx context.Context) (release func() error, err error)

	// SchemaObjects calls fn for every catalog object in ascending
	// creation order. Reserved internal objects are excluded before fn
	// sees them. Iteration stops at the first fn error, which is
	// returned.
	SchemaObjects(ctx context.Context, fn func(SchemaObject) error) error

	// Tables returns descriptors for every ordinary content-bearing
	// table, reserved and virtual tables excluded, in no particular
	// order.
	Tables(ctx context.Context) ([]TableDescriptor, error)

	// Rows calls fn for every row of the table in canonical order:
	// ascending implicit row id when the descriptor has no key
	// columns, ascending key-column tuple otherwise. Cells are in
	// declared column order. The cell slice is reused between calls;
	// fn must not retain it. Iteration stops at the first fn error,
	// which is returned.
	Rows(ctx context.Context, table TableDescriptor, fn func([]canonical.Value) error) error
}
