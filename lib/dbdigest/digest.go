// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dbdigest

import (
	"context"
	"fmt"
)

// Compute returns the digest of the database behind source. The
// pattern scopes which tables contribute: content of non-matching
// tables is skipped entirely, and schema objects are retained only
// when their owning table matches. An empty pattern includes
// everything. The selection chooses which of schema and content feed
// the digest; when both do, the schema stream precedes the content
// stream.
//
// The whole computation runs inside one consistent read view of the
// source. Any failure — a source read error, a value without a
// canonical form, a mid-scan mutation the source detects — aborts the
// call with a zero Digest and an error; no partial digest is ever
// produced.
func Compute(ctx context.Context, source Source, pattern string, selection Selection) (Digest, error) {
	release, err := source.Snapshot(ctx)
	if err != nil {
		return Digest{}, fmt.Errorf("dbdigest: snapshot: %w", err)
	}

	acc := newAccumulator()

	if selection.IncludesSchema() {
		if err := hashSchema(ctx, source, pattern, acc); err != nil {
			_ = release() // the phase error wins
			return Digest{}, err
		}
	}

	if selection.IncludesContent() {
		if err := hashContent(ctx, source, pattern, acc); err != nil {
			_ = release() // the phase error wins
			return Digest{}, err
		}
	}

	if err := release(); err != nil {
		return Digest{}, fmt.Errorf("dbdigest: releasing snapshot: %w", err)
	}

	return acc.sum16(), nil
}
