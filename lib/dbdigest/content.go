// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dbdigest

import (
	"context"
	"fmt"
	"sort"

	"github.com/bureau-foundation/dbdigest/lib/canonical"
	"github.com/bureau-foundation/dbdigest/lib/wildcard"
)

// tableTag opens each table's boundary marker in the content stream.
// The marker makes an existing-but-empty table hash differently from
// an absent one.
const tableTag = 'T'

// hashContent streams table content into the accumulator. Tables are
// processed in ascending bytewise order by name — independent of
// catalog creation order, so content equivalence depends only on table
// identity and values, not on the sequence tables were created in.
//
// Rows are read, canonicalized, and folded strictly one at a time:
// memory is bounded by the largest row, not the largest table.
func hashContent(ctx context.Context, source Source, pattern string, acc *accumulator) error {
	tables, err := source.Tables(ctx)
	if err != nil {
		return fmt.Errorf("dbdigest: content: %w", err)
	}

	retained := tables[:0]
	for _, table := range tables {
		if pattern == "" || wildcard.Match(table.Name, pattern) {
			retained = append(retained, table)
		}
	}
	sort.Slice(retained, func(i, j int) bool {
		return retained[i].Name < retained[j].Name
	})

	var encoder canonical.RowEncoder
	for _, table := range retained {
		acc.updateByte(tableTag)
		acc.updateByte(canonical.FieldSeparator)
		acc.updateString(table.Name)
		acc.updateByte(canonical.RecordTerminator)

		err := source.Rows(ctx, table, func(cells []canonical.Value) error {
			row, err := encoder.EncodeRow(cells)
			if err != nil {
				return err
			}
			acc.update(row)
			return nil
		})
		if err != nil {
			return fmt.Errorf("dbdigest: content of %q: %w", table.Name, err)
		}
	}
	return nil
}
