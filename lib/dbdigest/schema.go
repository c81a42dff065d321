// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dbdigest

import (
	"context"
	"fmt"

	"github.com/bureau-foundation/dbdigest/lib/canonical"
	"github.com/bureau-foundation/dbdigest/lib/wildcard"
)

// hashSchema streams the schema catalog into the accumulator. Objects
// arrive from the source in ascending creation order and are retained
// when no pattern is active or when their owning table matches it.
//
// Each object contributes one canonical record of three cells: type
// tag, name, definition text. Objects without definition text (such
// as auto-created constraint indexes) contribute the NULL cell in its
// place, so their addition or removal still moves the digest.
func hashSchema(ctx context.Context, source Source, pattern string, acc *accumulator) error {
	var encoder canonical.RowEncoder
	cells := make([]canonical.Value, 3)

	err := source.SchemaObjects(ctx, func(object SchemaObject) error {
		if pattern != "" && !wildcard.Match(object.TableName, pattern) {
			return nil
		}

		cells[0] = canonical.Text(string(object.Type))
		cells[1] = canonical.Text(object.Name)
		if object.HasSQL {
			cells[2] = canonical.Text(object.SQL)
		} else {
			cells[2] = canonical.Null()
		}

		record, err := encoder.EncodeRow(cells)
		if err != nil {
			return fmt.Errorf("object %q: %w", object.Name, err)
		}
		acc.update(record)
		return nil
	})
	if err != nil {
		return fmt.Errorf("dbdigest: schema: %w", err)
	}
	return nil
}
