// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// dbdigest prints a deterministic 16-byte digest of the logical schema
// and content of SQLite database files.
//
// Usage:
//
//	dbdigest [flags] DATABASE...
//	dbdigest --verify MANIFEST
//
// Each database argument produces one line of output: the 32-character
// hex digest followed by the path. Two databases holding equivalent
// schema and data print the same digest regardless of page size,
// vacuum state, or the order rows were inserted, which makes the
// output directly comparable across migrations, restores, and
// replicas.
//
// In verify mode a YAML manifest lists databases with their expected
// digests; dbdigest recomputes each one and exits nonzero when any
// digest differs.
package main
