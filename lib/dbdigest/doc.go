// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package dbdigest computes a deterministic 16-byte digest over the
// logical schema and content of a relational database.
//
// Two databases holding equivalent schema and equivalent data produce
// identical digests regardless of physical storage representation —
// page layout, index choice, vacuum state, or insertion history — while
// any logical difference changes the digest. This makes the digest a
// cheap equivalence check for migrations, restores, and replication:
// compare two 16-byte values instead of two database files.
//
// The pipeline enumerates schema objects in catalog creation order and
// table rows in canonical key order, converts every cell to its
// canonical byte form (package canonical), and folds the byte stream
// into a keyed BLAKE3 digest. The fold is deliberately order-sensitive
// and strictly sequential: canonical logical order, not physical order,
// is what makes the digest layout-independent, so there is no
// parallelism across tables or rows within one call. Independent calls
// against independent sources may run concurrently.
//
// The database itself is a collaborator behind the [Source] interface;
// package sqlitesource provides the SQLite implementation.
package dbdigest
