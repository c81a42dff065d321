// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package sqlitesource implements the dbdigest data-source interface
// over a SQLite database file.
//
// A Source wraps one read-only connection. Catalog enumeration reads
// sqlite_schema in rowid order (the catalog's creation order),
// excluding the reserved sqlite_* objects. Content enumeration covers
// ordinary tables only — virtual tables have no stable storage-level
// content and are skipped, though their catalog rows still contribute
// to schema hashing. Rows are iterated in canonical order: ascending
// rowid for rowid tables, ascending primary-key tuple for WITHOUT
// ROWID tables.
//
// The connection is opened read-only and additionally pinned with
// PRAGMA query_only, so a digest computation can never mutate the
// database under inspection. A Source serves one digest computation at
// a time; open separate Sources for concurrent computations.
package sqlitesource
