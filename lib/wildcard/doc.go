// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package wildcard implements SQL LIKE-style name matching for scoping
// which tables and schema objects contribute to a database digest.
//
// The matcher operates on raw bytes with ASCII-only case folding, the
// same semantics SQLite applies to LIKE without an ESCAPE clause:
// '%' matches zero or more bytes and '_' matches exactly one byte.
// Non-ASCII bytes are compared verbatim. A pattern containing non-ASCII
// characters can therefore fail to match a name that is equivalent
// under a different encoding or Unicode case folding. That limitation
// is part of the matching contract — callers scoping digests by table
// name must use ASCII patterns for exact behavior.
package wildcard
