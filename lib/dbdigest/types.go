// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dbdigest

import (
	"encoding/hex"
	"fmt"
)

// ObjectType classifies a schema catalog object.
type ObjectType string

const (
	ObjectTable   ObjectType = "table"
	ObjectIndex   ObjectType = "index"
	ObjectView    ObjectType = "view"
	ObjectTrigger ObjectType = "trigger"
)

// SchemaObject is one row of the schema catalog: a table, index, view,
// or trigger definition.
type SchemaObject struct {
	// Type is the object class as recorded in the catalog.
	Type ObjectType

	// Name is the object's own name.
	Name string

	// TableName is the table the object belongs to. For tables this is
	// the table itself; for indexes and triggers it is the indexed or
	// triggered table. Pattern scoping filters on this field.
	TableName string

	// SQL is the definition text. Some catalog rows (notably
	// auto-created indexes backing UNIQUE and PRIMARY KEY constraints)
	// have none; HasSQL distinguishes an absent definition from an
	// empty one.
	SQL    string
	HasSQL bool

	// CreationOrder is the strictly increasing catalog insertion
	// sequence. Schema hashing processes objects in this order.
	CreationOrder int64
}

// Column is one declared table column.
type Column struct {
	Name         string
	DeclaredType string
}

// TableDescriptor describes a content-bearing table: its name, its
// columns in declared order, and how its rows are canonically ordered.
type TableDescriptor struct {
	Name string

	// Columns in declared order. Row cells align 1:1 with this list
	// and are never re-sorted.
	Columns []Column

	// KeyColumns names the explicit key columns, in key seniority
	// order, for tables whose rows are ordered by key tuple. Empty
	// means rows are ordered by an implicit sequential row id.
	KeyColumns []string
}

// Selection chooses which of schema and content contribute to a
// digest.
type Selection uint8

const (
	// SchemaAndContent hashes both the schema and the table content.
	SchemaAndContent Selection = iota
	// SchemaOnly hashes only the schema catalog.
	SchemaOnly
	// ContentOnly hashes only the table content.
	ContentOnly
)

// IncludesSchema reports whether the selection covers the schema.
func (s Selection) IncludesSchema() bool {
	return s == SchemaAndContent || s == SchemaOnly
}

// IncludesContent reports whether the selection covers table content.
func (s Selection) IncludesContent() bool {
	return s == SchemaAndContent || s == ContentOnly
}

// String returns the selection's canonical spelling.
func (s Selection) String() string {
	switch s {
	case SchemaAndContent:
		return "full"
	case SchemaOnly:
		return "schema-only"
	case ContentOnly:
		return "content-only"
	default:
		return fmt.Sprintf("selection(%d)", uint8(s))
	}
}

// ParseSelection parses the canonical spelling produced by
// Selection.String. Used by the CLI and verification manifests.
func ParseSelection(s string) (Selection, error) {
	switch s {
	case "full":
		return SchemaAndContent, nil
	case "schema-only":
		return SchemaOnly, nil
	case "content-only":
		return ContentOnly, nil
	default:
		return 0, fmt.Errorf("dbdigest: unknown selection %q (want full, schema-only, or content-only)", s)
	}
}

// Digest is the fixed-size digest over a database's canonical stream.
type Digest [16]byte

// String returns the 32-character lowercase hex form. This is the
// canonical format for CLI output and verification manifests.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest parses the 32-character hex form back into a Digest.
func ParseDigest(s string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return digest, fmt.Errorf("dbdigest: parsing digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("dbdigest: digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}
