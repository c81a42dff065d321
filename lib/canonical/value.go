// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package canonical

import (
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrUnsupportedValue is wrapped by encoding errors for values that
// have no deterministic canonical form. The digest pipeline fails
// closed on these rather than approximating: an approximated encoding
// could make two genuinely different databases hash identically.
var ErrUnsupportedValue = errors.New("value has no canonical form")

// Kind identifies the logical type of a cell value. The set is closed:
// it mirrors the five storage classes a SQLite cell can hold.
type Kind uint8

const (
	KindNull Kind = iota
	KindInteger
	KindReal
	KindText
	KindBlob
)

// String returns the kind name for logs and error messages.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindText:
		return "text"
	case KindBlob:
		return "blob"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is one dynamically-typed cell read from a data source. The
// zero Value is NULL. Values are immutable snapshots; Blob does not
// copy its argument, so callers must not mutate the slice afterwards.
type Value struct {
	kind    Kind
	integer int64
	real    float64
	text    string
	blob    []byte
}

// Null returns the NULL value.
func Null() Value {
	return Value{kind: KindNull}
}

// Integer returns an integer cell value.
func Integer(v int64) Value {
	return Value{kind: KindInteger, integer: v}
}

// Real returns a floating-point cell value.
func Real(v float64) Value {
	return Value{kind: KindReal, real: v}
}

// Text returns a text cell value holding raw UTF-8 bytes.
func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

// Blob returns a binary cell value. The slice is retained, not copied.
func Blob(b []byte) Value {
	return Value{kind: KindBlob, blob: b}
}

// Kind returns the logical type of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Canonical encoding constants. These bytes frame the canonical
// stream: cells are followed by FieldSeparator and records end with
// RecordTerminator. nullByte is the one-byte NULL sentinel and
// blobTag prefixes hex-encoded blob payloads so that a blob can never
// encode to the same bytes as a text value with the same printable
// characters.
const (
	FieldSeparator   byte = 0x1f
	RecordTerminator byte = 0x1e

	nullByte byte = 0x00
	blobTag  byte = 0x01

	// realPrecision is the number of significant decimal digits a
	// real value is formatted with. 15 digits round-trip through the
	// decimal form identically on every platform for the doubles
	// SQLite stores, and trailing zeros are trimmed by the 'g' format.
	realPrecision = 15
)

// AppendValue appends the canonical encoding of v to dst and returns
// the extended slice. NaN and infinite reals have no canonical decimal
// form and return an error wrapping ErrUnsupportedValue.
func AppendValue(dst []byte, v Value) ([]byte, error) {
	switch v.kind {
	case KindNull:
		return append(dst, nullByte), nil
	case KindInteger:
		return strconv.AppendInt(dst, v.integer, 10), nil
	case KindReal:
		if math.IsNaN(v.real) || math.IsInf(v.real, 0) {
			return dst, fmt.Errorf("canonical: real %v: %w", v.real, ErrUnsupportedValue)
		}
		return strconv.AppendFloat(dst, v.real, 'g', realPrecision, 64), nil
	case KindText:
		return append(dst, v.text...), nil
	case KindBlob:
		dst = append(dst, blobTag)
		n := len(dst)
		dst = append(dst, make([]byte, hex.EncodedLen(len(v.blob)))...)
		hex.Encode(dst[n:], v.blob)
		return dst, nil
	default:
		return dst, fmt.Errorf("canonical: kind %v: %w", v.kind, ErrUnsupportedValue)
	}
}

// String returns a human-readable debug form. This is NOT the
// canonical encoding; it is for logs and test failure messages only.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInteger:
		return strconv.FormatInt(v.integer, 10)
	case KindReal:
		return strconv.FormatFloat(v.real, 'g', -1, 64)
	case KindText:
		return strconv.Quote(v.text)
	case KindBlob:
		return fmt.Sprintf("x'%x'", v.blob)
	default:
		return v.kind.String()
	}
}
