// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package canonical converts dynamically-typed database cell values
// into their canonical byte form, the storage-independent encoding
// that database digests are computed over.
//
// Every logical value maps to exactly one byte sequence regardless of
// how the storage engine represents it on disk: integers become
// minimal decimal text, reals become fixed-precision decimal text
// under one deterministic rounding rule, text contributes its raw
// UTF-8 bytes, blobs are tagged and hex-encoded, and NULL is a single
// sentinel byte. Two databases holding equivalent values therefore
// feed identical byte streams to the digest no matter their page
// layout, encoding order, or vacuum state.
//
// The encodings, the cell separator, and the record terminator are a
// fixed contract. Changing any of them changes every digest ever
// computed, so they must never vary between builds or platforms.
package canonical
