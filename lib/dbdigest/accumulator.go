// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package dbdigest

import (
	"github.com/zeebo/blake3"
)

// streamDomainKey is the fixed 32-byte key for the digest's keyed
// BLAKE3 construction. Keying domain-separates database digests from
// every other BLAKE3 use of the same byte streams. The value is the
// ASCII domain name zero-padded to 32 bytes, readable in hex dumps;
// changing it invalidates every previously computed digest.
var streamDomainKey = [32]byte{
	'd', 'b', 'd', 'i', 'g', 'e', 's', 't', '.',
	's', 't', 'r', 'e', 'a', 'm', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// accumulator is the incremental digest over the canonical byte
// stream: keyed BLAKE3 finalized through its XOF to 16 bytes. The
// construction is fixed — digest stability across platforms and
// releases is the entire contract. One accumulator is owned by exactly
// one Compute call.
type accumulator struct {
	hasher *blake3.Hasher
}

func newAccumulator() *accumulator {
	hasher, err := blake3.NewKeyed(streamDomainKey[:])
	if err != nil {
		// The key is a compile-time constant of the correct length;
		// this cannot fail for reasons a caller could handle.
		panic("dbdigest: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return &accumulator{hasher: hasher}
}

// update folds p into the digest. BLAKE3 writes cannot fail.
func (a *accumulator) update(p []byte) {
	a.hasher.Write(p)
}

// updateString folds s into the digest without copying to a []byte.
func (a *accumulator) updateString(s string) {
	a.hasher.WriteString(s)
}

// updateByte folds a single framing byte into the digest.
func (a *accumulator) updateByte(b byte) {
	a.hasher.Write([]byte{b})
}

// sum16 finalizes the digest, reading the first 16 bytes of the
// BLAKE3 extendable output.
func (a *accumulator) sum16() Digest {
	var digest Digest
	a.hasher.Digest().Read(digest[:])
	return digest
}
