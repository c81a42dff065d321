// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package canonical

// RowEncoder serializes one row at a time into the canonical stream
// form: every cell's encoding followed by FieldSeparator, with the
// whole row closed by RecordTerminator. Cells must be appended in
// declared column order — the encoder never reorders them.
//
// The encoder reuses its buffer across rows, so encoding a table costs
// O(longest row), not O(table). Not safe for concurrent use.
type RowEncoder struct {
	buf []byte
}

// Reset clears the encoder for the next row, keeping the buffer.
func (e *RowEncoder) Reset() {
	e.buf = e.buf[:0]
}

// AppendValue encodes one cell and its trailing separator.
func (e *RowEncoder) AppendValue(v Value) error {
	buf, err := AppendValue(e.buf, v)
	if err != nil {
		return err
	}
	e.buf = append(buf, FieldSeparator)
	return nil
}

// Finish terminates the row and returns the encoded bytes. The slice
// is only valid until the next Reset or AppendValue call.
func (e *RowEncoder) Finish() []byte {
	e.buf = append(e.buf, RecordTerminator)
	return e.buf
}

// EncodeRow encodes a full row into the encoder's buffer and returns
// the bytes. Equivalent to Reset, AppendValue for each cell, Finish.
func (e *RowEncoder) EncodeRow(cells []Value) ([]byte, error) {
	e.Reset()
	for _, cell := range cells {
		if err := e.AppendValue(cell); err != nil {
			return nil, err
		}
	}
	return e.Finish(), nil
}
