package macaroon

import "encoding/binary"

// uvarint decodes the unsigned LEB128 varint starting at buf[off] and
// returns its value along with the offset just past its last byte. When
// the varint is truncated by the end of the buffer (or overflows 64
// bits), ok is false and the returned offset is len(buf) so that callers
// treat it as end of data.
func uvarint(buf []byte, off int) (val uint64, next int, ok bool) {
	val, n := binary.Uvarint(buf[off:])
	if n <= 0 {
		return 0, len(buf), false
	}

	return val, off + n, true
}

func appendUvarint(buf []byte, x uint64) []byte {
	return binary.AppendUvarint(buf, x)
}
