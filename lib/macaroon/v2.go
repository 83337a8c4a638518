package macaroon

type fieldType uint64

// Field type constants as used in the v2 binary encoding.
const (
	fieldEOS            fieldType = 0
	fieldLocation       fieldType = 1
	fieldIdentifier     fieldType = 2
	fieldVerificationID fieldType = 4
	fieldSignature      fieldType = 6
)

// versionV2 is the leading byte of a v2 macaroon.
const versionV2 = 0x02

// caveatsV2 walks a v2 macaroon: the version byte, then a run of sections
// each made of (type varint, length varint, data) fields and closed by a
// fieldEOS. The first section is the macaroon's own header; identifier
// fields in every later section are caveat identifiers. The signature
// field only appears in the trailer, so decoding stops there.
//
// Identifier bytes are mapped to a string as-is, without UTF-8
// validation, because that is what the systems minting these macaroons
// expect round-tripped.
//
// Malformed input is never an error: a truncated varint or a field whose
// declared length overruns the buffer ends the walk, returning the
// caveats collected so far.
func caveatsV2(buf []byte) []string {
	var caveats []string
	inHeader := true

	off := 1
	for off < len(buf) {
		ft, next, ok := uvarint(buf, off)
		if !ok {
			break
		}
		off = next

		switch fieldType(ft) {
		case fieldEOS:
			inHeader = false
			continue
		case fieldSignature:
			return caveats
		}

		length, next, ok := uvarint(buf, off)
		if !ok {
			break
		}
		off = next

		if length > uint64(len(buf)-off) {
			break
		}

		if fieldType(ft) == fieldIdentifier && !inHeader {
			caveats = append(caveats, string(buf[off:off+int(length)]))
		}

		off += int(length)
	}

	return caveats
}

func appendFieldV2(buf []byte, ft fieldType, data []byte) []byte {
	buf = appendUvarint(buf, uint64(ft))
	buf = appendUvarint(buf, uint64(len(data)))
	return append(buf, data...)
}

func appendEOSV2(buf []byte) []byte {
	return append(buf, byte(fieldEOS))
}

// EncodeV2 builds a minimal v2 macaroon wire buffer carrying the given
// caveat identifiers. It exists so callers (and tests) can synthesize
// fixtures; it does not compute a real signature.
func EncodeV2(location, identifier string, caveats []string, signature []byte) []byte {
	buf := []byte{versionV2}

	if location != "" {
		buf = appendFieldV2(buf, fieldLocation, []byte(location))
	}
	buf = appendFieldV2(buf, fieldIdentifier, []byte(identifier))
	buf = appendEOSV2(buf)

	for _, cav := range caveats {
		buf = appendFieldV2(buf, fieldIdentifier, []byte(cav))
		buf = appendEOSV2(buf)
	}

	buf = appendEOSV2(buf)
	buf = appendFieldV2(buf, fieldSignature, signature)

	return buf
}
