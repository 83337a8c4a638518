package macaroon

import "bytes"

// The v1 binary encoding is a run of "packets". Each packet starts with
// four ascii hex digits holding the entire packet length (including the
// digits themselves), then a field name, an ascii space, and the value
// terminated by a newline. Only "cid" packets carry first-party caveat
// identifiers.

// minPacketV1 is the smallest well-formed packet: the 4 byte length
// prefix, a field name, a space, and a trailing newline.
const minPacketV1 = 9

// caveatsV1 walks a v1 macaroon and collects the values of its cid
// packets. A packet with an invalid length prefix, one that would
// overrun the buffer, or one without a field name ends the walk,
// returning the caveats collected so far.
func caveatsV1(buf []byte) []string {
	var caveats []string

	off := 0
	for off+4 <= len(buf) {
		plen, ok := parseSizeV1(buf[off : off+4])
		if !ok || plen < minPacketV1 || off+plen > len(buf) {
			break
		}

		body := buf[off+4 : off+plen]
		i := bytes.IndexByte(body, ' ')
		if i <= 0 {
			break
		}

		if string(body[:i]) == "cid" {
			value := body[i+1:]
			if len(value) > 0 && value[len(value)-1] == '\n' {
				value = value[:len(value)-1]
			}
			caveats = append(caveats, string(value))
		}

		off += plen
	}

	return caveats
}

var hexDigits = []byte("0123456789abcdef")

func appendSizeV1(buf []byte, size int) []byte {
	return append(buf,
		hexDigits[size>>12],
		hexDigits[(size>>8)&0xf],
		hexDigits[(size>>4)&0xf],
		hexDigits[size&0xf],
	)
}

func parseSizeV1(buf []byte) (int, bool) {
	d0, ok0 := asciiHex(buf[0])
	d1, ok1 := asciiHex(buf[1])
	d2, ok2 := asciiHex(buf[2])
	d3, ok3 := asciiHex(buf[3])
	return d0<<12 + d1<<8 + d2<<4 + d3, ok0 && ok1 && ok2 && ok3
}

func asciiHex(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b) - '0', true
	case b >= 'a' && b <= 'f':
		return int(b) - 'a' + 0xa, true
	case b >= 'A' && b <= 'F':
		return int(b) - 'A' + 0xa, true
	}
	return 0, false
}

func appendPacketV1(buf []byte, field string, value []byte) []byte {
	buf = appendSizeV1(buf, 4+len(field)+1+len(value)+1)
	buf = append(buf, field...)
	buf = append(buf, ' ')
	buf = append(buf, value...)
	return append(buf, '\n')
}

// EncodeV1 builds a minimal v1 macaroon wire buffer carrying the given
// caveat identifiers. Like EncodeV2 it exists to synthesize fixtures and
// does not compute a real signature.
func EncodeV1(location, identifier string, caveats []string, signature []byte) []byte {
	var buf []byte

	if location != "" {
		buf = appendPacketV1(buf, "location", []byte(location))
	}
	buf = appendPacketV1(buf, "identifier", []byte(identifier))

	for _, cav := range caveats {
		buf = appendPacketV1(buf, "cid", []byte(cav))
	}

	buf = appendPacketV1(buf, "signature", signature)

	return buf
}
