// Package macaroon partially decodes macaroon wire buffers: just enough
// to recover the first-party caveat identifiers a server attached to a
// credential. It understands both the legacy hex-length packet format
// (v1) and the TLV format (v2) and never verifies signatures.
//
// Every function in this package is total. Malformed, truncated, or
// adversarial input yields fewer caveats, never an error or a panic, so
// callers above this layer have no decode failures to handle.
package macaroon

// Caveats base64-decodes a macaroon and returns its first-party caveat
// identifiers in attenuation order. Any decode failure yields nil.
func Caveats(encoded string) []string {
	raw, ok := decodeBase64(encoded)
	if !ok {
		macaroonsDecoded.WithLabelValues("invalid").Inc()
		return nil
	}

	return CaveatsFromBytes(raw)
}

// CaveatsFromBytes is Caveats for an already-decoded wire buffer. The
// leading byte selects the grammar: 0x02 is v2 TLV, anything else is the
// legacy v1 packet format. The buffer is never mutated.
func CaveatsFromBytes(buf []byte) []string {
	if len(buf) < 2 {
		macaroonsDecoded.WithLabelValues("invalid").Inc()
		return nil
	}

	if buf[0] == versionV2 {
		macaroonsDecoded.WithLabelValues("v2").Inc()
		return caveatsV2(buf)
	}

	macaroonsDecoded.WithLabelValues("v1").Inc()
	return caveatsV1(buf)
}
