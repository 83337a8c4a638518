package macaroon

import (
	"encoding/base64"
	"strings"
)

// decodeBase64 decodes s, accepting both the standard and the URL-safe
// alphabet with or without padding. Macaroons show up in both encodings
// in the wild depending on which server minted them.
func decodeBase64(s string) ([]byte, bool) {
	s = strings.ReplaceAll(s, "-", "+")
	s = strings.ReplaceAll(s, "_", "/")

	if n := len(s) % 4; n != 0 {
		s += strings.Repeat("=", 4-n)
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, false
	}

	return raw, true
}
