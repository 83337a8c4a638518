// Package lib implements the client side of the L402 (LSAT) HTTP
// authentication protocol: parsing WWW-Authenticate challenges,
// deriving constraints from credential macaroons, and attaching
// Authorization headers to outgoing requests.
package lib

import (
	"regexp"
	"strings"

	"github.com/TecharoHQ/l402/lib/caveat"
	"github.com/TecharoHQ/l402/lib/macaroon"
)

var (
	schemeRegexp   = regexp.MustCompile(`^\s*(?i:l402|lsat)\s+`)
	keyValueRegexp = regexp.MustCompile(`(\w+)="([^"]*)"`)
)

// Challenge is one parsed WWW-Authenticate challenge. It only lives for
// the duration of handling a single 402 response: pairing it with a
// payment preimage produces the durable Token.
type Challenge struct {
	// Macaroon is the base64 macaroon exactly as the server sent it.
	Macaroon string `json:"macaroon"`

	// Invoice is the payment request the server wants settled.
	Invoice string `json:"invoice"`

	// MaxBandwidth is the bandwidth ceiling caveat value, 0 when the
	// macaroon carries none.
	MaxBandwidth int64 `json:"maxBandwidth"`

	// Expiration is the expiration caveat value in unix seconds, 0 when
	// the macaroon carries none.
	Expiration int64 `json:"expiration"`
}

// ParseChallenge parses the raw text of a WWW-Authenticate header. An
// optional leading L402 or LSAT scheme token is stripped, then every
// key="value" pair is collected regardless of order or separator, with
// the last occurrence of a key winning. Both a macaroon and an invoice
// are required; anything else reports ok false, meaning the header is
// not an L402 challenge.
func ParseChallenge(header string) (*Challenge, bool) {
	rest := schemeRegexp.ReplaceAllString(header, "")

	fields := map[string]string{}
	for _, kv := range keyValueRegexp.FindAllStringSubmatch(rest, -1) {
		fields[strings.ToLower(kv[1])] = kv[2]
	}

	mac, hasMacaroon := fields["macaroon"]
	invoice, hasInvoice := fields["invoice"]
	if !hasMacaroon || !hasInvoice {
		challengesRejected.Inc()
		return nil, false
	}

	caveats := macaroon.Caveats(mac)
	challengesParsed.Inc()

	return &Challenge{
		Macaroon:     mac,
		Invoice:      invoice,
		MaxBandwidth: caveat.MaxBandwidth(caveats),
		Expiration:   caveat.Expiration(caveats),
	}, true
}
