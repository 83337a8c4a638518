package lib

import (
	"strings"
	"time"

	"github.com/TecharoHQ/l402/lib/caveat"
	"github.com/TecharoHQ/l402/lib/macaroon"
)

// Token is a spendable L402 credential: a macaroon paired with the
// preimage proving its invoice was paid. Tokens are immutable once
// minted.
type Token struct {
	// Credential is the "<macaroon>:<preimage>" string sent in the
	// Authorization header.
	Credential string `json:"credential"`

	// MaxBandwidth is the bandwidth ceiling the macaroon's caveats
	// impose, 0 when unconstrained.
	MaxBandwidth int64 `json:"maxBandwidth"`

	// Expiration is when the credential stops being valid. nil means it
	// never expires.
	Expiration *time.Time `json:"expiration,omitempty"`
}

// ParseToken derives a Token from a stored credential string. The
// macaroon is everything up to the first colon; with no colon the whole
// string is the macaroon and there is no preimage. The preimage itself
// is never interpreted here, it belongs to payment verification.
func ParseToken(credential string) Token {
	mac := credential
	if i := strings.IndexByte(credential, ':'); i >= 0 {
		mac = credential[:i]
	}

	caveats := macaroon.Caveats(mac)

	tok := Token{
		Credential:   credential,
		MaxBandwidth: caveat.MaxBandwidth(caveats),
	}

	if exp := caveat.Expiration(caveats); exp != 0 {
		t := time.Unix(exp, 0)
		tok.Expiration = &t
	}

	return tok
}

// NewToken mints the Token for a paid challenge from its payment
// preimage.
func NewToken(ch *Challenge, preimage string) Token {
	tok := Token{
		Credential:   ch.Macaroon + ":" + preimage,
		MaxBandwidth: ch.MaxBandwidth,
	}

	if ch.Expiration != 0 {
		t := time.Unix(ch.Expiration, 0)
		tok.Expiration = &t
	}

	tokensMinted.Inc()

	return tok
}

// Expired reports whether the token's expiration, if it has one, is at
// or before now.
func (t Token) Expired(now time.Time) bool {
	return t.Expiration != nil && !t.Expiration.After(now)
}
