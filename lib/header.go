package lib

import (
	"net/http"
	"time"

	"github.com/TecharoHQ/l402"
)

// HeaderSource is read access to a single named response header. The
// two implementations below cover the response shapes callers actually
// have: a header map, or an accessor method on some framework's
// response object. Pick one explicitly instead of probing at runtime.
type HeaderSource interface {
	// ResponseHeader returns the value of the named header and whether
	// it was present at all.
	ResponseHeader(name string) (string, bool)
}

// HeaderMap adapts an http.Header into a HeaderSource.
type HeaderMap http.Header

func (m HeaderMap) ResponseHeader(name string) (string, bool) {
	values := http.Header(m).Values(name)
	if len(values) == 0 {
		return "", false
	}

	return values[0], true
}

// HeaderFunc adapts a getResponseHeader-style accessor into a
// HeaderSource.
type HeaderFunc func(name string) (string, bool)

func (f HeaderFunc) ResponseHeader(name string) (string, bool) {
	return f(name)
}

// ChallengeFromResponse reads the WWW-Authenticate header through src
// and parses it as an L402 challenge.
func ChallengeFromResponse(src HeaderSource) (*Challenge, bool) {
	value, ok := src.ResponseHeader(l402.HeaderWWWAuthenticate)
	if !ok || value == "" {
		return nil, false
	}

	return ParseChallenge(value)
}

// SetAuthorization writes "Authorization: L402 <credential>" into h,
// but only when the token is present and not expired as of now. It
// reports whether the header was written; an expired token leaves h
// untouched.
func SetAuthorization(h http.Header, tok Token, now time.Time) bool {
	if tok.Credential == "" || tok.Expired(now) {
		return false
	}

	h.Set(l402.HeaderAuthorization, l402.SchemeL402+" "+tok.Credential)
	authorizationsSet.Inc()

	return true
}
