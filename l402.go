// Package l402 contains the shared constants for the L402 (LSAT) HTTP
// authentication protocol toolkit.
package l402

import "time"

// Version is the version of the toolkit, set at build time.
var Version = "devel"

const (
	// SchemeL402 is the authentication scheme token used in Authorization
	// and WWW-Authenticate headers.
	SchemeL402 = "L402"

	// SchemeLSAT is the legacy name of the scheme. Servers predating the
	// L402 rename still emit it and it is accepted everywhere SchemeL402 is.
	SchemeLSAT = "LSAT"

	// HeaderAuthorization is the request header credentials are sent in.
	HeaderAuthorization = "Authorization"

	// HeaderWWWAuthenticate is the response header challenges arrive in.
	HeaderWWWAuthenticate = "WWW-Authenticate"
)

// DefaultTokenLifetime is how long a minted credential is kept in the
// credential store when its macaroon carries no expiration caveat.
const DefaultTokenLifetime = 365 * 24 * time.Hour
