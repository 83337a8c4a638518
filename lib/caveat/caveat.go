// Package caveat parses macaroon caveat identifiers of the form
// condition<op>value and reduces a caveat list down to the two
// constraints the toolkit interprets: bandwidth ceiling and expiration.
package caveat

import (
	"strconv"
	"strings"
)

// Condition names with meaning to this toolkit. All other conditions
// parse fine but are ignored.
const (
	ConditionMaxBandwidth = "max_bandwidth"
	ConditionExpiration   = "expiration"
)

// Caveat is one decoded restriction clause.
type Caveat struct {
	Condition  string
	Comparator byte // one of '=', '<', '>'
	Value      string
}

// Parse splits a caveat identifier at the first '=', '<', or '>'.
// Whitespace around the condition and value is trimmed; the comparator
// is kept as-is. Identifiers without a comparator are opaque to this
// toolkit and report ok false.
func Parse(identifier string) (Caveat, bool) {
	i := strings.IndexAny(identifier, "=<>")
	if i < 0 {
		return Caveat{}, false
	}

	return Caveat{
		Condition:  strings.TrimSpace(identifier[:i]),
		Comparator: identifier[i],
		Value:      strings.TrimSpace(identifier[i+1:]),
	}, true
}

// MaxBandwidth reduces caveats to the effective max_bandwidth value, or
// 0 when unconstrained.
func MaxBandwidth(caveats []string) int64 {
	return lastValue(caveats, ConditionMaxBandwidth)
}

// Expiration reduces caveats to the effective expiration timestamp
// (unix seconds), or 0 when the credential never expires.
func Expiration(caveats []string) int64 {
	return lastValue(caveats, ConditionExpiration)
}

// lastValue scans caveats in order for the given condition, keeping the
// last match. Later caveats are restrictions layered on by downstream
// hops, so the most recent one is authoritative regardless of whether it
// is tighter. A non-numeric value coerces to 0 (unconstrained).
func lastValue(caveats []string, condition string) int64 {
	var result int64

	for _, identifier := range caveats {
		cav, ok := Parse(identifier)
		if !ok || cav.Condition != condition {
			continue
		}

		n, err := strconv.ParseInt(cav.Value, 10, 64)
		if err != nil {
			n = 0
		}
		result = n
	}

	return result
}
