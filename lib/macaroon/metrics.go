package macaroon

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var macaroonsDecoded = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "l402_macaroons_decoded",
	Help: "The total number of macaroons decoded, by wire version",
}, []string{"version"})
