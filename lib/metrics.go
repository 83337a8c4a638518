package lib

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	challengesParsed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "l402_challenges_parsed",
		Help: "The total number of WWW-Authenticate headers parsed as L402 challenges",
	})

	challengesRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "l402_challenges_rejected",
		Help: "The total number of WWW-Authenticate headers that were not L402 challenges",
	})

	tokensMinted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "l402_tokens_minted",
		Help: "The total number of credentials minted from paid challenges",
	})

	authorizationsSet = promauto.NewCounter(prometheus.CounterOpts{
		Name: "l402_authorizations_set",
		Help: "The total number of Authorization headers attached to outgoing requests",
	})
)
