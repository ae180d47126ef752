package domain

import "github.com/jonboulle/clockwork"

// clock stamps ProcessedAt on enriched contacts.
var clock clockwork.Clock = clockwork.NewRealClock()

// SetClock replaces the enrichment clock; genmock, validate and tests freeze
// it for reproducible fixtures. Nil restores the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		c = clockwork.NewRealClock()
	}
	clock = c
}
