package gocrest

import (
	"github.com/rs/zerolog"
)

// logger is disabled until the embedding program installs one.
var logger = zerolog.Nop()

// SetLogger installs the logger used by the solver. Records are tagged with
// module=gocrest.
func SetLogger(l zerolog.Logger) {
	logger = l.With().Str("module", "gocrest").Logger()
}
