// Command tzcal formats, parses and inspects instants in IANA time zones.
package main

import (
	"os"

	"github.com/ngrash/go-tzcal/instant"
)

func main() {
	if err := newRootCmd(instant.System).Execute(); err != nil {
		os.Exit(1)
	}
}
