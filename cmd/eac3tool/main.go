// eac3tool inspects and merges raw AC-3 and E-AC-3 streams.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
