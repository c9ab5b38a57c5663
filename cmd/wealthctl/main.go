// Command wealthctl runs the risk scoring and allocation engine against a
// planning session described in a YAML or JSON file and prints the results
// as JSON.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
