// Package main provides the regdash CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/regdash/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
