// Package main provides the rollup CLI.
package main

import (
	"os"

	"github.com/zoobzio/rollup/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
