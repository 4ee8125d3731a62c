// Package main is the entry point for the offboardctl CLI
package main

import (
	"os"

	"github.com/matthewdavidson09/offboardctl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}
