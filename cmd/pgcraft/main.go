// Package main provides the pgcraft command line tool.
package main

import (
	"os"

	"github.com/pgcraft/pgcraft/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
