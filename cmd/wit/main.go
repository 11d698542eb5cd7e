// Command wit is a small local version control system.
package main

import (
	"os"

	"github.com/kilupskalvis/wit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
