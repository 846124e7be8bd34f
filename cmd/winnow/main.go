package main

import (
	"os"

	"github.com/mpeters/winnow/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
