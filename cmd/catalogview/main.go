package main

import (
	"os"

	"github.com/erauner12/catalogview/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
