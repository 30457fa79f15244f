package main

import (
	"os"

	"github.com/saeidalz13/battleship-solo/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
