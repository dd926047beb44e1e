package main

import (
	"os"

	"github.com/inkpress/inkpress/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
