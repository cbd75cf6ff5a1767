package main

import (
	"os"

	"github.com/aferrandini/loxc/cmd"
)

func main() {
	if err := cmd.App().Execute(); err != nil {
		os.Exit(1)
	}
}
