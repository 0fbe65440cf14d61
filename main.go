package main

import (
	"os"

	"github.com/kompos-io/kompos/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
