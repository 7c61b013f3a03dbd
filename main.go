package main

import (
	"os"

	"github.com/edutech/naplan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
