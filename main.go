package main

import (
	"os"

	"github.com/meshfolio/meshfolio/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
