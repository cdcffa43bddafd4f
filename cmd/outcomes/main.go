package main

import (
	"os"

	"github.com/edgelab/outcomes/cmd/outcomes/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
