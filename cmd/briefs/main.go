package main

import (
	"os"

	"github.com/hisham-alam/AI-Creator-Brief-Writer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
