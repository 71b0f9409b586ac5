package main

import (
	"os"

	"github.com/sdet-tools/jobhunt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
