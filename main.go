package main

import (
	"os"

	"github.com/zjrosen/stepflow/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
