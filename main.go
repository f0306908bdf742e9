package main

import (
	"os"

	"github.com/abhisek/fragebogen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
