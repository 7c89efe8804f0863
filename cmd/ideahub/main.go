package main

import (
	"fmt"
	"os"

	"github.com/ideahub/api/cmd/ideahub/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
