package main

import (
	"os"

	"github.com/stateless-solutions/stateless-go/cmd/stateless/commands"
)

func main() {
	if err := commands.RootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}
