package main

import (
	"os"

	"github.com/darshxm/expense-classifier/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
