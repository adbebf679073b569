package main

import (
	"os"

	"github.com/jkingsman/meshcore-hashtag-cracker/cmd/crackhashtag/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
