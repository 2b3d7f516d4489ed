package main

import (
	"os"

	"github.com/teranos/vcq/cmd/vcq/commands"
	"github.com/teranos/vcq/logger"
)

func main() {
	err := commands.NewRootCmd().Execute()
	logger.Cleanup()
	os.Exit(commands.HandleError(os.Stderr, err))
}
