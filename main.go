package main

import (
	"os"

	"github.com/tsketch/tsketch-cli/cmd"
	"github.com/tsketch/tsketch-cli/internal/logging"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logging.Error(err.Error())
		os.Exit(1)
	}
}
