package main

import (
	"os"

	"github.com/RobotTraders/CryptoStrategyLab/cmd/cryptolab/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
