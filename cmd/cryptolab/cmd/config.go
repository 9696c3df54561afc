package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/RobotTraders/CryptoStrategyLab/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage backtest configuration files",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	RunE:  runConfigInit,
}

var configInitOut string

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().StringVarP(&configInitOut, "out", "o", "config.yaml", "output path (.yaml, .yml or .json)")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOut); err != nil {
		return err
	}
	fmt.Printf("Default config written to %s\n", configInitOut)
	return nil
}
