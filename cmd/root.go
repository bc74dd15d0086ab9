package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/shopassist/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "shopassist",
	Short: "Guided shopping assistant for a product catalog",
	Long: `Shopassist is a rule-based shopping assistant. It walks shoppers through
product discovery, cart management, order tracking and support requests,
and serves the same conversation over HTTP, WebSocket, the terminal and MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.FileName, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
