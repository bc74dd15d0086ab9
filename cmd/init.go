package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/shopassist/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize shopassist configuration with an interactive wizard",
	Long:  `Runs an interactive wizard and writes the answers to ` + config.FileName + ` (or the file named by --config).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
