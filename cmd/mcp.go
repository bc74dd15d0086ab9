package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/shopassist/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing product search, order tracking and support drafting tools for AI agents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		log, err := newLogger(cfg)
		if err != nil {
			return err
		}

		a, err := newApp(context.Background(), cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		// Stdout carries the MCP protocol; everything else goes to stderr.
		fmt.Fprintf(os.Stderr, "shopassist MCP server started on stdio (db=%s)\n", a.db.Path())

		srv := mcpserver.NewServer(a.catalog, a.orders)
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
