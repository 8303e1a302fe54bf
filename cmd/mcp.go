package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/mdmanual/internal/mcp"
	"github.com/ziadkadry99/mdmanual/internal/markdown"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio that lets AI agents list manual pages, read their sources and see their tables of contents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		mcpserver.Version = Version

		fmt.Fprintf(os.Stderr, "mdmanual MCP server started on stdio (input=%s)\n", cfg.InputDir)

		srv := mcpserver.NewServer(walkerConfig(cfg), markdown.NewConverter(""), enhanceOptions(cfg))
		return srv.Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
