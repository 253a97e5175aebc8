package cmd

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/maildesk/maildesk/internal/mcp"
	"github.com/maildesk/maildesk/internal/store"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run MCP server for agent integration",
	Long: `Start an MCP (Model Context Protocol) server over stdio.

This allows Claude Desktop (or any MCP client) to read your mailboxes
using tools like list_mailboxes, list_entries, search_entries, and
read_entry. The tools are read-only; nothing an agent does through MCP
modifies mail.

Add to Claude Desktop config:
  {
    "mcpServers": {
      "maildesk": {
        "command": "maildesk",
        "args": ["mcp"]
      }
    }
  }`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st := store.New(cfg.MailboxDirs())
		return mcpserver.Serve(cmd.Context(), st, Version)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
