package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/wattwatch/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run an MCP stdio server over the household data",
	Long: `Start a Model Context Protocol stdio server so an assistant can query the
household during a conversation. The server exposes five tools:

  get_summary          Object name, maximum power, total power and device count
  list_devices         All devices in insertion order
  get_load_curve       Load in W for every hour from 2:00 to 24:00
  get_top_devices      The N most powerful devices
  get_recommendations  Rule-based recommendations

Register it with an MCP client, for example:
  {"mcpServers":{"wattwatch":{"command":"wattwatch","args":["mcp"]}}}`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, repo, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = repo.Close() }()

	srv := mcp.NewServer(repo, cfg.Analysis.TopN, appVersion)
	return srv.Run(cmd.Context(), os.Stdin, os.Stdout)
}
