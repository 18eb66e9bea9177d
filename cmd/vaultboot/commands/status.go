package commands

import (
	"github.com/spf13/cobra"

	"github.com/tosin2013/vault-raft-bootstrap/cmd/vaultboot/handlers"
)

// Status returns the command for displaying per-node seal state.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: vaultboot.yaml)
//	--json: Output in JSON format
func Status() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show per-node seal state",
		Long: `Display the current state of every node in the cluster.

Shows, for each node:
  - Initialization state
  - Seal state and unseal progress
  - Role (active or standby)

Examples:
  # Show node status
  vaultboot status

  # Status in JSON format
  vaultboot status --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Status(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: vaultboot.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
