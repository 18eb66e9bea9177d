package commands

import (
	"github.com/spf13/cobra"

	"github.com/tosin2013/vault-raft-bootstrap/cmd/vaultboot/handlers"
)

// Verify returns the command that checks cluster shape without changing
// anything.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: vaultboot.yaml)
//	--json: Output in JSON format
func Verify() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify cluster health without modifying it",
		Long: `Check that the cluster matches the expected healthy shape.

Verification passes when every node is initialized and unsealed, exactly
one node is active, the rest are in standby, and the external endpoint
(when configured) answers the health endpoint. No state is modified.

Exits non-zero when the cluster is degraded, making this suitable as a
CI gate after deployment.

Examples:
  # Verify the cluster
  vaultboot verify

  # Machine-readable verification result
  vaultboot verify --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Verify(cmd.Context(), configPath, jsonOutput)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: vaultboot.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}
