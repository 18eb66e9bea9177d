package commands

import (
	"github.com/spf13/cobra"

	"github.com/tosin2013/vault-raft-bootstrap/cmd/vaultboot/handlers"
)

// Bootstrap returns the command that drives a cluster from freshly
// deployed to initialized, unsealed, and verified.
//
// The bootstrap sequence:
//  1. Waits for the designated leader pod (node 0) to become ready
//  2. Initializes the cluster exactly once and persists the unseal
//     material before anything else happens
//  3. Unseals the leader, then each follower in order as it joins
//  4. Verifies cluster shape: one active node, followers in standby
//
// Rerunning against a healthy cluster is a no-op that exits 0. With
// auto-unseal mode the tool generates no key material and only waits for
// each node to report unsealed.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: vaultboot.yaml)
//	--json: Emit the bootstrap result as JSON
//
// Environment variables:
//
//	VAULTBOOT_*: Timeout overrides (e.g. VAULTBOOT_POD_READY_ATTEMPTS)
func Bootstrap() *cobra.Command {
	var (
		configPath string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "bootstrap",
		Short: "Initialize, unseal, and verify the cluster",
		Long: `Drive a Raft-backed Vault cluster from freshly deployed to ready.

The sequence is idempotent: every decision is made from fresh node
status, so rerunning against a healthy cluster touches nothing and exits
successfully. A run interrupted after initialization resumes from the
persisted unseal material without re-initializing.

Unseal material (key shares and the root token) is written to a local
file with owner-only permissions and never appears in command output.

Examples:
  # Bootstrap using vaultboot.yaml in the current directory
  vaultboot bootstrap

  # Bootstrap a specific deployment
  vaultboot bootstrap -c production.yaml

  # Machine-readable result for CI
  vaultboot bootstrap --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := handlers.BootstrapOptions{
				ConfigPath: configPath,
				JSONOutput: jsonOutput,
			}
			return handlers.Bootstrap(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: vaultboot.yaml)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result in JSON format")

	return cmd
}
