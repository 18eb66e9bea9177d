// Package main is the entry point for the vaultboot CLI.
//
// vaultboot drives a Raft-backed Vault cluster on Kubernetes or OpenShift
// from freshly deployed to initialized, unsealed, and verified. It is
// built to run unattended in CI pipelines: every decision is made from
// fresh node status, reruns are no-ops on healthy clusters, and results
// are reported with stable machine-readable failure reasons.
//
// Commands: bootstrap, status, verify.
//
// For detailed usage information, run:
//
//	vaultboot --help
package main

import (
	"fmt"
	"os"

	"github.com/tosin2013/vault-raft-bootstrap/cmd/vaultboot/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
