package handlers

import (
	"context"
	"fmt"
)

// NodeState represents one node's seal state for output.
type NodeState struct {
	Node        string `json:"node"`
	Reachable   bool   `json:"reachable"`
	Initialized bool   `json:"initialized"`
	Sealed      bool   `json:"sealed"`
	Standby     bool   `json:"standby"`
	Progress    int    `json:"progress,omitempty"`
	Threshold   int    `json:"threshold,omitempty"`
	Error       string `json:"error,omitempty"`
}

// ClusterState represents the whole cluster for JSON output.
type ClusterState struct {
	Release string      `json:"release"`
	Nodes   []NodeState `json:"nodes"`
}

// Status handles the status command.
//
// This function reads fresh seal state from every node and displays it.
// Unreachable nodes are reported, not fatal: status is informational and
// a sealed or half-deployed cluster is a legitimate thing to inspect.
func Status(ctx context.Context, configPath string, jsonOutput bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	client, err := newK8sClient(cfg.Kubeconfig)
	if err != nil {
		return fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	admin := newAdminClient(client, cfg)

	state := ClusterState{Release: cfg.Release}
	for _, node := range cfg.NodeNames() {
		ns := NodeState{Node: node}

		status, err := admin.Status(ctx, node)
		if err != nil {
			ns.Error = err.Error()
		} else {
			ns.Reachable = true
			ns.Initialized = status.Initialized
			ns.Sealed = status.Sealed
			ns.Standby = status.Standby
			ns.Progress = status.Progress
			ns.Threshold = status.Threshold
		}
		state.Nodes = append(state.Nodes, ns)
	}

	if jsonOutput {
		return printJSON(state)
	}
	printClusterState(&state)
	return nil
}
