package vault

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tosin2013/vault-raft-bootstrap/internal/k8s"
)

// vault CLI exit codes: 0 success/unsealed, 1 error, 2 sealed (for status)
// or a reported command error.
const (
	exitOK     = 0
	exitError  = 1
	exitSealed = 2
)

// Execer runs a command inside a pod container. Implemented by k8s.Client.
type Execer interface {
	Exec(ctx context.Context, namespace, pod, container string, command []string) (*k8s.ExecResult, error)
}

// ExecClient drives the vault CLI inside each node's own container. The
// admin API is only trusted on loopback before cluster TLS trust exists,
// so all commands target the local listener with certificate verification
// skipped; the node's own certificate is not yet trusted by itself.
type ExecClient struct {
	exec      Execer
	namespace string
	container string
	addr      string
	tls       bool
}

// NewExecClient creates an admin client backed by pod exec.
func NewExecClient(exec Execer, namespace, container, localAddr string, tlsEnabled bool) *ExecClient {
	return &ExecClient{
		exec:      exec,
		namespace: namespace,
		container: container,
		addr:      localAddr,
		tls:       tlsEnabled,
	}
}

// command assembles a vault CLI invocation. The CLI requires flags before
// positional arguments, so shared flags are inserted between the
// subcommand and any positional args.
func (c *ExecClient) command(sub []string, positional ...string) []string {
	cmd := append([]string{"vault"}, sub...)
	cmd = append(cmd, "-format=json", "-address="+c.addr)
	if c.tls {
		cmd = append(cmd, "-tls-skip-verify")
	}
	return append(cmd, positional...)
}

// statusJSON mirrors `vault status -format=json` output.
type statusJSON struct {
	Initialized bool   `json:"initialized"`
	Sealed      bool   `json:"sealed"`
	Threshold   int    `json:"t"`
	Shares      int    `json:"n"`
	Progress    int    `json:"progress"`
	HAEnabled   bool   `json:"ha_enabled"`
	IsSelf      bool   `json:"is_self"`
	LeaderAddr  string `json:"leader_address"`
}

func (s statusJSON) toNodeStatus() NodeStatus {
	return NodeStatus{
		Initialized: s.Initialized,
		Sealed:      s.Sealed,
		Standby:     s.Initialized && !s.Sealed && s.HAEnabled && !s.IsSelf,
		Progress:    s.Progress,
		Threshold:   s.Threshold,
		Shares:      s.Shares,
	}
}

// Status reads the node's seal state. The vault CLI exits 2 when the node
// is sealed, which is a valid answer here, not a failure.
func (c *ExecClient) Status(ctx context.Context, node string) (NodeStatus, error) {
	res, err := c.exec.Exec(ctx, c.namespace, node, c.container, c.command([]string{"status"}))
	if err != nil {
		return NodeStatus{}, fmt.Errorf("status on %s: %w", node, err)
	}
	if res.ExitCode == exitError {
		return NodeStatus{}, fmt.Errorf("status on %s failed: %s", node, string(res.Stderr))
	}

	var sj statusJSON
	if err := json.Unmarshal(res.Stdout, &sj); err != nil {
		return NodeStatus{}, fmt.Errorf("status on %s: unparseable output: %w", node, err)
	}
	return sj.toNodeStatus(), nil
}

// initJSON mirrors `vault operator init -format=json` output.
type initJSON struct {
	UnsealKeysB64   []string `json:"unseal_keys_b64"`
	UnsealThreshold int      `json:"unseal_threshold"`
	RootToken       string   `json:"root_token"`
}

// Initialize performs first-time initialization on the node.
func (c *ExecClient) Initialize(ctx context.Context, node string, shares, threshold int) (*Material, error) {
	cmd := c.command([]string{"operator", "init",
		fmt.Sprintf("-key-shares=%d", shares),
		fmt.Sprintf("-key-threshold=%d", threshold),
	})

	res, err := c.exec.Exec(ctx, c.namespace, node, c.container, cmd)
	if err != nil {
		return nil, fmt.Errorf("initialize on %s: %w", node, err)
	}
	if res.ExitCode != exitOK {
		if isAlreadyInitialized(string(res.Stderr)) {
			return nil, fmt.Errorf("initialize on %s: %w", node, ErrAlreadyInitialized)
		}
		return nil, fmt.Errorf("initialize on %s failed: %s", node, string(res.Stderr))
	}

	var ij initJSON
	if err := json.Unmarshal(res.Stdout, &ij); err != nil {
		return nil, fmt.Errorf("initialize on %s: unparseable output: %w", node, err)
	}

	material := &Material{
		UnsealKeys: ij.UnsealKeysB64,
		Threshold:  ij.UnsealThreshold,
		RootToken:  ij.RootToken,
	}
	if err := material.Validate(); err != nil {
		return nil, fmt.Errorf("initialize on %s returned invalid material: %w", node, err)
	}
	return material, nil
}

// Unseal presents one key share to the node. The resulting status reports
// whether the threshold has been reached.
func (c *ExecClient) Unseal(ctx context.Context, node, key string) (NodeStatus, error) {
	res, err := c.exec.Exec(ctx, c.namespace, node, c.container, c.command([]string{"operator", "unseal"}, key))
	if err != nil {
		return NodeStatus{}, fmt.Errorf("unseal on %s: %w", node, err)
	}
	if res.ExitCode != exitOK {
		return NodeStatus{}, fmt.Errorf("unseal on %s failed: %s", node, string(res.Stderr))
	}

	var sj statusJSON
	if err := json.Unmarshal(res.Stdout, &sj); err != nil {
		return NodeStatus{}, fmt.Errorf("unseal on %s: unparseable output: %w", node, err)
	}
	return sj.toNodeStatus(), nil
}
