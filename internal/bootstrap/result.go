package bootstrap

import "time"

// BootstrapResult is the machine-readable outcome of a run. It carries no
// secret material: key shares and root credentials only ever reach the
// material store.
type BootstrapResult struct {
	RunID          string        `json:"run_id"`
	Succeeded      bool          `json:"succeeded"`
	InitializedNow bool          `json:"initialized_now"`
	UnsealedNodes  []string      `json:"unsealed_nodes"`
	Endpoint       string        `json:"endpoint,omitempty"`
	FailureReason  string        `json:"failure_reason,omitempty"`
	FailureDetail  string        `json:"failure_detail,omitempty"`
	Duration       time.Duration `json:"duration"`
}
