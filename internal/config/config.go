package config

import "fmt"

// Config is the canonical description of one bootstrap run: which Vault
// deployment to target, how to reach it, and how to unseal it.
type Config struct {
	// Namespace is the Kubernetes namespace the Vault pods run in.
	Namespace string `yaml:"namespace" mapstructure:"namespace"`

	// Release is the base pod name. Pods are addressed as {release}-0..N-1,
	// matching the StatefulSet naming of the Vault Helm chart.
	Release string `yaml:"release" mapstructure:"release"`

	// Replicas is the expected number of Vault nodes. Node 0 is always the
	// designated leader for initialization.
	Replicas int `yaml:"replicas" mapstructure:"replicas"`

	// Container is the name of the Vault container inside each pod.
	Container string `yaml:"container" mapstructure:"container"`

	// AdminPort is the Vault listener port on the pod's loopback interface.
	AdminPort int `yaml:"admin_port" mapstructure:"admin_port"`

	// TLS configures how the admin listener is reached.
	TLS TLSConfig `yaml:"tls" mapstructure:"tls"`

	// AutoUnseal indicates the cluster unseals itself via an external KMS.
	// When set, no unseal material is generated or presented; the bootstrap
	// only waits for every node to report unsealed.
	AutoUnseal bool `yaml:"auto_unseal" mapstructure:"auto_unseal"`

	// ExternalEndpoint is the externally routed Vault URL (route or ingress).
	// Verified for reachability after the cluster is unsealed.
	ExternalEndpoint string `yaml:"external_endpoint" mapstructure:"external_endpoint"`

	// Kubeconfig is the path to the kubeconfig used for pod polling and exec.
	// Empty means in-cluster config or the client default.
	Kubeconfig string `yaml:"kubeconfig" mapstructure:"kubeconfig"`

	// MaterialFile is where the init material (unseal keys, root token) is
	// persisted. The file is written once with restricted permissions and
	// read back on resume.
	MaterialFile string `yaml:"material_file" mapstructure:"material_file"`

	// Init controls key share generation on first initialization.
	Init InitConfig `yaml:"init" mapstructure:"init"`

	// Recovery supplies externally held unseal keys and root token for
	// clusters initialized outside this tool. When present, Initialize is
	// never called and these are used as-is.
	Recovery RecoveryConfig `yaml:"recovery" mapstructure:"recovery"`
}

// TLSConfig describes trust settings for the Vault admin listener.
type TLSConfig struct {
	// Enabled selects https for the admin listener.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// CABundleSecret names a Kubernetes secret holding the CA bundle that
	// signed the Vault serving certificate. Used for external verification.
	CABundleSecret string `yaml:"ca_bundle_secret" mapstructure:"ca_bundle_secret"`

	// CABundleKey is the data key inside CABundleSecret.
	CABundleKey string `yaml:"ca_bundle_key" mapstructure:"ca_bundle_key"`

	// CABundleFile is a local PEM file alternative to CABundleSecret.
	CABundleFile string `yaml:"ca_bundle_file" mapstructure:"ca_bundle_file"`
}

// InitConfig holds Shamir share generation parameters.
type InitConfig struct {
	Shares    int `yaml:"shares" mapstructure:"shares"`
	Threshold int `yaml:"threshold" mapstructure:"threshold"`
}

// RecoveryConfig holds externally supplied unseal material.
type RecoveryConfig struct {
	UnsealKeys []string `yaml:"unseal_keys" mapstructure:"unseal_keys"`
	Threshold  int      `yaml:"threshold" mapstructure:"threshold"`
	RootToken  string   `yaml:"root_token" mapstructure:"root_token"`
}

// Provided reports whether external material was supplied.
func (r RecoveryConfig) Provided() bool {
	return len(r.UnsealKeys) > 0
}

// NodeName returns the pod name for replica index i.
func (c *Config) NodeName(i int) string {
	return fmt.Sprintf("%s-%d", c.Release, i)
}

// NodeNames returns all pod names in index order.
func (c *Config) NodeNames() []string {
	names := make([]string, 0, c.Replicas)
	for i := 0; i < c.Replicas; i++ {
		names = append(names, c.NodeName(i))
	}
	return names
}

// Scheme returns the URL scheme for the admin listener.
func (c *Config) Scheme() string {
	if c.TLS.Enabled {
		return "https"
	}
	return "http"
}

// LocalAddr returns the loopback admin address as seen from inside a node's
// own container. The admin API is only trusted locally before cluster TLS
// trust is established, so init and unseal always go through this address.
func (c *Config) LocalAddr() string {
	return fmt.Sprintf("%s://127.0.0.1:%d", c.Scheme(), c.AdminPort)
}

// Validate checks the configuration and returns a detailed error if it is
// not usable for a bootstrap run.
func (c *Config) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("namespace is required")
	}
	if c.Release == "" {
		return fmt.Errorf("release is required")
	}
	if c.Replicas < 1 {
		return fmt.Errorf("replicas must be at least 1, got %d", c.Replicas)
	}
	if c.AdminPort < 1 || c.AdminPort > 65535 {
		return fmt.Errorf("admin_port must be a valid port, got %d", c.AdminPort)
	}
	if !c.AutoUnseal {
		if c.Init.Shares < 1 {
			return fmt.Errorf("init.shares must be at least 1, got %d", c.Init.Shares)
		}
		if c.Init.Threshold < 1 {
			return fmt.Errorf("init.threshold must be at least 1, got %d", c.Init.Threshold)
		}
		if c.Init.Threshold > c.Init.Shares {
			return fmt.Errorf("init.threshold (%d) cannot exceed init.shares (%d)", c.Init.Threshold, c.Init.Shares)
		}
	}
	if c.Recovery.Provided() {
		if c.Recovery.Threshold < 1 {
			return fmt.Errorf("recovery.threshold must be at least 1 when recovery keys are supplied")
		}
		if c.Recovery.Threshold > len(c.Recovery.UnsealKeys) {
			return fmt.Errorf("recovery.threshold (%d) cannot exceed supplied key count (%d)",
				c.Recovery.Threshold, len(c.Recovery.UnsealKeys))
		}
	}
	return nil
}
