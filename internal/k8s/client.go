// Package k8s wraps the Kubernetes API operations the bootstrap needs:
// pod readiness polling, command execution inside pod containers, and
// reading the generated TLS trust bundle. All operations are read-only
// with respect to cluster resources.
package k8s

import (
	"fmt"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Client wraps Kubernetes API access for the bootstrap.
type Client struct {
	clientset  kubernetes.Interface
	restConfig *rest.Config
}

// NewClient creates a new Kubernetes client from a kubeconfig file.
// An empty path falls back to the standard kubeconfig resolution
// (KUBECONFIG, then ~/.kube/config) and finally in-cluster config.
func NewClient(kubeconfigPath string) (*Client, error) {
	config, err := buildRESTConfig(kubeconfigPath)
	if err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset: %w", err)
	}

	return &Client{clientset: clientset, restConfig: config}, nil
}

// NewClientWith wires an explicit clientset and rest config. Used by tests
// with the fake clientset.
func NewClientWith(clientset kubernetes.Interface, config *rest.Config) *Client {
	return &Client{clientset: clientset, restConfig: config}
}

func buildRESTConfig(kubeconfigPath string) (*rest.Config, error) {
	if kubeconfigPath != "" {
		config, err := clientcmd.BuildConfigFromFlags("", kubeconfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to build kubeconfig: %w", err)
		}
		return config, nil
	}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	config, err := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules, &clientcmd.ConfigOverrides{}).ClientConfig()
	if err == nil {
		return config, nil
	}

	config, inClusterErr := rest.InClusterConfig()
	if inClusterErr != nil {
		return nil, fmt.Errorf("failed to load kubeconfig (%v) or in-cluster config: %w", err, inClusterErr)
	}
	return config, nil
}
