package k8s

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/client-go/kubernetes/scheme"
	"k8s.io/client-go/tools/remotecommand"
	utilexec "k8s.io/client-go/util/exec"
)

// ExecResult carries the outcome of a command run inside a pod container.
type ExecResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// Exec runs a command inside the named container over the exec subresource
// and returns its output and exit code. A non-zero exit code is not an
// error at this layer; callers interpret exit codes themselves (the vault
// CLI uses exit code 2 for "sealed").
func (c *Client) Exec(ctx context.Context, namespace, pod, container string, command []string) (*ExecResult, error) {
	req := c.clientset.CoreV1().RESTClient().
		Post().
		Resource("pods").
		Name(pod).
		Namespace(namespace).
		SubResource("exec").
		VersionedParams(&corev1.PodExecOptions{
			Container: container,
			Command:   command,
			Stdout:    true,
			Stderr:    true,
		}, scheme.ParameterCodec)

	executor, err := remotecommand.NewSPDYExecutor(c.restConfig, "POST", req.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to create exec executor: %w", err)
	}

	var stdout, stderr bytes.Buffer
	streamErr := executor.StreamWithContext(ctx, remotecommand.StreamOptions{
		Stdout: &stdout,
		Stderr: &stderr,
	})

	result := &ExecResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}

	if streamErr != nil {
		var exitErr utilexec.CodeExitError
		if errors.As(streamErr, &exitErr) {
			result.ExitCode = exitErr.Code
			return result, nil
		}
		return nil, fmt.Errorf("exec in %s/%s failed: %w", namespace, pod, streamErr)
	}

	return result, nil
}
