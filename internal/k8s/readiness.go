package k8s

import (
	"context"
	"errors"
	"fmt"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ErrNotReady is returned when a pod did not become ready within the
// attempt bound.
var ErrNotReady = errors.New("pod not ready")

// ReadinessOptions bounds a readiness wait.
type ReadinessOptions struct {
	// MaxAttempts is the total number of polls before giving up.
	MaxAttempts int

	// Delay is the fixed pause between polls.
	Delay time.Duration

	// NotFoundGrace is the number of initial attempts during which a
	// missing pod is still retryable. StatefulSet pods are created one at
	// a time, so the resource may legitimately not exist yet; after the
	// grace window a missing pod is fatal.
	NotFoundGrace int
}

// WaitForPodReady polls the named pod until its phase is Running, the named
// container reports ready, and an IP is assigned. It returns the pod IP on
// success. The wait is bounded by opts.MaxAttempts and cancellable through
// ctx. Read-only: no cluster state is mutated.
func (c *Client) WaitForPodReady(ctx context.Context, namespace, name, container string, opts ReadinessOptions) (string, error) {
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		pod, err := c.clientset.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
		switch {
		case err == nil:
			if ip := readyPodIP(pod, container); ip != "" {
				return ip, nil
			}
		case apierrors.IsNotFound(err):
			if attempt > opts.NotFoundGrace {
				return "", fmt.Errorf("pod %s/%s not found after grace window: %w", namespace, name, err)
			}
		default:
			return "", fmt.Errorf("failed to get pod %s/%s: %w", namespace, name, err)
		}

		if attempt < opts.MaxAttempts {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
	}

	return "", fmt.Errorf("%w: %s/%s after %d attempts", ErrNotReady, namespace, name, opts.MaxAttempts)
}

// readyPodIP returns the pod IP when the pod is running, the named container
// is ready, and an IP is assigned; otherwise "".
func readyPodIP(pod *corev1.Pod, container string) string {
	if pod.Status.Phase != corev1.PodRunning || pod.Status.PodIP == "" {
		return ""
	}

	for _, cs := range pod.Status.ContainerStatuses {
		if cs.Name == container {
			if cs.Ready {
				return pod.Status.PodIP
			}
			return ""
		}
	}

	return ""
}
