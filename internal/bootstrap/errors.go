package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/tosin2013/vault-raft-bootstrap/internal/vault"
)

// Failure reasons reported in BootstrapResult. Stable strings for CI
// consumers; one per domain error type.
const (
	ReasonReadinessTimeout     = "ReadinessTimeout"
	ReasonAlreadyInitialized   = "AlreadyInitialized"
	ReasonMaterialUnavailable  = "MaterialUnavailable"
	ReasonUnsealFailed         = "UnsealFailed"
	ReasonFollowerJoinTimeout  = "FollowerJoinTimeout"
	ReasonVerificationDegraded = "VerificationDegraded"
	ReasonCancelled            = "Cancelled"
	ReasonInternal             = "Internal"
)

// ReadinessTimeoutError indicates a pod did not become ready within its
// attempt bound.
type ReadinessTimeoutError struct {
	Node     string
	Attempts int
	Err      error
}

func (e *ReadinessTimeoutError) Error() string {
	return fmt.Sprintf("node %s not ready after %d attempts: %v", e.Node, e.Attempts, e.Err)
}

func (e *ReadinessTimeoutError) Unwrap() error { return e.Err }

// MaterialUnavailableError indicates unseal material is needed but this
// process never captured it and none was supplied externally.
type MaterialUnavailableError struct {
	Path string
}

func (e *MaterialUnavailableError) Error() string {
	return fmt.Sprintf("unseal material unavailable: not found at %s and no external keys supplied", e.Path)
}

// UnsealFailedError indicates a node remained sealed after the full
// threshold of key shares was presented. Fatal for that node: repeated
// submission of an already-consumed share set indicates a store-side fault,
// and retrying a confirmed-wrong key set may trip lockout behavior.
type UnsealFailedError struct {
	Node     string
	Progress int
}

func (e *UnsealFailedError) Error() string {
	return fmt.Sprintf("node %s still sealed after presenting threshold key shares (progress %d)", e.Node, e.Progress)
}

// FollowerJoinTimeoutError indicates a follower never replicated cluster
// metadata within the join wait bound.
type FollowerJoinTimeoutError struct {
	Node     string
	Attempts int
}

func (e *FollowerJoinTimeoutError) Error() string {
	return fmt.Sprintf("node %s did not join the cluster after %d attempts", e.Node, e.Attempts)
}

// VerificationDegradedError indicates the unsealed cluster does not match
// the expected healthy shape.
type VerificationDegradedError struct {
	Detail string
}

func (e *VerificationDegradedError) Error() string {
	return fmt.Sprintf("cluster verification degraded: %s", e.Detail)
}

// Reason classifies an error into a stable failure reason string.
func Reason(err error) string {
	if err == nil {
		return ""
	}

	var (
		readiness *ReadinessTimeoutError
		material  *MaterialUnavailableError
		unseal    *UnsealFailedError
		join      *FollowerJoinTimeoutError
		degraded  *VerificationDegradedError
	)

	switch {
	case errors.As(err, &readiness):
		return ReasonReadinessTimeout
	case errors.As(err, &material):
		return ReasonMaterialUnavailable
	case errors.As(err, &unseal):
		return ReasonUnsealFailed
	case errors.As(err, &join):
		return ReasonFollowerJoinTimeout
	case errors.As(err, &degraded):
		return ReasonVerificationDegraded
	case errors.Is(err, vault.ErrAlreadyInitialized):
		return ReasonAlreadyInitialized
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCancelled
	default:
		return ReasonInternal
	}
}
