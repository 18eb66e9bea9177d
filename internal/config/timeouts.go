package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout and retry values.
// These values can be customized via environment variables.
type Timeouts struct {
	PodReadyAttempts int           // Max polls for pod readiness
	PodReadyDelay    time.Duration // Delay between readiness polls
	PodNotFoundGrace int           // Attempts during which a missing pod is retryable
	UnsealPause      time.Duration // Settling pause between unseal share submissions
	JoinAttempts     int           // Max polls for a follower's raft join signal
	JoinDelay        time.Duration // Initial delay between join polls (linear backoff)
	AutoUnsealWait   time.Duration // Total wait for KMS-driven unseal per node
	StatusPollDelay  time.Duration // Delay between seal-status polls in auto-unseal mode
	HTTPTimeout      time.Duration // Per-request timeout for direct admin API calls
	VerifyTimeout    time.Duration // Total bound for external endpoint verification
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - VAULTBOOT_POD_READY_ATTEMPTS (default: 30)
//   - VAULTBOOT_POD_READY_DELAY (default: 10s)
//   - VAULTBOOT_POD_NOTFOUND_GRACE (default: 6)
//   - VAULTBOOT_UNSEAL_PAUSE (default: 2s)
//   - VAULTBOOT_JOIN_ATTEMPTS (default: 12)
//   - VAULTBOOT_JOIN_DELAY (default: 5s)
//   - VAULTBOOT_AUTO_UNSEAL_WAIT (default: 5m)
//   - VAULTBOOT_STATUS_POLL_DELAY (default: 5s)
//   - VAULTBOOT_HTTP_TIMEOUT (default: 15s)
//   - VAULTBOOT_VERIFY_TIMEOUT (default: 2m)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		PodReadyAttempts: parseInt("VAULTBOOT_POD_READY_ATTEMPTS", 30),
		PodReadyDelay:    parseDuration("VAULTBOOT_POD_READY_DELAY", 10*time.Second),
		PodNotFoundGrace: parseInt("VAULTBOOT_POD_NOTFOUND_GRACE", 6),
		UnsealPause:      parseDuration("VAULTBOOT_UNSEAL_PAUSE", 2*time.Second),
		JoinAttempts:     parseInt("VAULTBOOT_JOIN_ATTEMPTS", 12),
		JoinDelay:        parseDuration("VAULTBOOT_JOIN_DELAY", 5*time.Second),
		AutoUnsealWait:   parseDuration("VAULTBOOT_AUTO_UNSEAL_WAIT", 5*time.Minute),
		StatusPollDelay:  parseDuration("VAULTBOOT_STATUS_POLL_DELAY", 5*time.Second),
		HTTPTimeout:      parseDuration("VAULTBOOT_HTTP_TIMEOUT", 15*time.Second),
		VerifyTimeout:    parseDuration("VAULTBOOT_VERIFY_TIMEOUT", 2*time.Minute),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
