package config

import (
	"testing"
	"time"
)

func TestLoadTimeouts_Defaults(t *testing.T) {
	clearTimeoutEnvVars(t)

	timeouts := LoadTimeouts()

	if timeouts.PodReadyAttempts != 30 {
		t.Errorf("Expected PodReadyAttempts default 30, got %d", timeouts.PodReadyAttempts)
	}
	if timeouts.PodReadyDelay != 10*time.Second {
		t.Errorf("Expected PodReadyDelay default 10s, got %v", timeouts.PodReadyDelay)
	}
	if timeouts.PodNotFoundGrace != 6 {
		t.Errorf("Expected PodNotFoundGrace default 6, got %d", timeouts.PodNotFoundGrace)
	}
	if timeouts.UnsealPause != 2*time.Second {
		t.Errorf("Expected UnsealPause default 2s, got %v", timeouts.UnsealPause)
	}
	if timeouts.JoinAttempts != 12 {
		t.Errorf("Expected JoinAttempts default 12, got %d", timeouts.JoinAttempts)
	}
	if timeouts.JoinDelay != 5*time.Second {
		t.Errorf("Expected JoinDelay default 5s, got %v", timeouts.JoinDelay)
	}
	if timeouts.AutoUnsealWait != 5*time.Minute {
		t.Errorf("Expected AutoUnsealWait default 5m, got %v", timeouts.AutoUnsealWait)
	}
	if timeouts.HTTPTimeout != 15*time.Second {
		t.Errorf("Expected HTTPTimeout default 15s, got %v", timeouts.HTTPTimeout)
	}
	if timeouts.VerifyTimeout != 2*time.Minute {
		t.Errorf("Expected VerifyTimeout default 2m, got %v", timeouts.VerifyTimeout)
	}
}

func TestLoadTimeouts_EnvVars(t *testing.T) {
	clearTimeoutEnvVars(t)

	t.Setenv("VAULTBOOT_POD_READY_ATTEMPTS", "50")
	t.Setenv("VAULTBOOT_POD_READY_DELAY", "3s")
	t.Setenv("VAULTBOOT_UNSEAL_PAUSE", "500ms")
	t.Setenv("VAULTBOOT_JOIN_ATTEMPTS", "20")
	t.Setenv("VAULTBOOT_AUTO_UNSEAL_WAIT", "10m")

	timeouts := LoadTimeouts()

	if timeouts.PodReadyAttempts != 50 {
		t.Errorf("Expected PodReadyAttempts 50, got %d", timeouts.PodReadyAttempts)
	}
	if timeouts.PodReadyDelay != 3*time.Second {
		t.Errorf("Expected PodReadyDelay 3s, got %v", timeouts.PodReadyDelay)
	}
	if timeouts.UnsealPause != 500*time.Millisecond {
		t.Errorf("Expected UnsealPause 500ms, got %v", timeouts.UnsealPause)
	}
	if timeouts.JoinAttempts != 20 {
		t.Errorf("Expected JoinAttempts 20, got %d", timeouts.JoinAttempts)
	}
	if timeouts.AutoUnsealWait != 10*time.Minute {
		t.Errorf("Expected AutoUnsealWait 10m, got %v", timeouts.AutoUnsealWait)
	}
}

func TestLoadTimeouts_InvalidValuesFallBack(t *testing.T) {
	clearTimeoutEnvVars(t)

	t.Setenv("VAULTBOOT_POD_READY_ATTEMPTS", "not-a-number")
	t.Setenv("VAULTBOOT_UNSEAL_PAUSE", "garbage")

	timeouts := LoadTimeouts()

	if timeouts.PodReadyAttempts != 30 {
		t.Errorf("Expected fallback to default 30, got %d", timeouts.PodReadyAttempts)
	}
	if timeouts.UnsealPause != 2*time.Second {
		t.Errorf("Expected fallback to default 2s, got %v", timeouts.UnsealPause)
	}
}

func clearTimeoutEnvVars(t *testing.T) {
	t.Helper()
	vars := []string{
		"VAULTBOOT_POD_READY_ATTEMPTS",
		"VAULTBOOT_POD_READY_DELAY",
		"VAULTBOOT_POD_NOTFOUND_GRACE",
		"VAULTBOOT_UNSEAL_PAUSE",
		"VAULTBOOT_JOIN_ATTEMPTS",
		"VAULTBOOT_JOIN_DELAY",
		"VAULTBOOT_AUTO_UNSEAL_WAIT",
		"VAULTBOOT_STATUS_POLL_DELAY",
		"VAULTBOOT_HTTP_TIMEOUT",
		"VAULTBOOT_VERIFY_TIMEOUT",
	}
	for _, v := range vars {
		t.Setenv(v, "")
	}
}
