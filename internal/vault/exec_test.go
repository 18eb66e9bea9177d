package vault

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tosin2013/vault-raft-bootstrap/internal/k8s"
)

type mockExecer struct {
	mock.Mock
}

func (m *mockExecer) Exec(ctx context.Context, namespace, pod, container string, command []string) (*k8s.ExecResult, error) {
	args := m.Called(ctx, namespace, pod, container, command)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*k8s.ExecResult), args.Error(1)
}

func newExecClient(execer Execer) *ExecClient {
	return NewExecClient(execer, "vault", "vault", "https://127.0.0.1:8200", true)
}

const sealedStatusJSON = `{"type":"shamir","initialized":true,"sealed":true,"t":3,"n":5,"progress":1,"version":"1.15.2"}`
const unsealedLeaderJSON = `{"type":"shamir","initialized":true,"sealed":false,"t":3,"n":5,"progress":0,"ha_enabled":true,"is_self":true,"leader_address":"https://vault-0:8200"}`
const unsealedStandbyJSON = `{"type":"shamir","initialized":true,"sealed":false,"t":3,"n":5,"progress":0,"ha_enabled":true,"is_self":false,"leader_address":"https://vault-0:8200"}`

func TestExecStatus_Sealed(t *testing.T) {
	execer := &mockExecer{}
	execer.On("Exec", mock.Anything, "vault", "vault-0", "vault",
		[]string{"vault", "status", "-format=json", "-address=https://127.0.0.1:8200", "-tls-skip-verify"}).
		Return(&k8s.ExecResult{Stdout: []byte(sealedStatusJSON), ExitCode: 2}, nil)

	status, err := newExecClient(execer).Status(context.Background(), "vault-0")
	require.NoError(t, err)
	assert.True(t, status.Initialized)
	assert.True(t, status.Sealed)
	assert.Equal(t, 1, status.Progress)
	assert.Equal(t, 3, status.Threshold)
	assert.Equal(t, 5, status.Shares)
	execer.AssertExpectations(t)
}

func TestExecStatus_LeaderAndStandby(t *testing.T) {
	execer := &mockExecer{}
	execer.On("Exec", mock.Anything, "vault", "vault-0", "vault", mock.Anything).
		Return(&k8s.ExecResult{Stdout: []byte(unsealedLeaderJSON)}, nil)
	execer.On("Exec", mock.Anything, "vault", "vault-1", "vault", mock.Anything).
		Return(&k8s.ExecResult{Stdout: []byte(unsealedStandbyJSON)}, nil)

	client := newExecClient(execer)

	leader, err := client.Status(context.Background(), "vault-0")
	require.NoError(t, err)
	assert.False(t, leader.Standby)

	standby, err := client.Status(context.Background(), "vault-1")
	require.NoError(t, err)
	assert.True(t, standby.Standby)
}

func TestExecStatus_CLIError(t *testing.T) {
	execer := &mockExecer{}
	execer.On("Exec", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&k8s.ExecResult{Stderr: []byte("connection refused"), ExitCode: 1}, nil)

	_, err := newExecClient(execer).Status(context.Background(), "vault-0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestExecStatus_NoTLSFlagWhenDisabled(t *testing.T) {
	execer := &mockExecer{}
	execer.On("Exec", mock.Anything, "vault", "vault-0", "vault",
		[]string{"vault", "status", "-format=json", "-address=http://127.0.0.1:8200"}).
		Return(&k8s.ExecResult{Stdout: []byte(unsealedLeaderJSON)}, nil)

	client := NewExecClient(execer, "vault", "vault", "http://127.0.0.1:8200", false)
	_, err := client.Status(context.Background(), "vault-0")
	require.NoError(t, err)
	execer.AssertExpectations(t)
}

func TestExecInitialize(t *testing.T) {
	out := `{"unseal_keys_b64":["k1","k2","k3","k4","k5"],"unseal_keys_hex":null,"unseal_shares":5,"unseal_threshold":3,"root_token":"hvs.root"}`

	execer := &mockExecer{}
	execer.On("Exec", mock.Anything, "vault", "vault-0", "vault",
		[]string{"vault", "operator", "init", "-key-shares=5", "-key-threshold=3",
			"-format=json", "-address=https://127.0.0.1:8200", "-tls-skip-verify"}).
		Return(&k8s.ExecResult{Stdout: []byte(out)}, nil)

	material, err := newExecClient(execer).Initialize(context.Background(), "vault-0", 5, 3)
	require.NoError(t, err)
	assert.Len(t, material.UnsealKeys, 5)
	assert.Equal(t, 3, material.Threshold)
	assert.Equal(t, "hvs.root", material.RootToken)
	execer.AssertExpectations(t)
}

func TestExecInitialize_AlreadyInitialized(t *testing.T) {
	execer := &mockExecer{}
	execer.On("Exec", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&k8s.ExecResult{Stderr: []byte("Error initializing: Vault is already initialized"), ExitCode: 2}, nil)

	_, err := newExecClient(execer).Initialize(context.Background(), "vault-0", 5, 3)
	assert.ErrorIs(t, err, ErrAlreadyInitialized)
}

func TestExecUnseal(t *testing.T) {
	out := `{"type":"shamir","initialized":true,"sealed":true,"t":3,"n":5,"progress":2}`

	execer := &mockExecer{}
	execer.On("Exec", mock.Anything, "vault", "vault-1", "vault",
		[]string{"vault", "operator", "unseal",
			"-format=json", "-address=https://127.0.0.1:8200", "-tls-skip-verify", "share-2"}).
		Return(&k8s.ExecResult{Stdout: []byte(out)}, nil)

	status, err := newExecClient(execer).Unseal(context.Background(), "vault-1", "share-2")
	require.NoError(t, err)
	assert.True(t, status.Sealed)
	assert.Equal(t, 2, status.Progress)
	execer.AssertExpectations(t)
}

func TestExecUnseal_Failure(t *testing.T) {
	execer := &mockExecer{}
	execer.On("Exec", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&k8s.ExecResult{Stderr: []byte("invalid key"), ExitCode: 2}, nil)

	_, err := newExecClient(execer).Unseal(context.Background(), "vault-0", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid key")
}

func TestMaterial_Validate(t *testing.T) {
	tests := []struct {
		name     string
		material Material
		wantErr  bool
	}{
		{"valid", Material{UnsealKeys: []string{"a", "b", "c"}, Threshold: 2}, false},
		{"threshold equals keys", Material{UnsealKeys: []string{"a", "b"}, Threshold: 2}, false},
		{"no keys", Material{Threshold: 1}, true},
		{"zero threshold", Material{UnsealKeys: []string{"a"}}, true},
		{"threshold exceeds keys", Material{UnsealKeys: []string{"a"}, Threshold: 2}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.material.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMaterial_ThresholdKeys(t *testing.T) {
	m := Material{UnsealKeys: []string{"a", "b", "c", "d", "e"}, Threshold: 3}
	assert.Equal(t, []string{"a", "b", "c"}, m.ThresholdKeys())
}

func TestMaterial_DigestIsStableAndOpaque(t *testing.T) {
	m := Material{UnsealKeys: []string{"secret-key-1", "secret-key-2"}, Threshold: 2, RootToken: "hvs.root"}

	d := m.Digest()
	assert.Len(t, d, 12)
	assert.Equal(t, d, m.Digest())
	assert.NotContains(t, d, "secret")

	other := Material{UnsealKeys: []string{"different"}, Threshold: 1}
	assert.NotEqual(t, d, other.Digest())
}
