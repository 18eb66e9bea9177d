package testing

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/tosin2013/vault-raft-bootstrap/internal/bootstrap"
	"github.com/tosin2013/vault-raft-bootstrap/internal/vault"
)

// MockAdminClient is a mock implementation of the vault.AdminClient
// interface, for tests that script exact call sequences.
type MockAdminClient struct {
	mock.Mock
}

// Status reads the mocked seal state of a node.
func (m *MockAdminClient) Status(ctx context.Context, node string) (vault.NodeStatus, error) {
	args := m.Called(ctx, node)
	return args.Get(0).(vault.NodeStatus), args.Error(1)
}

// Initialize performs mocked first-time initialization.
func (m *MockAdminClient) Initialize(ctx context.Context, node string, shares, threshold int) (*vault.Material, error) {
	args := m.Called(ctx, node, shares, threshold)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vault.Material), args.Error(1)
}

// Unseal presents a mocked key share.
func (m *MockAdminClient) Unseal(ctx context.Context, node, key string) (vault.NodeStatus, error) {
	args := m.Called(ctx, node, key)
	return args.Get(0).(vault.NodeStatus), args.Error(1)
}

// MockProber is a mock implementation of the bootstrap.Prober interface.
type MockProber struct {
	mock.Mock
}

// WaitReady gates a node on mocked pod readiness.
func (m *MockProber) WaitReady(ctx context.Context, node string) (string, error) {
	args := m.Called(ctx, node)
	return args.String(0), args.Error(1)
}

// MockEndpointChecker is a mock implementation of the
// bootstrap.EndpointChecker interface.
type MockEndpointChecker struct {
	mock.Mock
}

// CheckEndpoint verifies a mocked external URL.
func (m *MockEndpointChecker) CheckEndpoint(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

// RecordingObserver captures events and log lines for assertions. It is
// safe for concurrent use.
type RecordingObserver struct {
	mu     sync.Mutex
	events []bootstrap.Event
	lines  []string
}

// NewRecordingObserver creates an empty recording observer.
func NewRecordingObserver() *RecordingObserver {
	return &RecordingObserver{}
}

// Event records an emitted event.
func (o *RecordingObserver) Event(e bootstrap.Event) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

// Printf records a formatted log line. Formatting is skipped; tests only
// assert on occurrence, not rendering.
func (o *RecordingObserver) Printf(format string, _ ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.lines = append(o.lines, format)
}

// Events returns a copy of the recorded events.
func (o *RecordingObserver) Events() []bootstrap.Event {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]bootstrap.Event(nil), o.events...)
}

// WithFields returns the same observer; recorded assertions do not depend
// on context fields.
func (o *RecordingObserver) WithFields(_ map[string]string) bootstrap.Observer {
	return o
}

// EventsOfType returns the recorded events with the given type.
func (o *RecordingObserver) EventsOfType(eventType bootstrap.EventType) []bootstrap.Event {
	var out []bootstrap.Event
	for _, e := range o.Events() {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}
