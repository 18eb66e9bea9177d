package bootstrap_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosin2013/vault-raft-bootstrap/internal/bootstrap"
	testutil "github.com/tosin2013/vault-raft-bootstrap/internal/testing"
)

type stubPhase struct {
	name string
	err  error
	ran  *[]string
}

func (p *stubPhase) Name() string { return p.name }

func (p *stubPhase) Run(_ *bootstrap.Context) error {
	*p.ran = append(*p.ran, p.name)
	return p.err
}

func TestRunPhases_Order(t *testing.T) {
	cfg := testutil.NewConfigBuilder().Build()
	ctx, observer := newTestContext(t, cfg, testutil.NewClusterFixture(3, 5, 3), testutil.ReadyProber{})

	var ran []string
	phases := []bootstrap.Phase{
		&stubPhase{name: "first", ran: &ran},
		&stubPhase{name: "second", ran: &ran},
		&stubPhase{name: "third", ran: &ran},
	}

	require.NoError(t, bootstrap.RunPhases(ctx, phases))
	assert.Equal(t, []string{"first", "second", "third"}, ran)
	assert.Len(t, observer.EventsOfType(bootstrap.EventPhaseStarted), 3)
	assert.Len(t, observer.EventsOfType(bootstrap.EventPhaseCompleted), 3)
}

func TestRunPhases_StopsAtFirstFailure(t *testing.T) {
	cfg := testutil.NewConfigBuilder().Build()
	ctx, observer := newTestContext(t, cfg, testutil.NewClusterFixture(3, 5, 3), testutil.ReadyProber{})

	var ran []string
	boom := errors.New("boom")
	phases := []bootstrap.Phase{
		&stubPhase{name: "first", ran: &ran},
		&stubPhase{name: "second", ran: &ran, err: boom},
		&stubPhase{name: "third", ran: &ran},
	}

	err := bootstrap.RunPhases(ctx, phases)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "second phase failed")
	assert.Equal(t, []string{"first", "second"}, ran)
	assert.Len(t, observer.EventsOfType(bootstrap.EventPhaseFailed), 1)
}
