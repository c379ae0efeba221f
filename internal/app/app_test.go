package app

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/atomicstack/sqs-admin-tui/internal/logging"
	"github.com/atomicstack/sqs-admin-tui/internal/sqs"
	"github.com/atomicstack/sqs-admin-tui/internal/testutil"
	"github.com/atomicstack/sqs-admin-tui/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWiresTransportMetricsAndWatcher(t *testing.T) {
	logging.SetOutput(io.Discard)
	t.Cleanup(func() { logging.SetOutput(nil) })

	clock := clockwork.NewFakeClock()
	fake := testutil.NewFakeTransport(clock)
	fake.SetQueues("a", "b")
	cfg := Config{Region: "us-east-1", PollInterval: 3 * time.Second, SettleDelay: time.Second, Width: 80, Height: 24}

	rt := build(context.Background(), cfg, fake, clock)
	t.Cleanup(rt.watcher.Stop)

	assert.Equal(t, 3*time.Second, rt.watcher.Interval())

	h := ui.NewHarness(rt.model)
	h.Boot()
	assert.Equal(t, 1, rt.model.Queues().SelectedIndex())
	assert.Equal(t, 1, fake.Count(sqs.ActionListQueues))
	assert.Equal(t, 1, fake.Count(sqs.ActionGetMessages))
	assert.Contains(t, h.View(), "region us-east-1")

	n, err := promtest.GatherAndCount(rt.metrics.Registry(), "sqs_admin_remote_calls_total")
	require.NoError(t, err)
	assert.Equal(t, 2*len(sqs.Actions()), n, "every action and result is exported from startup")
}

func TestStartupFieldsOmitCredentials(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cfg := Config{
		Region:       "eu-west-1",
		AccessKey:    "AKIA",
		SecretKey:    "shh",
		PollInterval: 2 * time.Second,
		SettleDelay:  time.Second,
	}
	rt := build(context.Background(), cfg, testutil.NewFakeTransport(clock), clock)
	t.Cleanup(rt.watcher.Stop)

	fields := startupFields(cfg, rt)
	assert.Equal(t, "eu-west-1", fields["region"])
	assert.Equal(t, "default", fields["endpoint"])
	assert.Equal(t, "2s", fields["pollInterval"])
	assert.Equal(t, logging.Path(), fields["logFile"])
	for _, v := range fields {
		assert.NotEqual(t, "shh", v)
		assert.NotEqual(t, "AKIA", v)
	}
}

func TestStopReason(t *testing.T) {
	assert.Equal(t, "quit", stopReason(nil))
	assert.Equal(t, "killed", stopReason(tea.ErrProgramKilled))
	assert.Equal(t, "boom", stopReason(errors.New("boom")))
}
