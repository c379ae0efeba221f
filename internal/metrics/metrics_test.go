package metrics

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCallCountsByResult(t *testing.T) {
	r := New()
	r.ObserveCall("ListQueues", nil, 10*time.Millisecond)
	r.ObserveCall("ListQueues", nil, 10*time.Millisecond)
	r.ObserveCall("ListQueues", errors.New("boom"), time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.calls.WithLabelValues("ListQueues", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.calls.WithLabelValues("ListQueues", ResultError)))
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}

func TestPresetExportsZeroSeries(t *testing.T) {
	r := New()
	r.Preset("ListQueues", "PurgeQueue")

	assert.Equal(t, 4, testutil.CollectAndCount(r.calls))
	assert.Zero(t, testutil.ToFloat64(r.calls.WithLabelValues("PurgeQueue", ResultError)))

	var nilRecorder *Recorder
	nilRecorder.Preset("ListQueues")
}

func TestValidationAndStaleCounters(t *testing.T) {
	r := New()
	r.ValidationFailed("missing-group-id")
	r.StaleResponse()
	r.StaleResponse()

	assert.Equal(t, 1.0, testutil.ToFloat64(r.validation.WithLabelValues("missing-group-id")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.stale))
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveCall("ListQueues", nil, 0)
	r.ValidationFailed("x")
	r.StaleResponse()
	assert.Nil(t, r.Registry())
}

func TestServeExposesMetrics(t *testing.T) {
	r := New()
	r.StaleResponse()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Contains(t, string(body), "sqs_admin_stale_responses_total 1")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down")
	}
}
