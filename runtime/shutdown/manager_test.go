package shutdown

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeComponent struct {
	name     string
	serveErr error
	stopErr  error
	stopped  atomic.Int32
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Serve(ctx context.Context) error {
	if f.serveErr != nil {
		return f.serveErr
	}
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeComponent) Shutdown(context.Context) error {
	f.stopped.Add(1)
	return f.stopErr
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	a, b := &fakeComponent{name: "a"}, &fakeComponent{name: "b"}
	m := New(Config{ShutdownTimeout: time.Second})
	m.Add(a)
	m.Add(b)
	m.Add(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.EqualValues(t, 1, a.stopped.Load())
	assert.EqualValues(t, 1, b.stopped.Load())
}

func TestRunReturnsComponentFailure(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	pm, err := NewMetrics(reg)
	require.NoError(t, err)

	broken := &fakeComponent{name: "broken", serveErr: errors.New("bind: address in use")}
	waiter := &fakeComponent{name: "waiter", stopErr: errors.New("stuck")}
	m := New(Config{ShutdownTimeout: time.Second, Metrics: pm})
	m.Add(broken)
	m.Add(waiter)

	err = m.Run(context.Background())
	require.ErrorContains(t, err, "broken: bind: address in use")
	assert.EqualValues(t, 1, waiter.stopped.Load())
	assert.InDelta(t, 1, testutil.ToFloat64(pm.serveErrors.WithLabelValues("broken")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pm.stops.WithLabelValues("failure")), 0)
}

func TestStopRunsOnce(t *testing.T) {
	t.Parallel()

	c := &fakeComponent{name: "c"}
	m := New(Config{})
	m.Stop([]Component{c})
	m.Stop([]Component{c})
	assert.EqualValues(t, 1, c.stopped.Load())
}

func TestIsNormalError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsNormalError(nil))
	assert.True(t, IsNormalError(context.Canceled))
	assert.True(t, IsNormalError(http.ErrServerClosed))
	assert.True(t, IsNormalError(errors.New("accept tcp: use of closed network connection")))
	assert.False(t, IsNormalError(errors.New("boom")))
}

func TestHTTPServer(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := NewHTTPServer("probe", "", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	srv.Listener = ln
	assert.Equal(t, "probe", srv.Name())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ctx) }()

	client := http.Client{Timeout: time.Second}
	require.Eventually(t, func() bool {
		resp, err := client.Get("http://" + ln.Addr().String())
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	shCtx, shCancel := context.WithTimeout(context.Background(), time.Second)
	defer shCancel()
	require.NoError(t, srv.Shutdown(shCtx))

	select {
	case err := <-served:
		assert.True(t, IsNormalError(err))
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Shutdown")
	}
}
