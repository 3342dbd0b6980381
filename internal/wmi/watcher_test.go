package wmi_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-vit/hdrbright/internal/wmi"
)

const (
	internal = `DISPLAY\BOE0A1B\4&2f1b3c&0&UID265988`
	external = `DISPLAY\DEL4098\5&10a58962&0&UID4353`
)

type fakeSource struct {
	events chan wmi.Event
	fail   chan error
	closed atomic.Int32
}

func newFakeSource() *fakeSource {
	return &fakeSource{events: make(chan wmi.Event, 8), fail: make(chan error, 1)}
}

func (f *fakeSource) Next(timeout time.Duration) (wmi.Event, bool, error) {
	select {
	case ev := <-f.events:
		return ev, true, nil
	case err := <-f.fail:
		return wmi.Event{}, false, err
	case <-time.After(timeout):
		return wmi.Event{}, false, nil
	}
}

func (f *fakeSource) Close() { f.closed.Add(1) }

type opener struct {
	mu      sync.Mutex
	sources []*fakeSource
	err     error
}

func (o *opener) open() (wmi.EventSource, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return nil, o.err
	}
	src := newFakeSource()
	o.sources = append(o.sources, src)
	return src, nil
}

func (o *opener) last() *fakeSource {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sources[len(o.sources)-1]
}

func newWatcher(o *opener) *wmi.Watcher {
	return wmi.NewWatcher(internal,
		wmi.WithOpener(o.open),
		wmi.WithPollInterval(10*time.Millisecond),
	)
}

func TestWatcherDeliversOnlyTargetEvents(t *testing.T) {
	o := &opener{}
	w := newWatcher(o)
	got := make(chan uint8, 4)
	sub := w.Subscribe(func(p uint8) { got <- p })
	defer sub.Unsubscribe()

	require.NoError(t, w.Start())
	assert.Equal(t, wmi.Watching, w.State())

	src := o.last()
	src.events <- wmi.Event{InstanceName: external, Brightness: 10}
	src.events <- wmi.Event{InstanceName: internal + "_0", Brightness: 55}

	select {
	case p := <-got:
		assert.Equal(t, uint8(55), p)
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
	w.Stop()
	assert.Empty(t, got, "events for other monitors must be dropped")
	assert.Equal(t, wmi.Stopped, w.State())
	assert.Equal(t, int32(1), src.closed.Load())
}

func TestWatcherStartReplacesSubscription(t *testing.T) {
	o := &opener{}
	w := newWatcher(o)
	require.NoError(t, w.Start())
	first := o.last()
	require.NoError(t, w.Start())
	second := o.last()
	defer w.Close()

	assert.NotSame(t, first, second)
	assert.Equal(t, int32(1), first.closed.Load(), "previous subscription must be released")
	assert.Zero(t, second.closed.Load())
}

func TestWatcherStartFailureStaysStopped(t *testing.T) {
	o := &opener{err: errors.New("access denied")}
	w := newWatcher(o)
	assert.Error(t, w.Start())
	assert.Equal(t, wmi.Stopped, w.State())
	w.Stop()
}

func TestWatcherSourceFailureStops(t *testing.T) {
	o := &opener{}
	w := newWatcher(o)
	require.NoError(t, w.Start())
	o.last().fail <- errors.New("RPC server unavailable")

	assert.Eventually(t, func() bool { return w.State() == wmi.Stopped }, time.Second, 5*time.Millisecond)
	w.Stop()
}

func TestWatcherRetarget(t *testing.T) {
	o := &opener{}
	w := newWatcher(o)
	got := make(chan uint8, 4)
	w.Subscribe(func(p uint8) { got <- p })
	require.NoError(t, w.Start())
	defer w.Close()

	w.SetTarget(external)
	assert.Equal(t, external, w.Target())
	o.last().events <- wmi.Event{InstanceName: external, Brightness: 70}

	select {
	case p := <-got:
		assert.Equal(t, uint8(70), p)
	case <-time.After(time.Second):
		t.Fatal("no event delivered after retarget")
	}
}

func TestFindReading(t *testing.T) {
	readings := []wmi.Reading{
		{InstanceName: external + "_0", Percent: 20},
		{InstanceName: internal + "_0", Percent: 80, Active: true},
	}
	r, ok := wmi.FindReading(readings, internal)
	require.True(t, ok)
	assert.Equal(t, uint8(80), r.Percent)

	_, ok = wmi.FindReading(readings, `DISPLAY\XYZ\1`)
	assert.False(t, ok)
}
