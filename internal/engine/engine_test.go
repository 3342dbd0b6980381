package engine_test

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/alex-vit/hdrbright/internal/backlight"
	"github.com/alex-vit/hdrbright/internal/brightness"
	"github.com/alex-vit/hdrbright/internal/displayconfig"
	"github.com/alex-vit/hdrbright/internal/engine"
	"github.com/alex-vit/hdrbright/internal/enhance"
	"github.com/alex-vit/hdrbright/internal/monitor"
	"github.com/alex-vit/hdrbright/internal/notify"
	"github.com/alex-vit/hdrbright/internal/wmi"
)

const (
	hwnd     uintptr = 42
	instance         = `DISPLAY\BOE0A1B\4&2f1b3c&0&UID265988`
)

var laptop = monitor.Identity{
	InterfacePath:   `\\?\DISPLAY#BOE0A1B#4&2f1b3c&0&UID265988#{e6f07b5f-ee97-4a90-b076-33f57bf4eaa7}`,
	WMIInstanceName: instance,
	GDIName:         `\\.\DISPLAY1`,
	FriendlyName:    "Built-in",
}

// linearCurve maps level 0..1 onto 80..480 nits.
type linearCurve struct{}

func (linearCurve) NitsForLevel(l float64) (float64, error) { return math.Round(80 + 400*l), nil }
func (linearCurve) LevelForNits(n float64) (float64, error) { return (n - 80) / 400, nil }

type fakeResolver struct {
	mu sync.Mutex
	id monitor.Identity
	ok bool
}

func (r *fakeResolver) Resolve(uintptr) (monitor.Identity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id, r.ok
}

type fakeAdapter struct {
	mu       sync.Mutex
	sdr      []float64
	accurate bool
	hdr      []bool
	nits     float64
}

func (a *fakeAdapter) Capabilities(uintptr) enhance.Capabilities {
	return enhance.Capabilities{
		BrightnessControlSupported:     true,
		BrightnessNitsControlSupported: true,
		NitRanges:                      []enhance.NitRange{enhance.SDRWhiteRange},
	}
}

func (a *fakeAdapter) AdvancedColorInfo(uintptr) (enhance.AdvancedColorInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return enhance.AdvancedColorInfo{Mode: displayconfig.ColorModeHDR, SDRWhiteLevelNits: a.nits}, nil
}

func (a *fakeAdapter) SetSDRWhiteLevelNits(_ uintptr, nits float64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := float64(enhance.ClampSDRNits(nits))
	a.sdr = append(a.sdr, n)
	a.nits = n
	return true
}

func (a *fakeAdapter) ColorOverrideSupported() bool { return true }

func (a *fakeAdapter) ColorOverrideActive() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.accurate
}

func (a *fakeAdapter) SetColorOverrideScenario(accurate bool) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.accurate = accurate
	return true
}

func (a *fakeAdapter) SetGlobalHDR(enable bool) enhance.HDRSwitchResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.hdr = append(a.hdr, enable)
	return enhance.HDRSwitchResult{}
}

func (a *fakeAdapter) HDRCertifications(string) []string { return []string{"VESA DisplayHDR 400"} }

func (a *fakeAdapter) sdrWrites() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]float64(nil), a.sdr...)
}

type fakeWatcher struct {
	mu     sync.Mutex
	target string
	state  wmi.State
	starts int
	hub    notify.Hub[uint8]
}

func (w *fakeWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = wmi.Watching
	w.starts++
	return nil
}

func (w *fakeWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state = wmi.Stopped
}

func (w *fakeWatcher) SetTarget(t string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.target = t
}

func (w *fakeWatcher) Target() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target
}

func (w *fakeWatcher) State() wmi.State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *fakeWatcher) Subscribe(fn func(uint8)) *notify.Subscription { return w.hub.Subscribe(fn) }

type fakeBacklight struct {
	mu      sync.Mutex
	percent uint8
	sets    []uint8
}

func (b *fakeBacklight) Get() (uint8, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.percent, nil
}

func (b *fakeBacklight) Set(p uint8) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.percent = p
	b.sets = append(b.sets, p)
	return nil
}

func (b *fakeBacklight) writes() []uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]uint8(nil), b.sets...)
}

type harness struct {
	eng      *engine.Engine
	resolver *fakeResolver
	adapter  *fakeAdapter
	watcher  *fakeWatcher
	light    *fakeBacklight
	snaps    chan engine.Snapshot
}

// build creates an engine that is not running yet.
func build(t *testing.T, opts ...engine.Option) *harness {
	t.Helper()
	h := &harness{
		resolver: &fakeResolver{id: laptop, ok: true},
		adapter:  &fakeAdapter{nits: 200},
		watcher:  &fakeWatcher{},
		light:    &fakeBacklight{percent: 30},
		snaps:    make(chan engine.Snapshot, 64),
	}
	opts = append([]engine.Option{engine.WithWriteRate(rate.Inf, 1)}, opts...)
	h.eng = engine.New(h.resolver, h.adapter, brightness.NewCache(linearCurve{}), h.watcher,
		func(string) backlight.Backlight { return h.light }, opts...)
	h.eng.SetWindow(hwnd)
	h.eng.Subscribe(func(s engine.Snapshot) { h.snaps <- s })
	return h
}

func (h *harness) run(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		h.eng.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		h.eng.Close()
		<-done
	})
}

func start(t *testing.T, opts ...engine.Option) *harness {
	t.Helper()
	h := build(t, opts...)
	h.run(t)
	return h
}

func (h *harness) next(t *testing.T) engine.Snapshot {
	t.Helper()
	select {
	case s := <-h.snaps:
		return s
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot published")
	}
	return engine.Snapshot{}
}

func TestRefreshPublishesSnapshot(t *testing.T) {
	h := start(t)
	s := h.next(t)

	require.True(t, s.Resolved)
	assert.Equal(t, laptop.InterfacePath, s.Identity.InterfacePath)
	assert.True(t, s.ColorKnown)
	assert.Equal(t, 200, s.SDRNits())
	assert.InDelta(t, 0.3, s.SDRFraction(), 1e-9)
	assert.True(t, s.BacklightKnown)
	assert.Equal(t, uint8(30), s.Backlight)
	assert.Equal(t, []string{"VESA DisplayHDR 400"}, s.Certifications)
	assert.True(t, s.ColorAccurateSupported)
	assert.False(t, s.KeepHDR)

	// Linear curve: level i/100 -> 80+4i nits, every level lands on the grid.
	require.Len(t, s.Pairs, 101)
	assert.Equal(t, brightness.Pair{Level: 0, Nits: 80}, s.Pairs[0])
	assert.Equal(t, brightness.Pair{Level: 1, Nits: 480}, s.Pairs[100])
	assert.Equal(t, s, h.eng.Snapshot())
}

func TestUnresolvedWindow(t *testing.T) {
	h := start(t)
	h.next(t)

	h.resolver.mu.Lock()
	h.resolver.ok = false
	h.resolver.mu.Unlock()
	require.True(t, h.eng.RequestRefresh())

	s := h.next(t)
	assert.False(t, s.Resolved)
	assert.Equal(t, 80, s.SDRNits())
}

func TestKeepHDRFollowsBacklight(t *testing.T) {
	h := start(t, engine.WithKeepHDR(true))
	h.next(t)
	assert.Equal(t, wmi.Watching, h.watcher.State())
	assert.Equal(t, instance, h.watcher.Target())

	h.watcher.hub.Publish(55)
	s := h.next(t)
	assert.Equal(t, []float64{300}, h.adapter.sdrWrites(), "55% -> 80+0.55*400 nits")
	assert.Equal(t, 300, s.SDRNits())
}

func TestBacklightIgnoredWithoutKeepHDR(t *testing.T) {
	h := start(t)
	h.next(t)
	assert.Equal(t, wmi.Stopped, h.watcher.State())

	h.watcher.hub.Publish(55)
	require.True(t, h.eng.RequestRefresh())
	h.next(t)
	assert.Empty(t, h.adapter.sdrWrites())
}

func TestSDRSliderDrivesBacklight(t *testing.T) {
	h := start(t, engine.WithKeepHDR(true))
	h.next(t)

	require.True(t, h.eng.SetSDRNits(281))
	s := h.next(t)
	assert.Equal(t, []float64{284}, h.adapter.sdrWrites())
	assert.Equal(t, []uint8{51}, h.light.writes(), "284 nits -> level 0.51")
	assert.Equal(t, uint8(51), s.Backlight)

	// The watcher echo of the engine's own write must not re-set the level.
	h.watcher.hub.Publish(51)
	require.True(t, h.eng.RequestRefresh())
	h.next(t)
	assert.Equal(t, []float64{284}, h.adapter.sdrWrites())
}

func TestSDRSliderWithoutKeepHDR(t *testing.T) {
	h := start(t)
	h.next(t)

	require.True(t, h.eng.SetSDRNits(500))
	h.next(t)
	assert.Equal(t, []float64{480}, h.adapter.sdrWrites())
	assert.Empty(t, h.light.writes())
}

func TestSetNitsSync(t *testing.T) {
	h := start(t)
	h.next(t)

	require.True(t, h.eng.SetNitsSync(480))
	h.next(t)
	assert.Equal(t, []uint8{100}, h.light.writes())
}

func TestStepSDRNits(t *testing.T) {
	h := start(t)
	h.next(t)

	require.True(t, h.eng.StepSDRNits(4))
	h.next(t)
	require.True(t, h.eng.StepSDRNits(-8))
	h.next(t)
	assert.Equal(t, []float64{204, 196}, h.adapter.sdrWrites())
}

func TestSetKeepHDRAlignsImmediately(t *testing.T) {
	h := start(t)
	h.next(t)

	require.True(t, h.eng.SetKeepHDR(true))
	s := h.next(t)
	assert.True(t, s.KeepHDR)
	assert.Equal(t, wmi.Watching, h.watcher.State())
	assert.Equal(t, []float64{200}, h.adapter.sdrWrites(), "30% -> 200 nits")

	require.True(t, h.eng.SetKeepHDR(false))
	s = h.next(t)
	assert.False(t, s.KeepHDR)
	assert.Equal(t, wmi.Stopped, h.watcher.State())
}

func TestToggles(t *testing.T) {
	h := start(t)
	h.next(t)

	require.True(t, h.eng.SetColorAccurate(true))
	assert.True(t, h.next(t).ColorAccurate)

	require.True(t, h.eng.SetGlobalHDR(false))
	h.next(t)
	h.adapter.mu.Lock()
	assert.Equal(t, []bool{false}, h.adapter.hdr)
	h.adapter.mu.Unlock()
}

func TestClosedEngineRejectsRequests(t *testing.T) {
	h := start(t)
	h.next(t)
	h.eng.Close()
	assert.False(t, h.eng.RequestRefresh())
	assert.False(t, h.eng.SetSDRNits(200))
}

func TestSnapshotSDRNits(t *testing.T) {
	s := engine.Snapshot{ColorKnown: true, Color: enhance.AdvancedColorInfo{SDRWhiteLevelNits: 241.3}}
	assert.Equal(t, 244, s.SDRNits())
	assert.False(t, math.IsNaN(engine.Snapshot{}.SDRFraction()))
	assert.Zero(t, engine.Snapshot{}.SDRFraction())
}

func TestColorAccurateSurvivesCollapsedRequests(t *testing.T) {
	h := start(t, engine.WithColorAccurate(true))
	assert.True(t, h.next(t).ColorAccurate, "initial state applied by the first refresh")

	h.eng.SetColorAccurate(false)
	h.eng.RequestRefresh()
	h.eng.RequestRefresh()
	assert.False(t, h.eng.ColorAccurate())
	require.Eventually(t, func() bool {
		return !h.adapter.ColorOverrideActive()
	}, 2*time.Second, 10*time.Millisecond)
}

func TestChangesSurviveCollapsedRefresh(t *testing.T) {
	h := build(t)
	require.True(t, h.eng.SetGlobalHDR(true))
	require.True(t, h.eng.SetSDRNits(300))
	require.True(t, h.eng.RequestRefresh())
	h.run(t)

	s := h.next(t)
	assert.Equal(t, 300, s.SDRNits())
	assert.Equal(t, []float64{300}, h.adapter.sdrWrites())
	h.adapter.mu.Lock()
	assert.Equal(t, []bool{true}, h.adapter.hdr)
	h.adapter.mu.Unlock()
}

func TestQueuedStepsAccumulate(t *testing.T) {
	h := build(t)
	require.True(t, h.eng.SetSDRNits(200))
	require.True(t, h.eng.StepSDRNits(4))
	require.True(t, h.eng.StepSDRNits(4))
	h.run(t)

	assert.Equal(t, 208, h.next(t).SDRNits())
	assert.Equal(t, []float64{208}, h.adapter.sdrWrites())
}

func TestBacklightChangeSurvivesCollapsedRefresh(t *testing.T) {
	h := build(t, engine.WithKeepHDR(true))
	h.run(t)
	h.next(t)

	h.watcher.hub.Publish(55)
	h.eng.RequestRefresh()
	require.Eventually(t, func() bool {
		return len(h.adapter.sdrWrites()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []float64{300}, h.adapter.sdrWrites())
}

func TestOwnBacklightEchoExpires(t *testing.T) {
	h := start(t, engine.WithKeepHDR(true), engine.WithEchoWindow(time.Millisecond))
	h.next(t)

	require.True(t, h.eng.SetSDRNits(281))
	h.next(t)
	require.Equal(t, []uint8{51}, h.light.writes())

	// No echo arrived in time; a later real change to 51% is the user's.
	time.Sleep(20 * time.Millisecond)
	h.watcher.hub.Publish(51)
	require.Eventually(t, func() bool {
		return len(h.adapter.sdrWrites()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []float64{284, 284}, h.adapter.sdrWrites())
}
