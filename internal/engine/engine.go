// Package engine keeps the SDR content brightness of the monitor hosting the
// anchor window in step with its backlight, and publishes snapshots of the
// monitor's enhancement state for presentation.
package engine

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/alex-vit/hdrbright/internal/backlight"
	"github.com/alex-vit/hdrbright/internal/brightness"
	"github.com/alex-vit/hdrbright/internal/coalesce"
	"github.com/alex-vit/hdrbright/internal/enhance"
	"github.com/alex-vit/hdrbright/internal/monitor"
	"github.com/alex-vit/hdrbright/internal/notify"
	"github.com/alex-vit/hdrbright/internal/wmi"
)

// Adapter is the enhancement surface the engine drives.
type Adapter interface {
	Capabilities(hwnd uintptr) enhance.Capabilities
	AdvancedColorInfo(hwnd uintptr) (enhance.AdvancedColorInfo, error)
	SetSDRWhiteLevelNits(hwnd uintptr, nits float64) bool
	ColorOverrideSupported() bool
	ColorOverrideActive() bool
	SetColorOverrideScenario(accurate bool) bool
	SetGlobalHDR(enable bool) enhance.HDRSwitchResult
	HDRCertifications(interfacePath string) []string
}

// Resolver maps the anchor window to its monitor.
type Resolver interface {
	Resolve(hwnd uintptr) (monitor.Identity, bool)
}

// Watcher reports backlight changes of one monitor.
type Watcher interface {
	Start() error
	Stop()
	SetTarget(target string)
	State() wmi.State
	Subscribe(fn func(percent uint8)) *notify.Subscription
}

// BacklightFor returns the backlight control of a monitor, or nil.
type BacklightFor func(instance string) backlight.Backlight

// Snapshot is the presentation state of the anchor window's monitor.
type Snapshot struct {
	Resolved bool
	Identity monitor.Identity

	Capabilities   enhance.Capabilities
	Color          enhance.AdvancedColorInfo
	ColorKnown     bool
	Certifications []string

	Backlight      uint8
	BacklightKnown bool

	KeepHDR                bool
	ColorAccurate          bool
	ColorAccurateSupported bool

	// Pairs are the backlight levels whose keep-HDR nits land on the SDR
	// white level grid.
	Pairs []brightness.Pair

	UpdatedAt time.Time
}

// SDRNits returns the current SDR white level, or the minimum when unknown.
func (s Snapshot) SDRNits() int {
	if !s.ColorKnown || s.Color.SDRWhiteLevelNits <= 0 {
		return brightness.MinNits
	}
	return enhance.ClampSDRNits(s.Color.SDRWhiteLevelNits)
}

// SDRFraction returns the SDR white level as a fraction of its range.
func (s Snapshot) SDRFraction() float64 {
	return float64(s.SDRNits()-brightness.MinNits) / (brightness.MaxNits - brightness.MinNits)
}

// Engine serializes every monitor query and change through one queue.
type Engine struct {
	resolver     Resolver
	adapter      Adapter
	cache        *brightness.Cache
	watcher      Watcher
	backlightFor BacklightFor
	limiter      *rate.Limiter
	queue        *coalesce.Queue
	hub          notify.Hub[Snapshot]

	hwnd    atomic.Uintptr
	keepHDR atomic.Bool
	// accurate is the wanted color-accurate state, reconciled on refresh.
	accurate atomic.Bool

	// pending changes are applied by whichever queued job runs next, so a
	// collapsed job never loses one.
	pmu     sync.Mutex
	pending pending

	// echo is the backlight percent the engine itself last wrote, ignored
	// when the watcher reports it back before echoUntil.
	echoMu     sync.Mutex
	echo       int
	echoUntil  time.Time
	echoWindow time.Duration

	mu       sync.Mutex
	snap     Snapshot
	current  monitor.Identity
	watchSub *notify.Subscription
}

// pending is the set of changes waiting for the engine goroutine. A later
// change of one kind replaces an earlier one of the same kind.
type pending struct {
	hdr *bool
	// align sets the SDR white level from the current backlight.
	align bool
	// percent is a backlight change reported by the watcher.
	percent *uint8
	// nits is a wanted SDR white level, zero when none.
	nits int
	// sync writes the matching backlight even with keep-HDR off.
	sync bool
}

func (p pending) empty() bool {
	return p.hdr == nil && !p.align && p.percent == nil && p.nits == 0
}

// Option configures an Engine.
type Option func(*Engine)

// WithWriteRate throttles brightness writes to r per second with burst b.
func WithWriteRate(r rate.Limit, b int) Option {
	return func(e *Engine) {
		e.limiter = rate.NewLimiter(r, b)
	}
}

// WithKeepHDR sets the initial keep-HDR-brightness state.
func WithKeepHDR(on bool) Option {
	return func(e *Engine) {
		e.keepHDR.Store(on)
	}
}

// WithColorAccurate sets the initial color-accurate state.
func WithColorAccurate(on bool) Option {
	return func(e *Engine) {
		e.accurate.Store(on)
	}
}

// WithEchoWindow sets how long a backlight write of the engine's own is
// expected to come back from the watcher.
func WithEchoWindow(d time.Duration) Option {
	return func(e *Engine) {
		e.echoWindow = d
	}
}

// New creates an engine. Run must be called before requests take effect.
func New(resolver Resolver, adapter Adapter, cache *brightness.Cache, watcher Watcher, backlightFor BacklightFor, opts ...Option) *Engine {
	e := &Engine{
		resolver:     resolver,
		adapter:      adapter,
		cache:        cache,
		watcher:      watcher,
		backlightFor: backlightFor,
		limiter:      rate.NewLimiter(rate.Every(50*time.Millisecond), 1),
		queue:        coalesce.New(),
		echo:         -1,
		echoWindow:   2 * time.Second,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run processes requests until ctx is cancelled or Close is called.
func (e *Engine) Run(ctx context.Context) {
	e.mu.Lock()
	e.watchSub = e.watcher.Subscribe(e.onBacklightChanged)
	e.mu.Unlock()

	e.RequestRefresh()
	e.queue.Run(ctx)
}

// Close stops the queue and the watcher.
func (e *Engine) Close() {
	e.queue.Close()
	e.mu.Lock()
	sub := e.watchSub
	e.watchSub = nil
	e.mu.Unlock()
	sub.Unsubscribe()
	e.watcher.Stop()
}

// SetWindow sets the window whose monitor the engine follows.
func (e *Engine) SetWindow(hwnd uintptr) {
	e.hwnd.Store(hwnd)
}

// Subscribe registers fn for every published snapshot. fn runs on the engine
// goroutine.
func (e *Engine) Subscribe(fn func(Snapshot)) *notify.Subscription {
	return e.hub.Subscribe(fn)
}

// Snapshot returns the last published snapshot.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snap
}

// KeepHDR reports whether keep-HDR-brightness sync is on.
func (e *Engine) KeepHDR() bool {
	return e.keepHDR.Load()
}

// RequestRefresh queues a snapshot refresh. It reports false after Close.
func (e *Engine) RequestRefresh() bool {
	return e.queue.TryEnqueue(e.process)
}

// change records a change and queues a job to apply it. Every job is the
// same, so the queue may collapse them without losing a change.
func (e *Engine) change(fn func(p *pending)) bool {
	e.pmu.Lock()
	fn(&e.pending)
	e.pmu.Unlock()
	return e.queue.TryEnqueue(e.process)
}

// SetSDRNits sets the SDR white level. With keep-HDR on, the backlight
// follows so HDR content keeps its brightness.
func (e *Engine) SetSDRNits(nits float64) bool {
	n := enhance.ClampSDRNits(nits)
	return e.change(func(p *pending) {
		p.nits, p.sync = n, false
	})
}

// StepSDRNits moves the SDR white level by delta nits from the last snapshot,
// or from a level still waiting to be applied.
func (e *Engine) StepSDRNits(delta int) bool {
	base := e.Snapshot().SDRNits()
	return e.change(func(p *pending) {
		if p.nits != 0 {
			base = p.nits
		}
		p.nits, p.sync = enhance.ClampSDRNits(float64(base+delta)), false
	})
}

// SetNitsSync applies one precise pair: SDR white level nits and the
// backlight level that maps to it, regardless of keep-HDR.
func (e *Engine) SetNitsSync(nits float64) bool {
	n := enhance.ClampSDRNits(nits)
	return e.change(func(p *pending) {
		p.nits, p.sync = n, true
	})
}

// SetKeepHDR turns keep-HDR-brightness sync on or off. Turning it on aligns
// the SDR white level with the current backlight immediately.
func (e *Engine) SetKeepHDR(on bool) bool {
	e.keepHDR.Store(on)
	log.Info().Bool("on", on).Msg("engine: keep hdr brightness")
	return e.change(func(p *pending) {
		p.align = on
	})
}

// ColorAccurate reports whether the color-accurate scenario is wanted.
func (e *Engine) ColorAccurate() bool {
	return e.accurate.Load()
}

// SetColorAccurate requests or stops the color-accurate scenario. The
// request is kept and re-applied by every refresh until it sticks.
func (e *Engine) SetColorAccurate(on bool) bool {
	e.accurate.Store(on)
	return e.queue.TryEnqueue(e.process)
}

// SetGlobalHDR turns HDR on or off on every capable display.
func (e *Engine) SetGlobalHDR(on bool) bool {
	return e.change(func(p *pending) {
		p.hdr = &on
	})
}

func (e *Engine) identity() monitor.Identity {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

func (e *Engine) backlight(id monitor.Identity) backlight.Backlight {
	if e.backlightFor == nil || !id.Valid() {
		return nil
	}
	return e.backlightFor(id.WMIInstanceName)
}

// onBacklightChanged runs on the watcher goroutine.
func (e *Engine) onBacklightChanged(percent uint8) {
	if !e.KeepHDR() {
		return
	}
	if e.ownEcho(percent) {
		log.Debug().Uint8("percent", percent).Msg("engine: ignoring own backlight write")
		return
	}
	e.change(func(p *pending) {
		p.percent = &percent
	})
}

func (e *Engine) expectEcho(percent int) {
	e.echoMu.Lock()
	defer e.echoMu.Unlock()
	e.echo = percent
	e.echoUntil = time.Now().Add(e.echoWindow)
}

// ownEcho reports and forgets a watcher event matching the engine's own
// recent write.
func (e *Engine) ownEcho(percent uint8) bool {
	e.echoMu.Lock()
	defer e.echoMu.Unlock()
	if e.echo != int(percent) {
		return false
	}
	e.echo = -1
	return time.Now().Before(e.echoUntil)
}

// process applies the pending changes, then refreshes.
func (e *Engine) process(ctx context.Context) {
	e.pmu.Lock()
	p := e.pending
	e.pending = pending{}
	e.pmu.Unlock()

	if !p.empty() {
		e.apply(ctx, p)
	}
	e.refresh(ctx)
}

func (e *Engine) apply(ctx context.Context, p pending) {
	if p.hdr != nil {
		e.adapter.SetGlobalHDR(*p.hdr)
	}
	if p.align || p.percent != nil || p.nits != 0 {
		if _, ok := e.resolve(); !ok {
			log.Debug().Msg("engine: no monitor, dropping brightness changes")
			return
		}
	}
	if p.align && e.KeepHDR() {
		if b := e.backlight(e.identity()); b != nil {
			if percent, err := b.Get(); err == nil {
				e.applyPercent(ctx, percent)
			}
		}
	}
	if p.percent != nil && e.KeepHDR() {
		e.applyPercent(ctx, *p.percent)
	}
	if p.nits != 0 {
		e.applyNits(ctx, p.nits, p.sync || e.KeepHDR())
	}
}

// applyPercent sets the SDR white level matching a backlight percentage.
func (e *Engine) applyPercent(ctx context.Context, percent uint8) {
	if err := e.limiter.Wait(ctx); err != nil {
		return
	}
	id := e.identity()
	nits, err := e.cache.NitsForLevel(id.WMIInstanceName, float64(percent)/100)
	if err != nil {
		log.Warn().Err(err).Uint8("percent", percent).Msg("engine: nits for level failed")
		return
	}
	if e.adapter.SetSDRWhiteLevelNits(e.hwnd.Load(), nits) {
		log.Debug().Uint8("percent", percent).Float64("nits", nits).Msg("engine: sdr white follows backlight")
	}
}

// applyNits sets the SDR white level and, when sync is set, the backlight
// level mapping to it.
func (e *Engine) applyNits(ctx context.Context, nits int, sync bool) {
	if err := e.limiter.Wait(ctx); err != nil {
		return
	}
	if !e.adapter.SetSDRWhiteLevelNits(e.hwnd.Load(), float64(nits)) || !sync {
		return
	}
	id := e.identity()
	b := e.backlight(id)
	if b == nil {
		return
	}
	level, err := e.cache.LevelForNits(id.WMIInstanceName, float64(nits))
	if err != nil {
		log.Warn().Err(err).Int("nits", nits).Msg("engine: level for nits failed")
		return
	}
	percent := uint8(math.Round(max(0, min(1, level)) * 100))
	e.expectEcho(int(percent))
	if err := b.Set(percent); err != nil {
		e.expectEcho(-1)
		log.Warn().Err(err).Uint8("percent", percent).Msg("engine: backlight follows sdr white failed")
		return
	}
	log.Debug().Int("nits", nits).Uint8("percent", percent).Msg("engine: backlight follows sdr white")
}

// syncWatcher points the watcher at target and runs it only while keep-HDR
// is on.
func (e *Engine) syncWatcher(target string) {
	e.watcher.SetTarget(target)
	want := e.KeepHDR() && target != ""
	watching := e.watcher.State() == wmi.Watching
	switch {
	case want && !watching:
		if err := e.watcher.Start(); err != nil {
			log.Warn().Err(err).Msg("engine: brightness watcher unavailable")
		}
	case !want && watching:
		e.watcher.Stop()
	}
}

// resolve maps the anchor window to its monitor and points the watcher at
// it.
func (e *Engine) resolve() (monitor.Identity, bool) {
	hwnd := e.hwnd.Load()
	id, ok := e.resolver.Resolve(hwnd)
	if !ok {
		log.Debug().Uint64("hwnd", uint64(hwnd)).Msg("engine: window has no monitor")
		id = monitor.Identity{}
	}

	e.mu.Lock()
	changed := ok && e.current.InterfacePath != id.InterfacePath
	e.current = id
	e.mu.Unlock()
	if changed {
		log.Info().Str("monitor", id.FriendlyName).Str("instance", id.WMIInstanceName).Msg("engine: monitor changed")
	}
	e.syncWatcher(id.WMIInstanceName)
	return id, ok
}

func (e *Engine) refresh(ctx context.Context) {
	hwnd := e.hwnd.Load()
	snap := Snapshot{KeepHDR: e.KeepHDR(), UpdatedAt: time.Now()}

	id, ok := e.resolve()
	if !ok {
		e.publish(snap)
		return
	}

	snap.Resolved = true
	snap.Identity = id
	snap.Capabilities = e.adapter.Capabilities(hwnd)

	if info, err := e.adapter.AdvancedColorInfo(hwnd); err == nil {
		snap.Color = info
		snap.ColorKnown = true
	} else {
		log.Debug().Err(err).Msg("engine: advanced color info unavailable")
	}
	snap.Certifications = e.adapter.HDRCertifications(id.InterfacePath)

	if b := e.backlight(id); b != nil {
		if p, err := b.Get(); err == nil {
			snap.Backlight = p
			snap.BacklightKnown = true
		} else {
			log.Debug().Err(err).Msg("engine: backlight unavailable")
		}
	}

	snap.ColorAccurateSupported = e.adapter.ColorOverrideSupported()
	if snap.ColorAccurateSupported {
		want := e.ColorAccurate()
		if e.adapter.ColorOverrideActive() != want {
			e.adapter.SetColorOverrideScenario(want)
		}
		snap.ColorAccurate = e.adapter.ColorOverrideActive()
	}

	if snap.Capabilities.BrightnessNitsControlSupported && id.WMIInstanceName != "" {
		snap.Pairs = e.warm(ctx, id.WMIInstanceName)
	}
	e.publish(snap)
}

// warm fills in whatever the mapping tables of a monitor still miss and
// returns its precise pairs.
func (e *Engine) warm(ctx context.Context, key string) []brightness.Pair {
	if !e.cache.Complete(key) {
		start := time.Now()
		if err := e.cache.BuildLevels(ctx, key); err != nil {
			log.Warn().Err(err).Str("instance", key).Msg("engine: build level table failed")
		}
		if err := e.cache.BuildNits(ctx, key); err != nil {
			log.Warn().Err(err).Str("instance", key).Msg("engine: build nits table failed")
		}
		log.Debug().Dur("took", time.Since(start)).Str("instance", key).Msg("engine: mapping tables built")
	}
	pairs, err := e.cache.PreciseKeepHDRPairs(ctx, key)
	if err != nil {
		log.Debug().Err(err).Msg("engine: precise pairs incomplete")
	}
	return pairs
}

func (e *Engine) publish(snap Snapshot) {
	e.mu.Lock()
	e.snap = snap
	e.mu.Unlock()
	e.hub.Publish(snap)
}
