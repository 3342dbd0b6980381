// Package brightness caches the OS mapping between a panel backlight level
// and the SDR white level, in nits, that keeps HDR content at the same
// perceived brightness. The mapping is monitor specific, so every table is
// keyed by the monitor's WMI instance name.
package brightness

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Nits range of the keep-HDR-brightness table.
const (
	MinNits  = 80
	MaxNits  = 480
	NitsStep = 4

	levelSteps = 100
	nitsCount  = (MaxNits-MinNits)/NitsStep + 1
)

// Curve converts between backlight level (0..1) and nits.
type Curve interface {
	NitsForLevel(level float64) (float64, error)
	LevelForNits(nits float64) (float64, error)
}

// Pair is one calibration point: backlight level and its nits.
type Pair struct {
	Level float64
	Nits  float64
}

// Cache holds per-monitor level->nits and nits->level tables. Entries are
// only ever added; a value stored for a key never changes.
type Cache struct {
	curve Curve
	limit int

	mu     sync.RWMutex
	nits   map[string]map[float64]float64
	levels map[string]map[float64]float64
}

// Option configures a Cache.
type Option func(*Cache)

// WithConcurrency caps the number of concurrent curve evaluations during a
// build.
func WithConcurrency(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.limit = n
		}
	}
}

// NewCache creates an empty cache over curve.
func NewCache(curve Curve, opts ...Option) *Cache {
	c := &Cache{
		curve:  curve,
		limit:  runtime.NumCPU(),
		nits:   make(map[string]map[float64]float64),
		levels: make(map[string]map[float64]float64),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BuildLevels fills the level->nits table for levels 0.00..1.00.
func (c *Cache) BuildLevels(ctx context.Context, key string) error {
	return c.build(ctx, key, c.nits, levelPoints(), c.curve.NitsForLevel)
}

// BuildNits fills the nits->level table for 80, 84, ..., 480 nits.
func (c *Cache) BuildNits(ctx context.Context, key string) error {
	return c.build(ctx, key, c.levels, nitsPoints(), c.curve.LevelForNits)
}

// build evaluates the points missing from table. Points are independent: a
// failing one is reported and left for the next build to fill in.
func (c *Cache) build(ctx context.Context, key string, table map[string]map[float64]float64,
	points []float64, eval func(float64) (float64, error)) error {
	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(c.limit)
	for _, x := range points {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if _, ok := c.get(table, key, x); ok {
				return nil
			}
			y, err := eval(x)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("brightness: evaluate %.2f: %w", x, err))
				mu.Unlock()
				return nil
			}
			c.putIfAbsent(table, key, x, y)
			return nil
		})
	}
	g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

// NitsForLevel returns the nits for level, clamped to [0,1]. Misses are
// computed directly and not cached.
func (c *Cache) NitsForLevel(key string, level float64) (float64, error) {
	level = clamp(level, 0, 1)
	if v, ok := c.get(c.nits, key, level); ok {
		return v, nil
	}
	return c.curve.NitsForLevel(level)
}

// LevelForNits returns the backlight level for nits, clamped to [80,480].
// Misses are computed directly and not cached.
func (c *Cache) LevelForNits(key string, nits float64) (float64, error) {
	nits = clamp(nits, MinNits, MaxNits)
	if v, ok := c.get(c.levels, key, nits); ok {
		return v, nil
	}
	return c.curve.LevelForNits(nits)
}

// Has reports whether any level->nits entry exists for key.
func (c *Cache) Has(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nits[key]) > 0
}

// Complete reports whether both tables of key hold every point.
func (c *Cache) Complete(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.levelsComplete(key) && len(c.levels[key]) == nitsCount
}

func (c *Cache) levelsComplete(key string) bool {
	return len(c.nits[key]) == levelSteps+1
}

// PreciseKeepHDRPairs returns the levels whose nits land exactly on the SDR
// white level slider grid, sorted by level. Missing points of the level
// table are computed first; a partial build still yields what it cached.
func (c *Cache) PreciseKeepHDRPairs(ctx context.Context, key string) ([]Pair, error) {
	c.mu.RLock()
	complete := c.levelsComplete(key)
	c.mu.RUnlock()

	var buildErr error
	if !complete {
		buildErr = c.BuildLevels(ctx, key)
	}

	c.mu.RLock()
	pairs := make([]Pair, 0, len(c.nits[key]))
	for level, nits := range c.nits[key] {
		if nits < MinNits || nits > MaxNits || math.Mod(nits, NitsStep) != 0 {
			continue
		}
		pairs = append(pairs, Pair{Level: level, Nits: nits})
	}
	c.mu.RUnlock()

	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Level < pairs[j].Level })
	return pairs, buildErr
}

func (c *Cache) get(table map[string]map[float64]float64, key string, x float64) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := table[key][x]
	return v, ok
}

func (c *Cache) putIfAbsent(table map[string]map[float64]float64, key string, x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := table[key]
	if !ok {
		m = make(map[float64]float64)
		table[key] = m
	}
	if _, exists := m[x]; !exists {
		m[x] = y
	}
}

func levelPoints() []float64 {
	pts := make([]float64, 0, levelSteps+1)
	for i := 0; i <= levelSteps; i++ {
		pts = append(pts, float64(i)/levelSteps)
	}
	return pts
}

func nitsPoints() []float64 {
	pts := make([]float64, 0, nitsCount)
	for n := MinNits; n <= MaxNits; n += NitsStep {
		pts = append(pts, float64(n))
	}
	return pts
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
