//go:build windows

package main

import (
	"context"
	"errors"
	"sync"

	"github.com/lxn/win"

	"github.com/alex-vit/hdrbright/internal/brightness"
	"github.com/alex-vit/hdrbright/internal/engine"
	"github.com/alex-vit/hdrbright/internal/enhance"
	"github.com/alex-vit/hdrbright/internal/platform"
)

type windowsBackend struct {
	stack *platform.Stack
}

func openBackend() (backend, error) {
	s, err := platform.Open(nil)
	if err != nil {
		return nil, err
	}
	return &windowsBackend{stack: s}, nil
}

func (b *windowsBackend) HDRStatus() ([]enhance.HDRStatus, error) { return b.stack.Adapter.HDRStatus() }

func (b *windowsBackend) Certifications(path string) []string {
	return b.stack.Adapter.HDRCertifications(path)
}

func (b *windowsBackend) SetSDRWhiteLevel(hwnd uintptr, nits float64) bool {
	return b.stack.Adapter.SetSDRWhiteLevelNits(hwnd, nits)
}

func (b *windowsBackend) SetGlobalHDR(on bool) enhance.HDRSwitchResult {
	return b.stack.Adapter.SetGlobalHDR(on)
}

func (b *windowsBackend) ForegroundWindow() uintptr { return uintptr(win.GetForegroundWindow()) }

// Snapshot runs an engine until it publishes its first snapshot.
func (b *windowsBackend) Snapshot(ctx context.Context, hwnd uintptr) (engine.Snapshot, error) {
	eng := b.stack.NewEngine()
	eng.SetWindow(hwnd)

	got := make(chan engine.Snapshot, 1)
	var once sync.Once
	sub := eng.Subscribe(func(s engine.Snapshot) {
		once.Do(func() { got <- s })
	})
	defer sub.Unsubscribe()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go eng.Run(ctx)
	defer eng.Close()

	select {
	case s := <-got:
		return s, nil
	case <-ctx.Done():
		return engine.Snapshot{}, ctx.Err()
	}
}

func (b *windowsBackend) Pairs(ctx context.Context, hwnd uintptr) ([]brightness.Pair, error) {
	id, ok := b.stack.Resolver.Resolve(hwnd)
	if !ok || id.WMIInstanceName == "" {
		return nil, errors.New("window is not on an active monitor")
	}
	return b.stack.Cache.PreciseKeepHDRPairs(ctx, id.WMIInstanceName)
}

func (b *windowsBackend) Close() { b.stack.Close() }
