package monitor

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/alex-vit/hdrbright/internal/displayconfig"
)

// PathQuerier is the subset of the DISPLAYCONFIG API the resolver needs.
type PathQuerier interface {
	ActivePaths() ([]displayconfig.Path, error)
	SourceGDIName(src displayconfig.Target) (string, error)
	TargetDeviceName(t displayconfig.Target) (displayconfig.TargetName, error)
}

// Resolver finds the display path backing a window.
type Resolver struct {
	paths     PathQuerier
	gdiNameOf func(hwnd uintptr) (string, bool)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMonitorLookup replaces the window -> GDI device name lookup.
func WithMonitorLookup(fn func(hwnd uintptr) (string, bool)) Option {
	return func(r *Resolver) {
		r.gdiNameOf = fn
	}
}

// NewResolver creates a resolver over the given path source.
func NewResolver(paths PathQuerier, opts ...Option) *Resolver {
	r := &Resolver{
		paths:     paths,
		gdiNameOf: windowMonitorName,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolvePath returns the active path whose source is the monitor nearest to
// hwnd, together with that monitor's GDI name.
func (r *Resolver) ResolvePath(hwnd uintptr) (displayconfig.Path, string, bool) {
	gdiName, ok := r.gdiNameOf(hwnd)
	if !ok || gdiName == "" {
		return displayconfig.Path{}, "", false
	}
	paths, err := r.paths.ActivePaths()
	if err != nil {
		log.Debug().Err(err).Msg("monitor: query active paths failed")
		return displayconfig.Path{}, "", false
	}
	for _, p := range paths {
		name, err := r.paths.SourceGDIName(p.Source)
		if err != nil {
			log.Debug().Err(err).Uint32("source", p.Source.ID).Msg("monitor: source name failed")
			continue
		}
		if strings.EqualFold(name, gdiName) {
			return p, gdiName, true
		}
	}
	return displayconfig.Path{}, "", false
}

// ResolveInterfacePath returns the device interface path of the monitor
// hosting hwnd.
func (r *Resolver) ResolveInterfacePath(hwnd uintptr) (string, bool) {
	id, ok := r.Resolve(hwnd)
	return id.InterfacePath, ok
}

// Resolve returns the full identity of the monitor hosting hwnd.
func (r *Resolver) Resolve(hwnd uintptr) (Identity, bool) {
	p, gdiName, ok := r.ResolvePath(hwnd)
	if !ok {
		return Identity{}, false
	}
	name, err := r.paths.TargetDeviceName(p.Target)
	if err != nil || name.DevicePath == "" {
		log.Debug().Err(err).Uint32("target", p.Target.ID).Msg("monitor: target name failed")
		return Identity{}, false
	}
	id := Identity{
		InterfacePath: name.DevicePath,
		GDIName:       gdiName,
		FriendlyName:  name.FriendlyName,
		Path:          p,
	}
	id.WMIInstanceName, _ = ToWMIInstanceName(name.DevicePath)
	return id, true
}
