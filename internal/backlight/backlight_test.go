package backlight_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alex-vit/hdrbright/internal/backlight"
)

type fakePanel struct {
	level  int
	sticky bool // writes take effect
	sets   []int
	err    error
}

func (p *fakePanel) Brightness() (int, error) { return p.level, p.err }

func (p *fakePanel) SetBrightness(level int) error {
	p.sets = append(p.sets, level)
	if p.sticky {
		p.level = level
	}
	return nil
}

type enumerator struct {
	batches [][]backlight.Panel
	calls   int
}

func (e *enumerator) enumerate() ([]backlight.Panel, error) {
	if e.calls >= len(e.batches) {
		return nil, errors.New("no more monitors")
	}
	b := e.batches[e.calls]
	e.calls++
	return b, nil
}

func TestDDCSetAllAndVerify(t *testing.T) {
	a := &fakePanel{level: 30, sticky: true}
	b := &fakePanel{level: 30, sticky: true}
	e := &enumerator{batches: [][]backlight.Panel{{a, b}}}
	d := backlight.NewDDC(e.enumerate)

	require.NoError(t, d.Set(60))
	assert.Equal(t, []int{60}, a.sets)
	assert.Equal(t, []int{60}, b.sets)
	assert.Equal(t, 1, e.calls)
}

func TestDDCGetSingleMonitor(t *testing.T) {
	e := &enumerator{batches: [][]backlight.Panel{{&fakePanel{level: 60}}}}
	d := backlight.NewDDC(e.enumerate)

	got, err := d.Get()
	require.NoError(t, err)
	assert.Equal(t, uint8(60), got)
}

func TestDDCGetSeveralMonitorsIsUnknown(t *testing.T) {
	internal := &fakePanel{level: 80, sticky: true}
	external := &fakePanel{level: 20, sticky: true}
	e := &enumerator{batches: [][]backlight.Panel{{internal, external}}}
	d := backlight.NewDDC(e.enumerate)

	_, err := d.Get()
	assert.ErrorIs(t, err, backlight.ErrAmbiguous, "one monitor's value must not be reported for another")

	require.NoError(t, d.Set(50))
	_, err = d.Get()
	assert.ErrorIs(t, err, backlight.ErrAmbiguous)
}

func TestDDCZeroReadFindsSeveralMonitors(t *testing.T) {
	e := &enumerator{batches: [][]backlight.Panel{{&fakePanel{}}, {&fakePanel{level: 45}, &fakePanel{level: 70}}}}
	d := backlight.NewDDC(e.enumerate)

	_, err := d.Get()
	assert.ErrorIs(t, err, backlight.ErrAmbiguous)
}

func TestDDCStaleHandleRetries(t *testing.T) {
	stale := &fakePanel{level: 30}
	fresh := &fakePanel{level: 30, sticky: true}
	e := &enumerator{batches: [][]backlight.Panel{{stale}, {fresh}}}
	d := backlight.NewDDC(e.enumerate)

	require.NoError(t, d.Set(70))
	assert.Equal(t, []int{70}, stale.sets)
	assert.Equal(t, []int{70}, fresh.sets)
	assert.Equal(t, 2, e.calls)
}

func TestDDCZeroReadReenumerates(t *testing.T) {
	e := &enumerator{batches: [][]backlight.Panel{{&fakePanel{}}, {&fakePanel{level: 45}}}}
	d := backlight.NewDDC(e.enumerate)

	got, err := d.Get()
	require.NoError(t, err)
	assert.Equal(t, uint8(45), got)
}

func TestDDCNoPanels(t *testing.T) {
	d := backlight.NewDDC(func() ([]backlight.Panel, error) { return nil, nil })
	_, err := d.Get()
	assert.ErrorIs(t, err, backlight.ErrNoPanels)
	assert.ErrorIs(t, d.Set(10), backlight.ErrNoPanels)
}

type fakeSession struct {
	instances map[string]uint8
}

func (s *fakeSession) Supports(instance string) bool {
	_, ok := s.instances[instance]
	return ok
}

func (s *fakeSession) CurrentBrightness(instance string) (uint8, error) {
	return s.instances[instance], nil
}

func (s *fakeSession) SetBrightness(instance string, percent uint8) error {
	s.instances[instance] = percent
	return nil
}

func TestSelect(t *testing.T) {
	s := &fakeSession{instances: map[string]uint8{`DISPLAY\BOE0A1B\1`: 40}}
	ddc := backlight.NewDDC(func() ([]backlight.Panel, error) { return nil, nil })

	b := backlight.Select(`DISPLAY\BOE0A1B\1`, s, ddc)
	require.IsType(t, backlight.WMI{}, b)
	require.NoError(t, b.Set(150))
	got, err := b.Get()
	require.NoError(t, err)
	assert.Equal(t, uint8(100), got, "percent is clamped")

	assert.Same(t, ddc, backlight.Select(`DISPLAY\DEL4098\1`, s, ddc))
	assert.Same(t, ddc, backlight.Select(`DISPLAY\BOE0A1B\1`, nil, ddc))
}
