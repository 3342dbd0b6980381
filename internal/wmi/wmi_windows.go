//go:build windows

package wmi

import (
	"context"
	"errors"
	"fmt"
	"time"

	ole "github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/alex-vit/hdrbright/internal/com"
	"github.com/alex-vit/hdrbright/internal/monitor"
)

const (
	namespace = `root\WMI`

	wbemErrTimedOut = 0x80043001
)

func connect() (*ole.IDispatch, error) {
	unknown, err := oleutil.CreateObject("WbemScripting.SWbemLocator")
	if err != nil {
		return nil, fmt.Errorf("CreateObject(SWbemLocator): %w", err)
	}
	defer unknown.Release()

	locator, err := unknown.QueryInterface(ole.IID_IDispatch)
	if err != nil {
		return nil, fmt.Errorf("QueryInterface IDispatch: %w", err)
	}
	defer locator.Release()

	v, err := oleutil.CallMethod(locator, "ConnectServer", nil, namespace)
	if err != nil {
		return nil, fmt.Errorf("ConnectServer(%s): %w", namespace, err)
	}
	return v.ToIDispatch(), nil
}

func isTimeout(err error) bool {
	var oleErr *ole.OleError
	if !errors.As(err, &oleErr) {
		return false
	}
	if uint32(oleErr.Code()) == wbemErrTimedOut {
		return true
	}
	switch info := oleErr.SubError().(type) {
	case ole.EXCEPINFO:
		return info.SCODE() == wbemErrTimedOut
	case *ole.EXCEPINFO:
		return info.SCODE() == wbemErrTimedOut
	}
	return false
}

func toUint8(v any) uint8 {
	switch n := v.(type) {
	case uint8:
		return n
	case int8:
		return uint8(n)
	case int16:
		return uint8(n)
	case uint16:
		return uint8(n)
	case int32:
		return uint8(n)
	case uint32:
		return uint8(n)
	case int64:
		return uint8(n)
	case uint64:
		return uint8(n)
	}
	return 0
}

func stringProp(obj *ole.IDispatch, name string) (string, error) {
	v, err := oleutil.GetProperty(obj, name)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	defer v.Clear()
	return v.ToString(), nil
}

func anyProp(obj *ole.IDispatch, name string) (any, error) {
	v, err := oleutil.GetProperty(obj, name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	defer v.Clear()
	return v.Value(), nil
}

// eventSource reads WmiMonitorBrightnessEvent on its own apartment thread.
type eventSource struct {
	apt *com.Apartment
	svc *ole.IDispatch
	src *ole.IDispatch
}

func openBrightnessEvents() (EventSource, error) {
	apt, err := com.NewMTA()
	if err != nil {
		return nil, err
	}
	es := &eventSource{apt: apt}
	err = apt.Do(context.Background(), func() error {
		svc, err := connect()
		if err != nil {
			return err
		}
		es.svc = svc
		v, err := oleutil.CallMethod(svc, "ExecNotificationQuery", "SELECT * FROM WmiMonitorBrightnessEvent")
		if err != nil {
			return fmt.Errorf("ExecNotificationQuery: %w", err)
		}
		es.src = v.ToIDispatch()
		return nil
	})
	if err != nil {
		es.Close()
		return nil, err
	}
	return es, nil
}

func (e *eventSource) Next(timeout time.Duration) (Event, bool, error) {
	var (
		ev Event
		ok bool
	)
	err := e.apt.Do(context.Background(), func() error {
		v, err := oleutil.CallMethod(e.src, "NextEvent", int32(timeout.Milliseconds()))
		if err != nil {
			if isTimeout(err) {
				return nil
			}
			return fmt.Errorf("NextEvent: %w", err)
		}
		obj := v.ToIDispatch()
		defer obj.Release()

		if ev.InstanceName, err = stringProp(obj, "InstanceName"); err != nil {
			return err
		}
		b, err := anyProp(obj, "Brightness")
		if err != nil {
			return err
		}
		ev.Brightness = toUint8(b)
		ok = true
		return nil
	})
	return ev, ok, err
}

func (e *eventSource) Close() {
	_ = e.apt.Do(context.Background(), func() error {
		if e.src != nil {
			e.src.Release()
		}
		if e.svc != nil {
			e.svc.Release()
		}
		e.src, e.svc = nil, nil
		return nil
	})
	e.apt.Close()
}

// Session is a root\WMI connection for reading and setting the backlight of
// internal panels.
type Session struct {
	apt *com.Apartment
	svc *ole.IDispatch
}

// Connect opens a session on a dedicated apartment thread.
func Connect() (*Session, error) {
	apt, err := com.NewMTA()
	if err != nil {
		return nil, err
	}
	s := &Session{apt: apt}
	err = apt.Do(context.Background(), func() error {
		svc, err := connect()
		s.svc = svc
		return err
	})
	if err != nil {
		apt.Close()
		return nil, err
	}
	return s, nil
}

// each runs fn for every object returned by query.
func (s *Session) each(query string, fn func(obj *ole.IDispatch) error) error {
	return s.apt.Do(context.Background(), func() error {
		v, err := oleutil.CallMethod(s.svc, "ExecQuery", query)
		if err != nil {
			return fmt.Errorf("ExecQuery(%s): %w", query, err)
		}
		set := v.ToIDispatch()
		defer set.Release()

		return oleutil.ForEach(set, func(item *ole.VARIANT) error {
			obj := item.ToIDispatch()
			defer obj.Release()
			return fn(obj)
		})
	})
}

// Readings lists every WmiMonitorBrightness instance.
func (s *Session) Readings() ([]Reading, error) {
	var out []Reading
	err := s.each("SELECT InstanceName, CurrentBrightness, Active FROM WmiMonitorBrightness", func(obj *ole.IDispatch) error {
		name, err := stringProp(obj, "InstanceName")
		if err != nil {
			return err
		}
		cur, err := anyProp(obj, "CurrentBrightness")
		if err != nil {
			return err
		}
		active, _ := anyProp(obj, "Active")
		b, _ := active.(bool)
		out = append(out, Reading{InstanceName: name, Percent: toUint8(cur), Active: b})
		return nil
	})
	return out, err
}

// Supports reports whether instance exposes WMI brightness control.
func (s *Session) Supports(instance string) bool {
	readings, err := s.Readings()
	if err != nil {
		return false
	}
	_, ok := FindReading(readings, instance)
	return ok
}

// CurrentBrightness returns the backlight percentage of instance.
func (s *Session) CurrentBrightness(instance string) (uint8, error) {
	readings, err := s.Readings()
	if err != nil {
		return 0, err
	}
	r, ok := FindReading(readings, instance)
	if !ok {
		return 0, fmt.Errorf("%s: %w", instance, ErrNoInstance)
	}
	return r.Percent, nil
}

// SetBrightness sets the backlight percentage of instance.
func (s *Session) SetBrightness(instance string, percent uint8) error {
	found := false
	err := s.each("SELECT * FROM WmiMonitorBrightnessMethods", func(obj *ole.IDispatch) error {
		name, err := stringProp(obj, "InstanceName")
		if err != nil || !monitor.SameInstance(name, instance) {
			return err
		}
		found = true
		if _, err := oleutil.CallMethod(obj, "WmiSetBrightness", int32(1), int32(min(percent, 100))); err != nil {
			return fmt.Errorf("WmiSetBrightness: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s: %w", instance, ErrNoInstance)
	}
	return nil
}

// Close releases the connection.
func (s *Session) Close() {
	_ = s.apt.Do(context.Background(), func() error {
		if s.svc != nil {
			s.svc.Release()
			s.svc = nil
		}
		return nil
	})
	s.apt.Close()
}
