//go:build !windows

package wmi

import "errors"

func openBrightnessEvents() (EventSource, error) {
	return nil, errors.New("wmi: not available on this platform")
}
