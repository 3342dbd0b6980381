//go:build !windows

package monitor

func windowMonitorName(uintptr) (string, bool) {
	return "", false
}
