//go:build windows

package monitor

import (
	"unsafe"

	"github.com/lxn/win"
	"golang.org/x/sys/windows"
)

var procIsWindow = windows.NewLazySystemDLL("user32.dll").NewProc("IsWindow")

// isWindow reports whether hwnd names an existing window; lxn/win does not
// bind IsWindow.
func isWindow(hwnd uintptr) bool {
	ret, _, _ := procIsWindow.Call(hwnd)
	return ret != 0
}

// monitorInfoEx is MONITORINFOEXW; lxn/win only declares the base struct.
type monitorInfoEx struct {
	win.MONITORINFO
	device [32]uint16
}

func windowMonitorName(hwnd uintptr) (string, bool) {
	if hwnd == 0 || !isWindow(hwnd) {
		return "", false
	}
	hmon := win.MonitorFromWindow(win.HWND(hwnd), win.MONITOR_DEFAULTTONEAREST)
	if hmon == 0 {
		return "", false
	}
	var mi monitorInfoEx
	mi.CbSize = uint32(unsafe.Sizeof(mi))
	if !win.GetMonitorInfo(hmon, &mi.MONITORINFO) {
		return "", false
	}
	return windows.UTF16ToString(mi.device[:]), true
}
