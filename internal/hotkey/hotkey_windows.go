//go:build windows

package hotkey

import (
	"context"
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

var user32 = windows.NewLazySystemDLL("user32.dll")

var (
	procRegisterHotKey    = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey  = user32.NewProc("UnregisterHotKey")
	procGetMessageW       = user32.NewProc("GetMessageW")
	procPostThreadMessage = user32.NewProc("PostThreadMessageW")
)

const (
	wmQuit   = 0x0012
	wmHotkey = 0x0312
)

type msg struct {
	hwnd    uintptr
	message uint32
	wParam  uintptr
	lParam  uintptr
	time    uint32
	pt      [2]int32
}

// Listen registers hotkeys and runs fn(id) on its own OS thread whenever one
// fires. id is the index into hotkeys. Listen blocks until ctx is done. A
// registration failure is returned after ctx is done, the remaining hotkeys
// still work. Entries with VK 0 are skipped.
func Listen(ctx context.Context, hotkeys []Hotkey, fn func(id int)) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var firstErr error
	for i, hk := range hotkeys {
		if hk.VK == 0 {
			continue
		}
		ret, _, err := procRegisterHotKey.Call(0, uintptr(i+1), uintptr(hk.Mod|modNoRepeat), uintptr(hk.VK))
		if ret == 0 && firstErr == nil {
			firstErr = fmt.Errorf("RegisterHotKey(mod=0x%x, vk=0x%x): %w", hk.Mod, hk.VK, err)
		}
	}
	defer func() {
		for i := range hotkeys {
			procUnregisterHotKey.Call(0, uintptr(i+1))
		}
	}()

	tid := windows.GetCurrentThreadId()
	stop := context.AfterFunc(ctx, func() {
		procPostThreadMessage.Call(uintptr(tid), wmQuit, 0, 0)
	})
	defer stop()

	var m msg
	for {
		// 0 on WM_QUIT, -1 on error.
		ret, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&m)), 0, 0, 0)
		if int32(ret) <= 0 {
			break
		}
		if m.message == wmHotkey {
			id := int(m.wParam) - 1
			if id >= 0 && id < len(hotkeys) {
				fn(id)
			}
		}
	}
	return firstErr
}
