//go:build windows

package main

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"github.com/lxn/win"
	"github.com/rs/zerolog/log"

	"github.com/alex-vit/hdrbright/internal/engine"
)

var modShell32 = syscall.NewLazyDLL("shell32.dll")
var procSHAppBarMessage = modShell32.NewProc("SHAppBarMessage")

const (
	wmShowSlider = win.WM_APP + 1
	wmSyncSlider = win.WM_APP + 2

	tbmGetPos      = win.WM_USER
	tbmSetPos      = win.WM_USER + 5
	tbmSetRange    = win.WM_USER + 6
	tbmSetPageSize = win.WM_USER + 21

	tbsHorz    = 0x0000
	tbsNoTicks = 0x0010
	ssRight    = 0x0002

	abmGetTaskbarPos = 5

	// Win32 colors are 0x00BBGGRR.
	sliderBgColor   = 0x00202020
	sliderTextColor = 0x00DEDEDE
)

type appBarData struct {
	CbSize           uint32
	HWND             uintptr
	UCallbackMessage uint32
	UEdge            uint32
	Rc               sliderRect
	LParam           int32
}

var (
	sliderHWND      win.HWND
	sliderTrackHWND win.HWND
	sliderNitsHWND  win.HWND
	sliderInfoHWND  win.HWND
	sliderReady     = make(chan struct{})
	sliderBgBrush   win.HBRUSH
	sliderDragging  bool
	sliderEngine    *engine.Engine

	sliderInfoMu sync.Mutex
	sliderInfo   string
	sliderNotice notice
)

// runSlider owns the popup window for the life of the process. The popup's
// HWND is the window whose monitor the engine follows, so moving it to
// another monitor retargets everything.
func runSlider(eng *engine.Engine) {
	runtime.LockOSThread()

	sliderEngine = eng

	icc := win.INITCOMMONCONTROLSEX{DwICC: win.ICC_BAR_CLASSES}
	icc.DwSize = uint32(unsafe.Sizeof(icc))
	win.InitCommonControlsEx(&icc)

	hInst := win.GetModuleHandle(nil)
	sliderBgBrush = win.CreateBrushIndirect(&win.LOGBRUSH{LbStyle: win.BS_SOLID, LbColor: sliderBgColor})

	className, _ := syscall.UTF16PtrFromString("HdrBrightSlider")
	wc := win.WNDCLASSEX{
		LpfnWndProc:   syscall.NewCallback(sliderWndProc),
		HInstance:     hInst,
		HCursor:       win.LoadCursor(0, win.MAKEINTRESOURCE(win.IDC_ARROW)),
		HbrBackground: sliderBgBrush,
		LpszClassName: className,
	}
	wc.CbSize = uint32(unsafe.Sizeof(wc))
	if win.RegisterClassEx(&wc) == 0 {
		log.Error().Msg("slider: RegisterClassEx failed")
		return
	}

	empty, _ := syscall.UTF16PtrFromString("")
	title, _ := syscall.UTF16PtrFromString("hdrbright")
	sliderHWND = win.CreateWindowEx(
		win.WS_EX_TOOLWINDOW|win.WS_EX_TOPMOST,
		className, title,
		win.WS_POPUP|win.WS_BORDER,
		-1000, -1000, sliderW, sliderH,
		0, 0, hInst, nil,
	)
	if sliderHWND == 0 {
		log.Error().Msg("slider: CreateWindowEx failed")
		return
	}

	staticClass, _ := syscall.UTF16PtrFromString("STATIC")
	trackbarClass, _ := syscall.UTF16PtrFromString("msctls_trackbar32")
	label, _ := syscall.UTF16PtrFromString("SDR content brightness")

	win.CreateWindowEx(0, staticClass, label, win.WS_CHILD|win.WS_VISIBLE,
		8, 8, 180, 16, sliderHWND, 0, hInst, nil)
	sliderNitsHWND = win.CreateWindowEx(0, staticClass, empty, win.WS_CHILD|win.WS_VISIBLE|ssRight,
		190, 8, 82, 16, sliderHWND, 0, hInst, nil)
	sliderTrackHWND = win.CreateWindowEx(0, trackbarClass, empty, win.WS_CHILD|win.WS_VISIBLE|tbsHorz|tbsNoTicks,
		8, 28, 264, 30, sliderHWND, 0, hInst, nil)
	sliderInfoHWND = win.CreateWindowEx(0, staticClass, empty, win.WS_CHILD|win.WS_VISIBLE,
		8, 66, 264, 16, sliderHWND, 0, hInst, nil)

	win.SendMessage(sliderTrackHWND, tbmSetRange, 1, uintptr(sliderSteps)<<16)
	// Page clicks move 40 nits.
	win.SendMessage(sliderTrackHWND, tbmSetPageSize, 0, 10)

	eng.SetWindow(uintptr(sliderHWND))
	close(sliderReady)
	eng.RequestRefresh()

	var m win.MSG
	for win.GetMessage(&m, 0, 0, 0) > 0 {
		win.TranslateMessage(&m)
		win.DispatchMessage(&m)
	}
}

func sliderWndProc(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
	switch msg {
	case wmSyncSlider:
		setText(sliderInfoHWND, currentSliderInfo())
		if !sliderDragging {
			win.SendMessage(sliderTrackHWND, tbmSetPos, 1, wParam)
			setText(sliderNitsHWND, nitsLabel(int(wParam)))
		}
		return 0
	case wmShowSlider:
		x := int32(int16(lParam & 0xFFFF))
		y := int32(int16((lParam >> 16) & 0xFFFF))
		positionAndShow(hwnd, x, y)
		return 0
	case win.WM_CTLCOLORSTATIC:
		win.SetTextColor(win.HDC(wParam), sliderTextColor)
		win.SetBkColor(win.HDC(wParam), sliderBgColor)
		return uintptr(sliderBgBrush)
	case win.WM_ACTIVATE:
		if wParam&0xFFFF == win.WA_INACTIVE {
			win.ShowWindow(hwnd, win.SW_HIDE)
		}
		return 0
	case win.WM_MOVE, win.WM_DISPLAYCHANGE:
		sliderEngine.RequestRefresh()
	case win.WM_HSCROLL:
		pos := int(win.SendMessage(sliderTrackHWND, tbmGetPos, 0, 0))
		setText(sliderNitsHWND, nitsLabel(pos))
		switch wParam & 0xFFFF {
		case win.SB_THUMBTRACK:
			sliderDragging = true
			sliderEngine.SetSDRNits(float64(nitsForPosition(pos)))
		case win.SB_ENDSCROLL:
			sliderDragging = false
			sliderEngine.SetSDRNits(float64(nitsForPosition(pos)))
		}
		return 0
	case win.WM_DESTROY:
		win.PostQuitMessage(0)
		return 0
	}
	return win.DefWindowProc(hwnd, msg, wParam, lParam)
}

func nitsLabel(pos int) string {
	return fmt.Sprintf("%d nits", nitsForPosition(pos))
}

func setText(hwnd win.HWND, s string) {
	text, _ := syscall.UTF16PtrFromString(s)
	win.SendMessage(hwnd, win.WM_SETTEXT, 0, uintptr(unsafe.Pointer(text)))
}

func currentSliderInfo() string {
	sliderInfoMu.Lock()
	info := sliderInfo
	sliderInfoMu.Unlock()
	return sliderNotice.info(info, time.Now())
}

// flashSlider shows the popup with text as its status line for a few
// seconds.
func flashSlider(text string) {
	sliderNotice.set(text, 4*time.Second, time.Now())
	showSlider()
}

func positionAndShow(hwnd win.HWND, cursorX, cursorY int32) {
	pos := positionForNits(sliderEngine.Snapshot().SDRNits())
	win.SendMessage(sliderTrackHWND, tbmSetPos, 1, uintptr(pos))
	setText(sliderNitsHWND, nitsLabel(pos))
	setText(sliderInfoHWND, currentSliderInfo())

	var taskbar *sliderRect
	abd := appBarData{CbSize: uint32(unsafe.Sizeof(appBarData{}))}
	if ret, _, _ := procSHAppBarMessage.Call(abmGetTaskbarPos, uintptr(unsafe.Pointer(&abd))); ret != 0 {
		taskbar = &abd.Rc
	}
	screenW := win.GetSystemMetrics(win.SM_CXSCREEN)
	screenH := win.GetSystemMetrics(win.SM_CYSCREEN)
	x, y := sliderPosition(cursorX, cursorY, taskbar, screenW, screenH)

	win.MoveWindow(hwnd, x, y, sliderW, sliderH, true)
	win.SetForegroundWindow(hwnd)
	win.ShowWindow(hwnd, win.SW_SHOW)
}

// syncSlider pushes a snapshot to the popup so it updates while on screen.
// Safe to call from any goroutine.
func syncSlider(snap engine.Snapshot, info string) {
	select {
	case <-sliderReady:
	default:
		return
	}
	sliderInfoMu.Lock()
	sliderInfo = info
	sliderInfoMu.Unlock()
	win.PostMessage(sliderHWND, wmSyncSlider, uintptr(positionForNits(snap.SDRNits())), 0)
}

func showSlider() {
	<-sliderReady
	var pt win.POINT
	win.GetCursorPos(&pt)
	lp := uintptr(uint16(pt.X)) | uintptr(uint16(pt.Y))<<16
	win.PostMessage(sliderHWND, wmShowSlider, 0, lp)
}

func closeSlider() {
	select {
	case <-sliderReady:
		win.PostMessage(sliderHWND, win.WM_CLOSE, 0, 0)
	default:
	}
}
