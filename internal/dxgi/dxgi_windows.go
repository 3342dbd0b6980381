//go:build windows

package dxgi

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"

	"github.com/alex-vit/hdrbright/internal/com"
)

var procCreateDXGIFactory1 = windows.NewLazySystemDLL("dxgi.dll").NewProc("CreateDXGIFactory1")

var (
	iidIDXGIFactory1 = ole.NewGUID("{770AAE78-F26F-4DBA-A829-253C83D1B387}")
	iidIDXGIOutput6  = ole.NewGUID("{068346E8-AAEC-4B84-ADD7-137F513F77A1}")
)

const (
	factoryEnumAdapters1 = 12 // IDXGIFactory1
	adapterEnumOutputs   = 7  // IDXGIAdapter
	output6GetDesc1      = 27 // IDXGIOutput6

	errNotFound = 0x887A0002 // DXGI_ERROR_NOT_FOUND
)

// outputDesc1 matches DXGI_OUTPUT_DESC1.
type outputDesc1 struct {
	deviceName            [32]uint16
	left, top             int32
	right, bottom         int32
	attachedToDesktop     int32
	rotation              uint32
	monitor               uintptr
	bitsPerColor          uint32
	colorSpace            uint32
	redPrimary            [2]float32
	greenPrimary          [2]float32
	bluePrimary           [2]float32
	whitePoint            [2]float32
	minLuminance          float32
	maxLuminance          float32
	maxFullFrameLuminance float32
}

func chroma(p [2]float32) Chromaticity {
	return Chromaticity{X: float64(p[0]), Y: float64(p[1])}
}

func isNotFound(err error) bool {
	var hr com.HRESULT
	return errors.As(err, &hr) && hr == errNotFound
}

// Outputs describes every desktop-attached output on every adapter.
func Outputs() ([]OutputDesc, error) {
	var factory uintptr
	hr, _, _ := procCreateDXGIFactory1.Call(
		uintptr(unsafe.Pointer(iidIDXGIFactory1)),
		uintptr(unsafe.Pointer(&factory)),
	)
	if int32(hr) < 0 {
		return nil, fmt.Errorf("CreateDXGIFactory1: %w", com.HRESULT(hr))
	}
	defer com.Release(factory)

	var out []OutputDesc
	for a := 0; ; a++ {
		var adapter uintptr
		if err := com.Call(factory, factoryEnumAdapters1, uintptr(a), uintptr(unsafe.Pointer(&adapter))); err != nil {
			if isNotFound(err) {
				return out, nil
			}
			return out, fmt.Errorf("EnumAdapters1(%d): %w", a, err)
		}
		descs, err := adapterOutputs(adapter)
		com.Release(adapter)
		if err != nil {
			return out, err
		}
		out = append(out, descs...)
	}
}

func adapterOutputs(adapter uintptr) ([]OutputDesc, error) {
	var out []OutputDesc
	for o := 0; ; o++ {
		var output uintptr
		if err := com.Call(adapter, adapterEnumOutputs, uintptr(o), uintptr(unsafe.Pointer(&output))); err != nil {
			if isNotFound(err) {
				return out, nil
			}
			return out, fmt.Errorf("EnumOutputs(%d): %w", o, err)
		}
		desc, ok, err := describe(output)
		com.Release(output)
		if err != nil {
			return out, err
		}
		if ok {
			out = append(out, desc)
		}
	}
}

func describe(output uintptr) (OutputDesc, bool, error) {
	output6, err := com.QueryInterface(output, iidIDXGIOutput6)
	if err != nil {
		// Pre-1803 runtimes have no IDXGIOutput6; treat as no data.
		return OutputDesc{}, false, nil
	}
	defer com.Release(output6)

	var d outputDesc1
	if err := com.Call(output6, output6GetDesc1, uintptr(unsafe.Pointer(&d))); err != nil {
		return OutputDesc{}, false, fmt.Errorf("IDXGIOutput6::GetDesc1: %w", err)
	}
	if d.attachedToDesktop == 0 {
		return OutputDesc{}, false, nil
	}
	return OutputDesc{
		DeviceName:            windows.UTF16ToString(d.deviceName[:]),
		BitsPerColor:          d.bitsPerColor,
		ColorSpace:            d.colorSpace,
		Red:                   chroma(d.redPrimary),
		Green:                 chroma(d.greenPrimary),
		Blue:                  chroma(d.bluePrimary),
		White:                 chroma(d.whitePoint),
		MinLuminance:          float64(d.minLuminance),
		MaxLuminance:          float64(d.maxLuminance),
		MaxFullFrameLuminance: float64(d.maxFullFrameLuminance),
	}, true, nil
}

// Describe returns the descriptor of the output attached as gdiName.
func Describe(gdiName string) (OutputDesc, error) {
	outputs, err := Outputs()
	for _, d := range outputs {
		if strings.EqualFold(d.DeviceName, gdiName) {
			return d, nil
		}
	}
	if err != nil {
		return OutputDesc{}, err
	}
	return OutputDesc{}, fmt.Errorf("%s: %w", gdiName, ErrNotFound)
}

// API binds Describe to the interface consumed by the enhancement adapter.
type API struct{}

func (API) OutputDesc(gdiName string) (OutputDesc, error) { return Describe(gdiName) }
