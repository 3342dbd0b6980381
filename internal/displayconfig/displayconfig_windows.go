//go:build windows

package displayconfig

import (
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var user32 = windows.NewLazySystemDLL("user32.dll")

var (
	procGetDisplayConfigBufferSizes = user32.NewProc("GetDisplayConfigBufferSizes")
	procQueryDisplayConfig          = user32.NewProc("QueryDisplayConfig")
	procDisplayConfigGetDeviceInfo  = user32.NewProc("DisplayConfigGetDeviceInfo")
	procDisplayConfigSetDeviceInfo  = user32.NewProc("DisplayConfigSetDeviceInfo")
)

const (
	qdcOnlyActivePaths = 0x2

	errorSuccess            = 0
	errorInsufficientBuffer = 122

	infoGetSourceName         = 1
	infoGetTargetName         = 2
	infoGetAdvancedColorInfo  = 9
	infoSetAdvancedColorState = 10
	infoGetSDRWhiteLevel      = 11
	infoGetAdvancedColorInfo2 = 15

	// Undocumented; used by the Settings app SDR content brightness slider.
	infoSetSDRWhiteLevel = 0xFFFFFFEE
)

type pathSourceInfo struct {
	adapterID   LUID
	id          uint32
	modeInfoIdx uint32
	statusFlags uint32
}

type pathTargetInfo struct {
	adapterID        LUID
	id               uint32
	modeInfoIdx      uint32
	outputTechnology uint32
	rotation         uint32
	scaling          uint32
	refreshNum       uint32
	refreshDen       uint32
	scanLineOrdering uint32
	targetAvailable  int32
	statusFlags      uint32
}

type pathInfo struct {
	source pathSourceInfo
	target pathTargetInfo
	flags  uint32
}

// modeInfo is DISPLAYCONFIG_MODE_INFO; the union is kept opaque.
type modeInfo struct {
	infoType  uint32
	id        uint32
	adapterID LUID
	union     [6]uint64
}

type deviceInfoHeader struct {
	infoType  uint32
	size      uint32
	adapterID LUID
	id        uint32
}

type sourceDeviceName struct {
	header            deviceInfoHeader
	viewGDIDeviceName [32]uint16
}

type targetDeviceName struct {
	header                    deviceInfoHeader
	flags                     uint32
	outputTechnology          uint32
	edidManufactureID         uint16
	edidProductCodeID         uint16
	connectorInstance         uint32
	monitorFriendlyDeviceName [64]uint16
	monitorDevicePath         [128]uint16
}

type getAdvancedColorInfo struct {
	header              deviceInfoHeader
	value               uint32
	colorEncoding       uint32
	bitsPerColorChannel uint32
}

type getAdvancedColorInfo2 struct {
	header              deviceInfoHeader
	value               uint32
	colorEncoding       uint32
	bitsPerColorChannel uint32
	activeColorMode     uint32
}

type setAdvancedColorState struct {
	header deviceInfoHeader
	value  uint32
}

type sdrWhiteLevel struct {
	header        deviceInfoHeader
	sdrWhiteLevel uint32
}

type setSDRWhiteLevel struct {
	header        deviceInfoHeader
	sdrWhiteLevel uint32
	finalValue    uint8
}

func header(infoType uint32, size uintptr, t Target) deviceInfoHeader {
	return deviceInfoHeader{
		infoType:  infoType,
		size:      uint32(size),
		adapterID: t.AdapterID,
		id:        t.ID,
	}
}

func getDeviceInfo(name string, p unsafe.Pointer) error {
	ret, _, _ := procDisplayConfigGetDeviceInfo.Call(uintptr(p))
	if ret != errorSuccess {
		return fmt.Errorf("DisplayConfigGetDeviceInfo(%s): %w", name, syscall.Errno(ret))
	}
	return nil
}

func setDeviceInfo(name string, p unsafe.Pointer) error {
	ret, _, _ := procDisplayConfigSetDeviceInfo.Call(uintptr(p))
	if ret != errorSuccess {
		return fmt.Errorf("DisplayConfigSetDeviceInfo(%s): %w", name, syscall.Errno(ret))
	}
	return nil
}

// ActivePaths returns every active display path. The buffer sizes can change
// between the size query and the query itself, so that case is retried.
func ActivePaths() ([]Path, error) {
	for {
		var nPaths, nModes uint32
		ret, _, _ := procGetDisplayConfigBufferSizes.Call(
			qdcOnlyActivePaths,
			uintptr(unsafe.Pointer(&nPaths)),
			uintptr(unsafe.Pointer(&nModes)),
		)
		if ret != errorSuccess {
			return nil, fmt.Errorf("GetDisplayConfigBufferSizes: %w", syscall.Errno(ret))
		}
		if nPaths == 0 {
			return nil, nil
		}

		paths := make([]pathInfo, nPaths)
		modes := make([]modeInfo, max(nModes, 1))
		ret, _, _ = procQueryDisplayConfig.Call(
			qdcOnlyActivePaths,
			uintptr(unsafe.Pointer(&nPaths)),
			uintptr(unsafe.Pointer(&paths[0])),
			uintptr(unsafe.Pointer(&nModes)),
			uintptr(unsafe.Pointer(&modes[0])),
			0,
		)
		if ret == errorInsufficientBuffer {
			continue
		}
		if ret != errorSuccess {
			return nil, fmt.Errorf("QueryDisplayConfig: %w", syscall.Errno(ret))
		}

		out := make([]Path, 0, nPaths)
		for _, p := range paths[:nPaths] {
			out = append(out, Path{
				Source: Target{AdapterID: p.source.adapterID, ID: p.source.id},
				Target: Target{AdapterID: p.target.adapterID, ID: p.target.id},
			})
		}
		return out, nil
	}
}

// SourceGDIName returns the GDI device name (e.g. `\\.\DISPLAY1`) of a source.
func SourceGDIName(src Target) (string, error) {
	req := sourceDeviceName{}
	req.header = header(infoGetSourceName, unsafe.Sizeof(req), src)
	if err := getDeviceInfo("source name", unsafe.Pointer(&req)); err != nil {
		return "", err
	}
	return windows.UTF16ToString(req.viewGDIDeviceName[:]), nil
}

// TargetDeviceName returns the monitor friendly name and device interface path.
func TargetDeviceName(t Target) (TargetName, error) {
	req := targetDeviceName{}
	req.header = header(infoGetTargetName, unsafe.Sizeof(req), t)
	if err := getDeviceInfo("target name", unsafe.Pointer(&req)); err != nil {
		return TargetName{}, err
	}
	return TargetName{
		FriendlyName:     windows.UTF16ToString(req.monitorFriendlyDeviceName[:]),
		DevicePath:       windows.UTF16ToString(req.monitorDevicePath[:]),
		OutputTechnology: req.outputTechnology,
	}, nil
}

// GetAdvancedColor reads the advanced color (HDR) state of a target.
func GetAdvancedColor(t Target) (AdvancedColor, error) {
	req := getAdvancedColorInfo{}
	req.header = header(infoGetAdvancedColorInfo, unsafe.Sizeof(req), t)
	if err := getDeviceInfo("advanced color", unsafe.Pointer(&req)); err != nil {
		return AdvancedColor{}, err
	}
	return decodeAdvancedColor(req.value, req.colorEncoding, req.bitsPerColorChannel), nil
}

// GetAdvancedColor2 reads the extended advanced color state. It fails on
// builds older than Windows 11 24H2.
func GetAdvancedColor2(t Target) (AdvancedColor2, error) {
	req := getAdvancedColorInfo2{}
	req.header = header(infoGetAdvancedColorInfo2, unsafe.Sizeof(req), t)
	if err := getDeviceInfo("advanced color 2", unsafe.Pointer(&req)); err != nil {
		return AdvancedColor2{}, err
	}
	return decodeAdvancedColor2(req.value, req.colorEncoding, req.bitsPerColorChannel, req.activeColorMode), nil
}

// GetSDRWhiteLevel returns the SDR white level of a target in nits.
func GetSDRWhiteLevel(t Target) (float64, error) {
	req := sdrWhiteLevel{}
	req.header = header(infoGetSDRWhiteLevel, unsafe.Sizeof(req), t)
	if err := getDeviceInfo("sdr white level", unsafe.Pointer(&req)); err != nil {
		return 0, err
	}
	return SDRLevelToNits(req.sdrWhiteLevel), nil
}

// SetSDRWhiteLevel sets the SDR white level of a target. nits must already be
// clamped to the slider range.
func SetSDRWhiteLevel(t Target, nits int) error {
	req := setSDRWhiteLevel{
		sdrWhiteLevel: NitsToSDRLevel(nits),
		finalValue:    1,
	}
	req.header = header(infoSetSDRWhiteLevel, unsafe.Sizeof(req), t)
	return setDeviceInfo("sdr white level", unsafe.Pointer(&req))
}

// SetAdvancedColorState turns HDR on or off for a target.
func SetAdvancedColorState(t Target, enable bool) error {
	req := setAdvancedColorState{}
	if enable {
		req.value = 1
	}
	req.header = header(infoSetAdvancedColorState, unsafe.Sizeof(req), t)
	return setDeviceInfo("advanced color state", unsafe.Pointer(&req))
}

// API binds the package functions to the interface shape consumed by the
// monitor resolver and the enhancement adapter.
type API struct{}

func (API) ActivePaths() ([]Path, error)                    { return ActivePaths() }
func (API) SourceGDIName(src Target) (string, error)        { return SourceGDIName(src) }
func (API) TargetDeviceName(t Target) (TargetName, error)   { return TargetDeviceName(t) }
func (API) AdvancedColor(t Target) (AdvancedColor, error)   { return GetAdvancedColor(t) }
func (API) AdvancedColor2(t Target) (AdvancedColor2, error) { return GetAdvancedColor2(t) }
func (API) SDRWhiteLevel(t Target) (float64, error)         { return GetSDRWhiteLevel(t) }
func (API) SetSDRWhiteLevel(t Target, nits int) error       { return SetSDRWhiteLevel(t, nits) }
func (API) SetAdvancedColorState(t Target, on bool) error   { return SetAdvancedColorState(t, on) }
