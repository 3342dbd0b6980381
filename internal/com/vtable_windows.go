//go:build windows

package com

import (
	"fmt"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

var procRoUninitialize = windows.NewLazySystemDLL("combase.dll").NewProc("RoUninitialize")

// HRESULT is a failed COM return code.
type HRESULT uint32

func (h HRESULT) Error() string {
	return fmt.Sprintf("HRESULT 0x%08X", uint32(h))
}

// Call invokes method idx of the COM interface obj (a pointer to a vtable
// pointer) and converts a failing HRESULT into an error.
func Call(obj uintptr, idx int, args ...uintptr) error {
	if obj == 0 {
		return fmt.Errorf("vtable[%d]: nil interface", idx)
	}
	vtbl := *(*uintptr)(unsafe.Pointer(obj))
	fn := *(*uintptr)(unsafe.Pointer(vtbl + uintptr(idx)*unsafe.Sizeof(uintptr(0))))

	all := make([]uintptr, 0, 1+len(args))
	all = append(all, obj)
	all = append(all, args...)
	ret, _, _ := syscall.SyscallN(fn, all...)
	if int32(ret) < 0 {
		return fmt.Errorf("vtable[%d]: %w", idx, HRESULT(ret))
	}
	return nil
}

// Release calls IUnknown::Release on a non-nil interface.
func Release(obj uintptr) {
	if obj == 0 {
		return
	}
	vtbl := *(*uintptr)(unsafe.Pointer(obj))
	fn := *(*uintptr)(unsafe.Pointer(vtbl + 2*unsafe.Sizeof(uintptr(0))))
	syscall.SyscallN(fn, obj)
}

// QueryInterface returns obj's implementation of iid. The caller owns the
// returned reference.
func QueryInterface(obj uintptr, iid *ole.GUID) (uintptr, error) {
	var out uintptr
	if err := Call(obj, 0, uintptr(unsafe.Pointer(iid)), uintptr(unsafe.Pointer(&out))); err != nil {
		return 0, fmt.Errorf("QueryInterface(%s): %w", iid, err)
	}
	return out, nil
}

// ActivationFactory returns the WinRT activation factory of class, queried
// for iid.
func ActivationFactory(class string, iid *ole.GUID) (uintptr, error) {
	f, err := ole.RoGetActivationFactory(class, iid)
	if err != nil {
		return 0, fmt.Errorf("RoGetActivationFactory(%s): %w", class, err)
	}
	return uintptr(unsafe.Pointer(f)), nil
}

// NewMTA starts an apartment thread joined to the multithreaded apartment.
// While it lives, every other thread in the process is implicitly MTA, so
// agile objects created here may be called from any goroutine.
func NewMTA() (*Apartment, error) {
	return NewApartment(func() error {
		if err := ole.CoInitializeEx(0, ole.COINIT_MULTITHREADED); err != nil && !alreadyInitialized(err) {
			return fmt.Errorf("CoInitializeEx: %w", err)
		}
		return nil
	}, ole.CoUninitialize)
}

// NewSTA starts a single-threaded WinRT apartment.
func NewSTA() (*Apartment, error) {
	return NewApartment(func() error {
		if err := ole.RoInitialize(0); err != nil && !alreadyInitialized(err) {
			return fmt.Errorf("RoInitialize: %w", err)
		}
		return nil
	}, func() { procRoUninitialize.Call() })
}

// S_FALSE means the thread was already initialized in the same mode.
func alreadyInitialized(err error) bool {
	oleErr, ok := err.(*ole.OleError)
	return ok && oleErr.Code() == 1
}
