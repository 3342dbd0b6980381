// Package monitor maps a window handle to the physical monitor backing it and
// derives the identifiers other subsystems (WMI, registry) key on.
package monitor

import (
	"strings"
	"unicode"

	"github.com/alex-vit/hdrbright/internal/displayconfig"
)

const (
	devicePrefix = `\\?\DISPLAY#`
	wmiPrefix    = `DISPLAY\`
	enumRoot     = `SYSTEM\CurrentControlSet\Enum\DISPLAY\`
)

// Identity names the monitor currently hosting a window.
type Identity struct {
	InterfacePath   string // \\?\DISPLAY#DEL4098#5&10a58962&0&UID4353#{e6f07b5f-...}
	WMIInstanceName string // DISPLAY\DEL4098\5&10a58962&0&UID4353
	GDIName         string // \\.\DISPLAY1
	FriendlyName    string
	Path            displayconfig.Path
}

// Valid reports whether the identity was resolved.
func (id Identity) Valid() bool {
	return id.InterfacePath != ""
}

// ToWMIInstanceName converts a device interface path into the instance name
// used by the root\WMI brightness classes. A missing GUID segment is tolerated.
func ToWMIInstanceName(interfacePath string) (string, bool) {
	rest, ok := devicePart(interfacePath)
	if !ok {
		return "", false
	}
	return wmiPrefix + strings.ReplaceAll(rest, "#", `\`), true
}

// RegistryEnumPath converts a device interface path into its key under
// HKLM\SYSTEM\CurrentControlSet\Enum.
func RegistryEnumPath(interfacePath string) (string, bool) {
	rest, ok := devicePart(interfacePath)
	if !ok {
		return "", false
	}
	return enumRoot + strings.ReplaceAll(rest, "#", `\`), true
}

// devicePart strips the device namespace prefix and the trailing interface
// class GUID, leaving "DEL4098#5&10a58962&0&UID4353".
func devicePart(path string) (string, bool) {
	if len(path) <= len(devicePrefix) || !strings.EqualFold(path[:len(devicePrefix)], devicePrefix) {
		return "", false
	}
	rest := path[len(devicePrefix):]
	if i := strings.LastIndexByte(rest, '#'); i >= 0 && strings.HasPrefix(rest[i+1:], "{") {
		rest = rest[:i]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}

// StripIndexSuffix removes a trailing "_<digits>" that some drivers append to
// WMI instance names.
func StripIndexSuffix(s string) string {
	i := strings.LastIndexByte(s, '_')
	if i <= 0 || i == len(s)-1 {
		return s
	}
	for _, r := range s[i+1:] {
		if !unicode.IsDigit(r) {
			return s
		}
	}
	return s[:i]
}

// SameInstance compares two WMI instance names, ignoring case and any
// enumeration index suffix.
func SameInstance(a, b string) bool {
	if strings.EqualFold(a, b) {
		return true
	}
	return strings.EqualFold(StripIndexSuffix(a), StripIndexSuffix(b))
}
