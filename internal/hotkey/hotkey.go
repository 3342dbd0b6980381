// Package hotkey registers global hotkeys through the Windows RegisterHotKey
// API and reports keydowns through a callback. All hotkeys share one message
// loop; there is no keyup tracking and no polling.
package hotkey

import (
	"fmt"
	"strings"
)

// Modifier flags for RegisterHotKey.
const (
	ModAlt      = 0x1
	ModCtrl     = 0x2
	ModShift    = 0x4
	ModWin      = 0x8
	modNoRepeat = 0x4000
)

// Hotkey is one modifier and virtual key combination.
type Hotkey struct {
	Mod int
	VK  int
}

var modifiers = map[string]int{
	"alt":     ModAlt,
	"ctrl":    ModCtrl,
	"control": ModCtrl,
	"shift":   ModShift,
	"win":     ModWin,
}

var keys = map[string]int{
	"up":       0x26,
	"down":     0x28,
	"left":     0x25,
	"right":    0x27,
	"pageup":   0x21,
	"pagedown": 0x22,
	"home":     0x24,
	"end":      0x23,
	"plus":     0xBB,
	"minus":    0xBD,
}

// Parse reads a combination such as "win+alt+up". Letters, digits, F1-F24,
// numpad0-numpad9 and the named keys above are accepted. At least one
// modifier is required.
func Parse(s string) (Hotkey, error) {
	var hk Hotkey
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "+")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if i < len(parts)-1 {
			m, ok := modifiers[p]
			if !ok {
				return Hotkey{}, fmt.Errorf("hotkey %q: unknown modifier %q", s, p)
			}
			hk.Mod |= m
			continue
		}
		vk, ok := virtualKey(p)
		if !ok {
			return Hotkey{}, fmt.Errorf("hotkey %q: unknown key %q", s, p)
		}
		hk.VK = vk
	}
	if hk.Mod == 0 {
		return Hotkey{}, fmt.Errorf("hotkey %q: needs a modifier", s)
	}
	return hk, nil
}

func virtualKey(name string) (int, bool) {
	if vk, ok := keys[name]; ok {
		return vk, true
	}
	if len(name) == 1 {
		c := name[0]
		switch {
		case c >= 'a' && c <= 'z':
			return int(c - 'a' + 'A'), true
		case c >= '0' && c <= '9':
			return int(c), true
		}
	}
	var n int
	if _, err := fmt.Sscanf(name, "numpad%d", &n); err == nil && n >= 0 && n <= 9 && name == fmt.Sprintf("numpad%d", n) {
		return 0x60 + n, true
	}
	if _, err := fmt.Sscanf(name, "f%d", &n); err == nil && n >= 1 && n <= 24 && name == fmt.Sprintf("f%d", n) {
		return 0x70 + n - 1, true
	}
	return 0, false
}
