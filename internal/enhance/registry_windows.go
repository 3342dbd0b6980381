//go:build windows

package enhance

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// LocalMachine reads values under HKEY_LOCAL_MACHINE.
type LocalMachine struct{}

func (LocalMachine) ReadStrings(path, name string) ([]string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, path, registry.QUERY_VALUE)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer k.Close()

	_, valType, err := k.GetValue(name, nil)
	if err != nil {
		return nil, fmt.Errorf("%s\\%s: %w", path, name, err)
	}
	switch valType {
	case registry.MULTI_SZ:
		v, _, err := k.GetStringsValue(name)
		return v, err
	case registry.SZ, registry.EXPAND_SZ:
		v, _, err := k.GetStringValue(name)
		if err != nil {
			return nil, err
		}
		return []string{v}, nil
	}
	return nil, fmt.Errorf("%s\\%s: %w", path, name, registry.ErrUnexpectedType)
}
