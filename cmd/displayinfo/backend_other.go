//go:build !windows

package main

import "errors"

func openBackend() (backend, error) {
	return nil, errors.New("display state is only available on Windows")
}
