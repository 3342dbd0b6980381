//go:build !windows

package main

import (
	"errors"

	"github.com/spf13/cobra"
)

func run(*cobra.Command, options) error {
	return errors.New("the tray host only runs on Windows")
}
