package main

import (
	"fmt"
	"os"
)

var version = ""

func displayVersion() string {
	if version != "" {
		return version
	}
	return "dev"
}

func main() {
	if err := newRootCmd(run).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hdrbright:", err)
		os.Exit(1)
	}
}
