//go:build !windows

package main

import (
	"os"
	"syscall"
)

// shutdownSignals stop a running server or MCP session.
var shutdownSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}
