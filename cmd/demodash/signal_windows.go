//go:build windows

package main

import "os"

// shutdownSignals stop a running server or MCP session. Windows has no SIGTERM.
var shutdownSignals = []os.Signal{os.Interrupt}
