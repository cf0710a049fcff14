package dashboard

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// browserCommands maps GOOS to a launcher and its leading arguments.
var browserCommands = map[string][]string{
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"openbsd": {"xdg-open"},
	"netbsd":  {"xdg-open"},
	"darwin":  {"open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

// startProcess launches a command without waiting for it. Tests replace it.
var startProcess = func(name string, args ...string) error {
	return exec.Command(name, args...).Start()
}

// OpenBrowser opens url in $BROWSER if set, else in the platform's default browser.
func OpenBrowser(url string) error {
	return openBrowser(runtime.GOOS, os.Getenv("BROWSER"), url)
}

func openBrowser(goos, browser, url string) error {
	argv := []string{browser}
	if browser == "" {
		var ok bool
		if argv, ok = browserCommands[goos]; !ok {
			return fmt.Errorf("no browser launcher for %s", goos)
		}
	}

	args := append(append([]string(nil), argv[1:]...), url)
	if err := startProcess(argv[0], args...); err != nil {
		return fmt.Errorf("launch %s: %w", argv[0], err)
	}
	return nil
}
