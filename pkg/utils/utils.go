// Package utils provides helpers shared across the skill catalog: display
// formatting for counts and timestamps, a resettable debouncer, a CORS origin
// filter, and browser launching.
package utils

import (
	"os/exec"
	"runtime"

	"github.com/pkg/errors"
)

// OpenBrowser attempts to open the default browser with the given URL
func OpenBrowser(url string) error {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		return errors.New("unsupported operating system")
	}

	if _, err := exec.LookPath(cmd); err != nil {
		return errors.Wrapf(err, "cannot open browser: %s not found", cmd)
	}
	return exec.Command(cmd, args...).Start()
}
