// Package apps is the process-launch collaborator: it opens applications
// and URLs so a caller can seed a search scope. It knows nothing about the
// accessibility tree.
package apps

import (
	"log/slog"
	"os/exec"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/process"

	"github.com/axlocate/axlocate/internal/axerr"
)

// Open launches an application by name, activating it when already running
// (macOS `open -a` semantics; `cmd /c start` on Windows).
func Open(name string) error {
	if strings.TrimSpace(name) == "" {
		return axerr.New(axerr.InvalidArgument, "empty application name")
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", "-a", name)
	case "windows":
		cmd = exec.Command("cmd", "/C", "start", "", name)
	default:
		return axerr.New(axerr.UnsupportedPlatform, "open application not supported on %s", runtime.GOOS)
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		return axerr.Wrap(axerr.PlatformError, err, "launching %q: %s", name, strings.TrimSpace(string(out)))
	}
	slog.Debug("application launch requested", "name", name)
	return nil
}

// OpenURL opens a URL, in a specific browser when one is named.
func OpenURL(url, browser string) error {
	if strings.TrimSpace(url) == "" {
		return axerr.New(axerr.InvalidArgument, "empty url")
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		if browser != "" {
			cmd = exec.Command("open", "-a", browser, url)
		} else {
			cmd = exec.Command("open", url)
		}
	case "windows":
		if browser != "" {
			cmd = exec.Command("cmd", "/C", "start", "", browser, url)
		} else {
			cmd = exec.Command("cmd", "/C", "start", "", url)
		}
	default:
		return axerr.New(axerr.UnsupportedPlatform, "open url not supported on %s", runtime.GOOS)
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		return axerr.Wrap(axerr.PlatformError, err, "opening %q: %s", url, strings.TrimSpace(string(out)))
	}
	slog.Debug("url open requested", "url", url, "browser", browser)
	return nil
}

// FindProcess returns the PID of a running process whose executable name
// matches name case-insensitively, ignoring the extension.
func FindProcess(name string) (int32, error) {
	if strings.TrimSpace(name) == "" {
		return 0, axerr.New(axerr.InvalidArgument, "empty process name")
	}
	procs, err := process.Processes()
	if err != nil {
		return 0, axerr.Wrap(axerr.PlatformError, err, "enumerating processes")
	}
	want := normalizeProcName(name)
	for _, p := range procs {
		n, err := p.Name()
		if err != nil {
			continue
		}
		if normalizeProcName(n) == want {
			return p.Pid, nil
		}
	}
	return 0, axerr.New(axerr.ElementNotFound, "no process named %q", name)
}

func normalizeProcName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.TrimSuffix(n, ".exe")
	n = strings.TrimSuffix(n, ".app")
	return n
}
