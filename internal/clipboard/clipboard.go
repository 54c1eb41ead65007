// Package clipboard copies text to the system clipboard through the
// platform utility (pbcopy, xclip/wl-copy, clip).
package clipboard

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Copy places text on the system clipboard.
func Copy(text string) error {
	switch runtime.GOOS {
	case "darwin":
		return pipe("pbcopy", nil, text)
	case "linux":
		return copyLinux(text)
	case "windows":
		return pipe("clip", nil, text)
	default:
		return fmt.Errorf("clipboard not supported on %s", runtime.GOOS)
	}
}

func copyLinux(text string) error {
	if commandAvailable("xclip") {
		if err := pipe("xclip", []string{"-selection", "clipboard"}, text); err == nil {
			return nil
		}
	}
	if commandAvailable("wl-copy") {
		if err := pipe("wl-copy", nil, text); err == nil {
			return nil
		}
	}
	return fmt.Errorf("no clipboard utility found; install xclip or wl-clipboard")
}

func pipe(name string, args []string, text string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(text)
	return cmd.Run()
}

func commandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
