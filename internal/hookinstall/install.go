// Package hookinstall detects and installs the event-forwarding hook script
// in a monitored project.
package hookinstall

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"agenttop/internal/app"
)

//go:embed send_event.sh
var hookScript []byte

const hookScriptName = "send_event.sh"

// HookPath returns where the hook script lives inside a project.
func HookPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".claude", "hooks", hookScriptName)
}

// Detect reports whether the hook script is installed and executable.
func Detect(projectRoot string) app.HookStatus {
	info, err := os.Stat(HookPath(projectRoot))
	if err != nil {
		if os.IsNotExist(err) {
			return app.HookMissing
		}
		return app.HookUnknown
	}
	if info.Mode().Perm()&0111 == 0 {
		// Present but not executable; hooks will not fire.
		return app.HookMissing
	}
	return app.HookInstalled
}

// Install writes the embedded hook script into .claude/hooks/ and marks it
// executable.
func Install(projectRoot string) error {
	hooksDir := filepath.Join(projectRoot, ".claude", "hooks")
	if err := os.MkdirAll(hooksDir, 0755); err != nil {
		return fmt.Errorf("create hooks dir: %w", err)
	}
	hookPath := filepath.Join(hooksDir, hookScriptName)
	if err := os.WriteFile(hookPath, hookScript, 0755); err != nil {
		return fmt.Errorf("write hook script: %w", err)
	}
	// WriteFile applies the mode only on creation; force it for re-installs.
	if err := os.Chmod(hookPath, 0755); err != nil {
		return fmt.Errorf("set hook permissions: %w", err)
	}
	return nil
}
