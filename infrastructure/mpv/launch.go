package mpv

import (
	"context"
	"fmt"
	"os/exec"
)

// Launch starts an idle mpv with the IPC socket enabled. The returned
// command can be used to wait for or kill the process.
func Launch(ctx context.Context, mpvPath, socketPath string) (*exec.Cmd, error) {
	if mpvPath == "" {
		mpvPath = "mpv"
	}
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}

	if _, err := exec.LookPath(mpvPath); err != nil {
		return nil, fmt.Errorf("mpv not found (install from https://mpv.io/installation/): %w", err)
	}

	cmd := exec.CommandContext(ctx, mpvPath, LaunchArgs(socketPath)...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start mpv: %w", err)
	}

	return cmd, nil
}

// LaunchArgs returns the flags mpv is started with
func LaunchArgs(socketPath string) []string {
	return []string{
		"--input-ipc-server=" + socketPath,
		"--idle=yes",
		"--force-window=yes",
		"--keep-open=yes",
		"--hr-seek=yes",
	}
}
