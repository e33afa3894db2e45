package wakelock

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"sync"
)

var getRuntime = func() string { return runtime.GOOS }

// HelperLocker keeps the machine awake by holding a platform helper process
// for the lifetime of the lock: caffeinate on macOS, systemd-inhibit on
// Linux. Releasing kills the helper.
type HelperLocker struct {
	mu   sync.Mutex
	cmd  *exec.Cmd
	done chan struct{}
}

// NewHelperLocker creates an unengaged HelperLocker.
func NewHelperLocker() *HelperLocker {
	return &HelperLocker{}
}

func (h *HelperLocker) Name() string { return "helper-process" }

// helperCommand returns the keep-awake command for the current platform,
// or an error when the platform has none.
func helperCommand(ctx context.Context) (*exec.Cmd, error) {
	switch rt := getRuntime(); rt {
	case "darwin":
		return exec.CommandContext(ctx, "caffeinate", "-d", "-i"), nil
	case "linux":
		return exec.CommandContext(ctx, "systemd-inhibit",
			"--what=idle:sleep",
			"--who=woodshed",
			"--why=practice session in progress",
			"--mode=block",
			"sleep", "infinity"), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", rt)
	}
}

func (h *HelperLocker) Available() bool {
	switch getRuntime() {
	case "darwin":
		_, err := exec.LookPath("caffeinate")
		return err == nil
	case "linux":
		_, err := exec.LookPath("systemd-inhibit")
		return err == nil
	default:
		return false
	}
}

func (h *HelperLocker) Acquire(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cmd != nil {
		return nil
	}

	cmd, err := helperCommand(context.WithoutCancel(ctx))
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start keep-awake helper: %w", err)
	}

	done := make(chan struct{})
	go func() {
		cmd.Wait()
		close(done)
	}()

	h.cmd = cmd
	h.done = done
	return nil
}

func (h *HelperLocker) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cmd == nil {
		return nil
	}

	err := h.cmd.Process.Kill()
	<-h.done
	h.cmd = nil
	h.done = nil
	if err != nil {
		return fmt.Errorf("failed to stop keep-awake helper: %w", err)
	}
	return nil
}

func (h *HelperLocker) Held() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cmd == nil {
		return false
	}
	select {
	case <-h.done:
		// helper exited on its own
		h.cmd = nil
		h.done = nil
		return false
	default:
		return true
	}
}
