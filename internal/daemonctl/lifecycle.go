package daemonctl

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"nriassist/internal/api"
	"nriassist/internal/config"
	"nriassist/internal/daemonrun"
	"nriassist/internal/ipc"
)

const pollInterval = 200 * time.Millisecond

// ErrDaemonNotRunning is returned when nothing answers on the socket.
var ErrDaemonNotRunning = errors.New("daemon not running")

// LaunchOptions are forwarded to the detached daemon as flags.
type LaunchOptions struct {
	SocketPath string
	ConfigPath string
	LogLevel   string
}

type StartState string

const (
	StartStateStarted        StartState = "started"
	StartStateAlreadyRunning StartState = "already_running"
)

type StartResult struct {
	State    StartState
	Launched bool
}

type StopResult struct {
	Signalled  bool
	ForcedKill bool
	PID        int
}

// Launch runs `<executable> daemon` in its own session and returns without
// waiting for it.
func Launch(executablePath string, opts LaunchOptions) error {
	executablePath = strings.TrimSpace(executablePath)
	if executablePath == "" {
		return errors.New("resolve executable: executable path is empty")
	}
	args := []string{"daemon"}
	for _, flag := range [][2]string{
		{"--socket", opts.SocketPath},
		{"--config", opts.ConfigPath},
		{"--log-level", opts.LogLevel},
	} {
		if value := strings.TrimSpace(flag[1]); value != "" {
			args = append(args, flag[0], value)
		}
	}

	proc := exec.Command(executablePath, args...)
	proc.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := proc.Start(); err != nil {
		return fmt.Errorf("launch daemon: %w", err)
	}
	return proc.Process.Release()
}

// poll calls check every pollInterval until it reports done or timeout
// elapses. The last error from check is returned on timeout.
func poll(timeout time.Duration, check func() (bool, error)) error {
	deadline := time.Now().Add(timeout)
	for {
		done, err := check()
		if done {
			return nil
		}
		if time.Now().After(deadline) {
			if err == nil {
				err = errors.New("timed out")
			}
			return err
		}
		time.Sleep(pollInterval)
	}
}

// queryStatus dials the socket for one Status call.
func queryStatus(socketPath string) (*api.DaemonStatus, error) {
	client, err := ipc.Dial(socketPath)
	if err != nil {
		if isDaemonUnavailable(err) {
			return nil, ErrDaemonNotRunning
		}
		return nil, err
	}
	defer client.Close()
	return client.Status()
}

// WaitForClient returns a connected client once the socket accepts.
func WaitForClient(socketPath string, timeout time.Duration) (*ipc.Client, error) {
	var client *ipc.Client
	err := poll(timeout, func() (bool, error) {
		c, err := ipc.Dial(socketPath)
		if err != nil {
			return false, err
		}
		client = c
		return true, nil
	})
	if err != nil {
		return nil, fmt.Errorf("daemon failed to start: %w", err)
	}
	return client, nil
}

// EnsureStarted launches the daemon when its socket is unreachable, then
// waits until it reports running.
func EnsureStarted(socketPath, executablePath string, opts LaunchOptions, waitTimeout time.Duration) (StartResult, error) {
	result := StartResult{State: StartStateAlreadyRunning}
	client, err := ipc.Dial(socketPath)
	if err != nil {
		if err := Launch(executablePath, opts); err != nil {
			return StartResult{}, err
		}
		if client, err = WaitForClient(socketPath, waitTimeout); err != nil {
			return StartResult{}, err
		}
		result = StartResult{State: StartStateStarted, Launched: true}
	}
	defer client.Close()

	err = poll(waitTimeout, func() (bool, error) {
		status, err := client.Status()
		if err != nil {
			return false, fmt.Errorf("daemon status: %w", err)
		}
		if !status.Running {
			return false, errors.New("daemon is reachable but not running (see the daemon log)")
		}
		return true, nil
	})
	if err != nil {
		return StartResult{}, err
	}
	return result, nil
}

// WaitForShutdown waits until the socket goes away or the daemon reports it
// is no longer running.
func WaitForShutdown(socketPath string, timeout time.Duration) error {
	err := poll(timeout, func() (bool, error) {
		status, err := queryStatus(socketPath)
		switch {
		case errors.Is(err, ErrDaemonNotRunning):
			return true, nil
		case err != nil:
			return false, err
		case !status.Running:
			return true, nil
		default:
			return false, errors.New("daemon still running")
		}
	})
	if err != nil {
		return fmt.Errorf("daemon did not stop: %w", err)
	}
	return nil
}

// ProcessInfo reports whether the daemon answers on the socket and the pid it
// reports.
func ProcessInfo(socketPath string) (bool, int, error) {
	status, err := queryStatus(socketPath)
	if errors.Is(err, ErrDaemonNotRunning) {
		return false, 0, nil
	}
	if err != nil {
		return true, 0, err
	}
	return true, status.PID, nil
}

// ReadPID returns the pid stored in pidPath, or zero when the file is absent
// or empty.
func ReadPID(pidPath string) (int, error) {
	data, err := os.ReadFile(pidPath)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read daemon pid file %q: %w", pidPath, err)
	}
	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return 0, nil
	}
	pid, err := strconv.Atoi(raw)
	if err != nil || pid <= 0 {
		return 0, fmt.Errorf("invalid pid %q in %s", raw, pidPath)
	}
	return pid, nil
}

// ForceKillProcess sends SIGKILL to the pid in pidPath (or fallbackPID) and
// removes the pid and lock files it leaves behind.
func ForceKillProcess(pidPath, lockPath string, fallbackPID int) (int, error) {
	pid, err := ReadPID(pidPath)
	if err != nil {
		return 0, err
	}
	if pid == 0 {
		pid = fallbackPID
	}
	if pid <= 0 {
		return 0, fmt.Errorf("unable to determine daemon pid (pid file: %s)", pidPath)
	}
	if err := signalOther(pid, unix.SIGKILL); err != nil {
		return 0, err
	}
	if err := os.Remove(pidPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return 0, fmt.Errorf("remove pid file %q: %w", pidPath, err)
	}
	if lockPath != "" {
		_ = os.Remove(lockPath)
	}
	return pid, nil
}

// StopAndTerminate sends SIGTERM to the pid the daemon reports and sends
// SIGKILL if it still answers after gracePeriod.
func StopAndTerminate(socketPath string, cfg *config.Config, gracePeriod time.Duration) (StopResult, error) {
	if cfg == nil {
		return StopResult{}, errors.New("configuration not available")
	}
	status, err := queryStatus(socketPath)
	if errors.Is(err, ErrDaemonNotRunning) {
		return StopResult{}, err
	}
	if err != nil {
		return StopResult{}, fmt.Errorf("daemon status: %w", err)
	}
	if status.PID <= 0 {
		return StopResult{}, errors.New("daemon did not report a pid")
	}

	result := StopResult{PID: status.PID}
	if err := signalOther(status.PID, unix.SIGTERM); err != nil {
		return result, err
	}
	result.Signalled = true

	if WaitForShutdown(socketPath, gracePeriod) == nil {
		return result, nil
	}
	alive, livePID, err := ProcessInfo(socketPath)
	if err != nil || !alive {
		return result, nil
	}
	if livePID == 0 {
		livePID = status.PID
	}
	killed, err := ForceKillProcess(daemonrun.PIDPath(cfg), cfg.LockPath(), livePID)
	if err != nil {
		return result, fmt.Errorf("failed to stop daemon process: %w", err)
	}
	_ = os.Remove(socketPath)
	result.ForcedKill = true
	result.PID = killed
	return result, nil
}

// signalOther delivers sig to pid. The calling process is never signalled and
// a pid that has already exited is not an error.
func signalOther(pid int, sig unix.Signal) error {
	if pid == os.Getpid() {
		return fmt.Errorf("refusing to signal current process (pid %d)", pid)
	}
	if err := unix.Kill(pid, sig); err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("signal daemon process %d: %w", pid, err)
	}
	return nil
}

func isDaemonUnavailable(err error) bool {
	return errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, syscall.ENOENT) ||
		errors.Is(err, syscall.ECONNREFUSED)
}
