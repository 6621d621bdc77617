package runner

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/vmaslov/refresh-runner/internal/logger"
)

// runnerExecutable is the process name terminated during stale-marker recovery.
const runnerExecutable = "refresh-runner"

// errAlreadyRunning is returned when another run holds a fresh marker.
var errAlreadyRunning = errors.New("another run is already in progress")

// markerPath derives a per-repository marker location outside the working
// tree, so the marker itself can never be staged.
func markerPath(repositoryPath string) string {
	abs, err := filepath.Abs(repositoryPath)
	if err != nil {
		abs = repositoryPath
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(abs))

	return filepath.Join(os.TempDir(), fmt.Sprintf("refresh-runner-%08x.marker", h.Sum32()))
}

// acquireMarker creates the run marker, recovering stale markers first.
// The lifetime should exceed the run's own timeout: a marker older than that
// belongs to a crashed run.
func acquireMarker(ctx context.Context, path string, lifetime time.Duration) error {
	if isRunActive(ctx, path, lifetime) {
		return errAlreadyRunning
	}

	marker, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create run marker: %w", err)
	}

	return marker.Close()
}

// releaseMarker removes the run marker, if present.
func releaseMarker(path string) {
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
}

// isRunActive checks presence of a marker file and attempts recovery if it looks stale.
func isRunActive(ctx context.Context, path string, lifetime time.Duration) bool {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false
		}

		logger.Infof(ctx, "Unable to read run marker: %v", err)

		return false
	}

	if time.Since(fileInfo.ModTime()) <= lifetime {
		return true
	}

	logger.Info(ctx, "The run marker is too old, attempting cleanup")

	if err = terminateProcessByName(runnerExecutable); err != nil {
		return true
	}

	if err = os.Remove(path); err != nil {
		return true
	}

	return false
}

// terminateProcessByName tries to kill processes with the provided executable name.
func terminateProcessByName(processName string) error {
	processList, err := ps.Processes()
	if err != nil {
		return err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if process.Executable() != processName {
			continue
		}

		var runningProcess *os.Process

		runningProcess, err = os.FindProcess(process.Pid())
		if err != nil {
			return err
		}

		if err = runningProcess.Kill(); err != nil {
			return err
		}
	}

	return nil
}
