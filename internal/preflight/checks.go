package preflight

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"lidscan/internal/config"
	"lidscan/internal/contactstore"
)

// Access modes accepted by CheckDirectoryAccess.
const (
	AccessRead      uint32 = unix.R_OK | unix.X_OK
	AccessReadWrite uint32 = unix.R_OK | unix.W_OK | unix.X_OK
)

// CheckDirectoryAccess verifies that the directory exists and grants mode.
func CheckDirectoryAccess(name, path string, mode uint32) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	label := "read ok"
	if mode&unix.W_OK != 0 {
		label = "read/write ok"
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// CheckSessions verifies the sessions directory is readable and counts the
// credential files it holds, in the same layout the scanner discovers.
func CheckSessions(root, credentialsFile string) Result {
	const name = "Sessions"

	access := CheckDirectoryAccess(name, root, AccessRead)
	if !access.Passed {
		return access
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", root, err)}
	}
	readable, unreadable := 0, 0
	count := func(path string) {
		if _, err := os.Stat(path); err != nil {
			return
		}
		if unix.Access(path, unix.R_OK) != nil {
			unreadable++
			return
		}
		readable++
	}
	for _, entry := range entries {
		if entry.IsDir() {
			count(filepath.Join(root, entry.Name(), credentialsFile))
			continue
		}
		if entry.Name() == credentialsFile {
			count(filepath.Join(root, entry.Name()))
			break
		}
	}
	switch {
	case unreadable > 0:
		return Result{Name: name, Detail: fmt.Sprintf("%d readable, %d unreadable credential file(s)", readable, unreadable)}
	case readable == 0:
		return Result{Name: name, Detail: fmt.Sprintf("%s (no %s found)", root, credentialsFile)}
	default:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d credential file(s)", readable)}
	}
}

// CheckContactStore opens and closes the configured contact store. Having no
// store configured passes, since correlation is optional.
func CheckContactStore(ctx context.Context, cfg config.Store) Result {
	const name = "Contact store"

	if cfg.Disabled {
		return Result{Name: name, Passed: true, Detail: "Disabled"}
	}
	store, err := contactstore.Open(ctx, cfg)
	if err != nil {
		if errors.Is(err, contactstore.ErrNoSource) {
			return Result{Name: name, Passed: true, Detail: "None configured (correlation skipped)"}
		}
		return Result{Name: name, Detail: err.Error()}
	}
	defer store.Close()
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable (%s)", store.Driver(), store.Source())}
}
