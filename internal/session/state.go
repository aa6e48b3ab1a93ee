package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

const (
	stateFileName = "state.json"
	lockFileName  = "state.lock"
)

// State is the CLI's pointer to the active session, stored in the
// config directory. Concurrent invocations serialize on a file lock and
// writes go through a temp file plus rename, so a crash never leaves a
// torn file behind.
type State struct {
	SessionID uuid.UUID `json:"session_id"`
}

// stateFilePath returns the state file path, creating configDir first.
func stateFilePath(configDir string) (string, error) {
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return "", fmt.Errorf("creating state directory: %w", err)
	}
	return filepath.Join(configDir, stateFileName), nil
}

func withStateLock(configDir string, exclusive bool, fn func(path string) error) error {
	path, err := stateFilePath(configDir)
	if err != nil {
		return err
	}

	fl := flock.New(filepath.Join(configDir, lockFileName))
	if exclusive {
		err = fl.Lock()
	} else {
		err = fl.RLock()
	}
	if err != nil {
		return fmt.Errorf("acquiring state lock: %w", err)
	}
	defer func() { _ = fl.Unlock() }()

	return fn(path)
}

// LoadState reads the active session pointer. A missing or empty file
// returns (nil, nil); only a corrupt file is an error.
func LoadState(configDir string) (*State, error) {
	var st *State
	err := withStateLock(configDir, false, func(path string) error {
		data, err := os.ReadFile(path) // #nosec G304 -- path derives from the config dir
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("reading state file: %w", err)
		}
		if len(data) == 0 {
			return nil
		}

		var decoded State
		if err := json.Unmarshal(data, &decoded); err != nil {
			return fmt.Errorf("invalid state file: %w", err)
		}
		if decoded.SessionID == uuid.Nil {
			return nil
		}
		st = &decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// SaveState persists the active session pointer atomically.
func SaveState(configDir string, st State) error {
	if st.SessionID == uuid.Nil {
		return errors.New("state has no session id")
	}

	return withStateLock(configDir, true, func(path string) error {
		data, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("encoding state: %w", err)
		}

		tmp, err := os.CreateTemp(filepath.Dir(path), stateFileName+".tmp-*")
		if err != nil {
			return fmt.Errorf("creating temp state file: %w", err)
		}
		tmpName := tmp.Name()

		if _, err := tmp.Write(data); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
			return fmt.Errorf("writing state file: %w", err)
		}
		if err := tmp.Close(); err != nil {
			_ = os.Remove(tmpName)
			return fmt.Errorf("closing state file: %w", err)
		}
		if err := os.Chmod(tmpName, 0o600); err != nil {
			_ = os.Remove(tmpName)
			return fmt.Errorf("setting state file mode: %w", err)
		}
		if err := os.Rename(tmpName, path); err != nil {
			_ = os.Remove(tmpName)
			return fmt.Errorf("replacing state file: %w", err)
		}
		return nil
	})
}

// ClearState removes the pointer. Clearing an absent state is fine.
func ClearState(configDir string) error {
	return withStateLock(configDir, true, func(path string) error {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing state file: %w", err)
		}
		return nil
	})
}
