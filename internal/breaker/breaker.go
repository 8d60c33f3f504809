// Package breaker persists the circuit-breaker mode flag: a single text file
// whose presence means the breaker is active. The flag is a two-state machine
// (inactive, active with focus metadata); both transitions are gated by
// human confirmation in the command layer, and there is deliberately no
// automatic deactivation path.
package breaker

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// State is the metadata written when the breaker activates.
type State struct {
	PrimaryProject  string
	ExternalContact string
	ActivatedAt     time.Time
}

type FlagStore struct {
	path string
}

func New(path string) *FlagStore {
	return &FlagStore{path: path}
}

// DefaultPath returns ~/.shipday/circuit_breaker.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".shipday", "circuit_breaker"), nil
}

// IsActive reports whether the flag file exists.
func (f *FlagStore) IsActive() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// Activate writes the flag file. Activating an already-active breaker is an
// error so a second activation cannot silently overwrite the focus project.
func (f *FlagStore) Activate(s State) error {
	if f.IsActive() {
		return fmt.Errorf("circuit breaker already active")
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("create flag directory: %w", err)
	}
	content := fmt.Sprintf("primary_project=%s\nexternal_contact=%s\nactivated_at=%s\n",
		s.PrimaryProject, s.ExternalContact, s.ActivatedAt.UTC().Format(time.RFC3339))
	if err := os.WriteFile(f.path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write flag file: %w", err)
	}
	return nil
}

// Read returns the active state, or nil when the breaker is inactive.
func (f *FlagStore) Read() (*State, error) {
	file, err := os.Open(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open flag file: %w", err)
	}
	defer file.Close()

	s := &State{}
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		key, value, ok := strings.Cut(strings.TrimSpace(sc.Text()), "=")
		if !ok {
			continue
		}
		switch key {
		case "primary_project":
			s.PrimaryProject = value
		case "external_contact":
			s.ExternalContact = value
		case "activated_at":
			s.ActivatedAt, _ = time.Parse(time.RFC3339, value)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read flag file: %w", err)
	}
	return s, nil
}

// Clear removes the flag file. Clearing an inactive breaker is a no-op.
func (f *FlagStore) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove flag file: %w", err)
	}
	return nil
}
