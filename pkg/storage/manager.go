// Package storage reads and writes the JSON and text snapshots exchanged
// between pipeline stages.
package storage

import (
	"bufio"
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"vkleads/pkg/errors"
)

// Manager handles snapshot files under a single directory
type Manager struct {
	dir string
}

// NewManager creates a new storage manager, creating dir when missing
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}
	return &Manager{dir: dir}, nil
}

// Dir returns the snapshot directory
func (m *Manager) Dir() string {
	return m.dir
}

// Path returns the full path of a snapshot file
func (m *Manager) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.dir, name)
}

// IsNotFound reports whether err is a missing snapshot
func IsNotFound(err error) bool {
	return stderrors.Is(err, fs.ErrNotExist)
}

// WriteJSON replaces the snapshot with v, indented by two spaces and with
// non-ASCII and HTML characters left unescaped
func (m *Manager) WriteJSON(name string, v interface{}) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return m.writeAtomic(name, buf.Bytes())
}

// ReadJSON decodes the snapshot into v. A missing file yields an error
// matching IsNotFound; a malformed one is a configuration error.
func (m *Manager) ReadJSON(name string, v interface{}) error {
	path := m.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if IsNotFound(err) {
			return errors.Wrap(errors.ErrorTypeConfig, err, "snapshot %s not found", path)
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrap(errors.ErrorTypeConfig, err, "malformed snapshot %s", path)
	}
	return nil
}

// WriteLines replaces the file with one line per entry
func (m *Manager) WriteLines(name string, lines []string) error {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	for _, line := range lines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return m.writeAtomic(name, buf.Bytes())
}

// writeAtomic writes through a temporary file in the same directory so a
// reader never sees a partial snapshot
func (m *Manager) writeAtomic(name string, data []byte) error {
	path := m.Path(name)
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}
	return nil
}
