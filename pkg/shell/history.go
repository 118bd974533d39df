package shell

import (
	"strings"
	"sync"

	"github.com/rcarmo/go-vsh/pkg/vfs"
)

// History is the interactive command history, persisted one entry per line.
type History struct {
	mu      sync.Mutex
	path    vfs.Path
	entries []string
}

// LoadHistory reads the history file at path. A missing file is an empty
// history.
func LoadHistory(path vfs.Path) *History {
	h := &History{path: path}
	data, err := path.ReadFile()
	if err != nil {
		return h
	}
	for _, line := range strings.Split(string(data), "\n") {
		if line != "" {
			h.entries = append(h.entries, line)
		}
	}
	return h
}

// Add records line in memory and appends it to the file.
func (h *History) Add(line string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, line)
	w, err := h.path.Append()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(line + "\n")); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// Entries returns a copy of the recorded lines, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.entries...)
}
