package disk

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/downfa11-org/boundlog/pkg/config"
	"github.com/downfa11-org/boundlog/util"
)

// Manager hands out one opened LogFile per path so a process never has two
// writers appending to the same file.
type Manager struct {
	mu      sync.Mutex
	files   map[string]*LogFile
	cfg     *config.Config
	onError func(error)
	opts    []Option
}

func NewManager(cfg *config.Config, onError func(error), opts ...Option) *Manager {
	return &Manager{
		files:   make(map[string]*LogFile),
		cfg:     cfg,
		onError: onError,
		opts:    opts,
	}
}

// Get returns the LogFile for path, opening it on first use.
func (m *Manager) Get(path string) (*LogFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve log path %s: %w", path, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if lf, ok := m.files[abs]; ok {
		return lf, nil
	}

	opts := make([]Option, 0, len(m.opts)+1)
	if m.cfg != nil {
		opts = append(opts, WithConfig(m.cfg))
	}
	opts = append(opts, m.opts...)

	lf := New(abs, m.onError, opts...)
	if err := lf.Open(); err != nil {
		return nil, err
	}
	m.files[abs] = lf
	return lf, nil
}

// Destroy removes path's LogFile from the manager and deletes the file.
func (m *Manager) Destroy(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	m.mu.Lock()
	lf, ok := m.files[abs]
	delete(m.files, abs)
	m.mu.Unlock()

	if !ok {
		return nil
	}
	return lf.Destroy()
}

// CloseAll flushes and closes every managed file.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for path, lf := range m.files {
		util.Debug("closing log file %s", path)
		if err := lf.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(m.files, path)
	}
	return errors.Join(errs...)
}
