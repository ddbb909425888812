// Package settings persists the user preferences and notifies observers when they change.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Change describes one committed write of a key.
type Change struct {
	Key string
	Old any
	New any
}

// Observer is called synchronously after a write is committed.
type Observer func(Change)

// Store is a persistent key/value store with change notification.
type Store interface {
	Get(key string) any
	Set(key string, value any) error
	Subscribe(observer Observer) (unsubscribe func())
}

// ViperStore keeps the settings in a YAML file through viper.
type ViperStore struct {
	mu        sync.Mutex
	viper     *viper.Viper
	path      string
	logger    *slog.Logger
	observers map[int]Observer
	nextID    int
}

// NewViperStore opens the settings file at path. A missing file is created on the first write.
func NewViperStore(path string, logger *slog.Logger) (*ViperStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("viper.ReadInConfig(%s) > %w", path, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("os.Stat(%s) > %w", path, err)
	}

	return &ViperStore{
		viper:     v,
		path:      path,
		logger:    logger,
		observers: make(map[int]Observer),
	}, nil
}

func (s *ViperStore) Get(key string) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viper.Get(key)
}

// Set writes the value and the rest of the settings to the file, then notifies observers.
// The in-memory value is restored when the file cannot be written.
func (s *ViperStore) Set(key string, value any) error {
	s.mu.Lock()
	old := s.viper.Get(key)
	s.viper.Set(key, value)
	if err := s.write(); err != nil {
		s.viper.Set(key, old)
		s.mu.Unlock()
		return err
	}
	observers := s.currentObservers()
	s.mu.Unlock()

	s.notify(observers, Change{Key: key, Old: old, New: value})
	return nil
}

func (s *ViperStore) Subscribe(observer Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.observers[id] = observer
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

// Watch forwards edits made to the file by other processes to the observers.
// The file is watched through its own viper instance so that the store only changes inside Reload.
func (s *ViperStore) Watch() error {
	s.mu.Lock()
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		if err := s.write(); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.mu.Unlock()

	watcher := viper.New()
	watcher.SetConfigFile(s.path)
	watcher.SetConfigType("yaml")
	watcher.OnConfigChange(func(event fsnotify.Event) {
		s.logger.Debug("settings file changed", "file", event.Name, "op", event.Op.String())
		if err := s.Reload(); err != nil {
			s.logger.Warn("failed to reload settings", "error", err)
		}
	})
	watcher.WatchConfig()
	return nil
}

// Reload re-reads the file and notifies observers of every key whose value differs.
func (s *ViperStore) Reload() error {
	fresh := viper.New()
	fresh.SetConfigFile(s.path)
	fresh.SetConfigType("yaml")
	if err := fresh.ReadInConfig(); err != nil {
		return fmt.Errorf("viper.ReadInConfig(%s) > %w", s.path, err)
	}

	s.mu.Lock()
	keys := fresh.AllKeys()
	sort.Strings(keys)
	var changes []Change
	for _, key := range keys {
		newValue := fresh.Get(key)
		old := s.viper.Get(key)
		if sameValue(old, newValue) {
			continue
		}
		s.viper.Set(key, newValue)
		changes = append(changes, Change{Key: key, Old: old, New: newValue})
	}
	observers := s.currentObservers()
	s.mu.Unlock()

	for _, change := range changes {
		s.notify(observers, change)
	}
	return nil
}

// AllSettings returns every key with its current value.
func (s *ViperStore) AllSettings() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viper.AllSettings()
}

func (s *ViperStore) write() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("os.MkdirAll(%s) > %w", filepath.Dir(s.path), err)
	}
	if err := s.viper.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("viper.WriteConfigAs(%s) > %w", s.path, err)
	}
	return nil
}

func (s *ViperStore) currentObservers() []Observer {
	ids := make([]int, 0, len(s.observers))
	for id := range s.observers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	observers := make([]Observer, 0, len(ids))
	for _, id := range ids {
		observers = append(observers, s.observers[id])
	}
	return observers
}

func (s *ViperStore) notify(observers []Observer, change Change) {
	s.logger.Debug("setting changed", "key", change.Key, "value", change.New)
	for _, observer := range observers {
		observer(change)
	}
}

// sameValue compares values that may differ only in their decoded type, such as []string and []any.
func sameValue(a, b any) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}
