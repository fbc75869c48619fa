package device

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Logger defines the logging interface used by the Store.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// storeVersion is written into the backing file so future layout changes
// can be migrated.
const storeVersion = "1"

// storeCreatedBy marks files created by this service.
const storeCreatedBy = "lanwake"

// filePerm is the mode for the backing file. It may carry a site's full
// device inventory, so keep it owner-only.
const filePerm = 0o600

// storeFile is the on-disk layout of the registry.
type storeFile struct {
	Version   string            `json:"version"`
	CreatedBy string            `json:"created_by"`
	Devices   map[string]Device `json:"devices"`
}

// Store is the durable name -> device mapping.
//
// Thread Safety:
//   - All public methods are safe for concurrent use. A single mutex
//     serialises the whole load/mutate/save sequence.
type Store struct {
	path    string
	mu      sync.Mutex
	devices map[string]Device // last-known-good copy
	logger  Logger
}

// NewStore creates a Store backed by the JSON file at path.
//
// The parent directory is created if missing; failure to do so is the one
// fatal condition (the service cannot persist anything without it). The
// backing file itself is created lazily on first access.
func NewStore(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("creating registry directory: %w", err)
	}

	s := &Store{
		path:    path,
		devices: make(map[string]Device),
		logger:  noopLogger{},
	}

	s.mu.Lock()
	s.reload()
	s.mu.Unlock()

	return s, nil
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// reload reads the backing file into the in-memory map. Caller holds mu.
//
// A missing file is not an error: an empty store file is created so the
// registry exists on disk from first access. A corrupt file degrades to an
// empty registry with a logged warning rather than failing the request;
// a wake server with no devices is still a working wake server.
func (s *Store) reload() {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.devices = make(map[string]Device)
		if werr := s.save(); werr != nil {
			s.logger.Warn("could not create empty registry file", "path", s.path, "error", werr)
		}
		return
	}
	if err != nil {
		s.logger.Warn("could not read registry file", "path", s.path, "error", err)
		s.devices = make(map[string]Device)
		return
	}

	var f storeFile
	if err := json.Unmarshal(data, &f); err != nil {
		s.logger.Warn("registry file is corrupt, starting empty", "path", s.path, "error", err)
		s.devices = make(map[string]Device)
		return
	}

	if f.Devices == nil {
		f.Devices = make(map[string]Device)
	}
	s.devices = f.Devices
}

// save writes the in-memory map to the backing file. Caller holds mu.
func (s *Store) save() error {
	f := storeFile{
		Version:   storeVersion,
		CreatedBy: storeCreatedBy,
		Devices:   s.devices,
	}

	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	if err := os.WriteFile(s.path, data, filePerm); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}

	return nil
}

// Get retrieves a device by name, reloading the backing file first.
// Returns ErrNotFound if the name does not exist.
func (s *Store) Get(name string) (Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reload()

	d, ok := s.devices[name]
	if !ok {
		return Device{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return d, nil
}

// List returns a copy of the full registry, reloading the backing file
// first. Reads trade performance for freshness: this is how external edits
// to the file become visible without a restart.
func (s *Store) List() map[string]Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reload()

	out := make(map[string]Device, len(s.devices))
	for name, d := range s.devices {
		out[name] = d
	}
	return out
}

// Count returns the number of registered devices.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reload()
	return len(s.devices)
}

// Add validates, normalizes, and inserts (or overwrites) a device record,
// then persists the registry.
//
// On persist failure the mutation stays in memory and ErrPersist is
// returned; the caller surfaces it as a server error but the add itself is
// never silently dropped.
func (s *Store) Add(name string, d Device) (Device, error) {
	normalized, err := normalize(name, d)
	if err != nil {
		return Device{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reload()
	s.devices[name] = normalized

	if err := s.save(); err != nil {
		return normalized, err
	}

	s.logger.Info("device added", "name", name, "mac", normalized.MAC, "ip", normalized.IP)
	return normalized, nil
}

// Update replaces the record stored under oldName. When newName differs
// from oldName the record is rekeyed: the old key is removed and the new
// one inserted. Returns the stored record and whether a rename happened.
//
// Returns ErrNotFound if oldName is absent, ErrValidation on a bad record,
// ErrPersist if the write fails (mutation stays in memory).
func (s *Store) Update(oldName, newName string, d Device) (Device, bool, error) {
	if newName == "" {
		newName = oldName
	}

	normalized, err := normalize(newName, d)
	if err != nil {
		return Device{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reload()

	if _, ok := s.devices[oldName]; !ok {
		return Device{}, false, fmt.Errorf("%w: %q", ErrNotFound, oldName)
	}

	renamed := newName != oldName
	if renamed {
		delete(s.devices, oldName)
	}
	s.devices[newName] = normalized

	if err := s.save(); err != nil {
		return normalized, renamed, err
	}

	s.logger.Info("device updated", "name", newName, "renamed", renamed)
	return normalized, renamed, nil
}

// Delete removes a device by name and persists the registry.
// Returns ErrNotFound if the name is absent.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reload()

	if _, ok := s.devices[name]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	delete(s.devices, name)

	if err := s.save(); err != nil {
		return err
	}

	s.logger.Info("device deleted", "name", name)
	return nil
}
