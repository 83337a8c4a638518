package lib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/TecharoHQ/l402/lib/store"
	_ "github.com/TecharoHQ/l402/lib/store/all"
	"gopkg.in/yaml.v3"
)

var (
	ErrNoStoreBackend      = errors.New("lib: no storage backend defined")
	ErrUnknownStoreBackend = errors.New("lib: unknown storage backend")
)

// Config is the client configuration file.
type Config struct {
	Store StoreConfig `yaml:"store"`
}

// StoreConfig selects a credential storage backend and carries its
// backend-specific parameters.
type StoreConfig struct {
	Backend    string         `yaml:"backend"`
	Parameters map[string]any `yaml:"parameters"`
}

// LoadConfig reads and validates a YAML config file.
func LoadConfig(fname string) (*Config, error) {
	fin, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("can't open config file %s: %w", fname, err)
	}
	defer fin.Close()

	dec := yaml.NewDecoder(fin)
	dec.KnownFields(true)

	var result Config
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("can't parse config file %s: %w", fname, err)
	}

	if err := result.Store.Valid(); err != nil {
		return nil, err
	}

	return &result, nil
}

func (s StoreConfig) parameters() json.RawMessage {
	// Backend factories speak JSON; the YAML parameters map converts
	// cleanly because YAML keys here are always strings.
	data, err := json.Marshal(s.Parameters)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}

// Valid checks that the backend exists and accepts the parameters.
func (s StoreConfig) Valid() error {
	var errs []error

	if len(s.Backend) == 0 {
		errs = append(errs, ErrNoStoreBackend)
	}

	fac, ok := store.Get(s.Backend)
	switch ok {
	case true:
		if err := fac.Valid(s.parameters()); err != nil {
			errs = append(errs, err)
		}
	case false:
		errs = append(errs, fmt.Errorf("%w: %q (have: %v)", ErrUnknownStoreBackend, s.Backend, store.Backends()))
	}

	if len(errs) != 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Build constructs the configured storage backend.
func (s StoreConfig) Build(ctx context.Context) (store.Interface, error) {
	fac, ok := store.Get(s.Backend)
	if !ok {
		return nil, fmt.Errorf("%w: %q (have: %v)", ErrUnknownStoreBackend, s.Backend, store.Backends())
	}

	return fac.Build(ctx, s.parameters())
}

// TokenStore builds the configured backend wrapped with Token JSON
// encoding. Keys are request hosts.
func (s StoreConfig) TokenStore(ctx context.Context) (*store.JSON[Token], error) {
	underlying, err := s.Build(ctx)
	if err != nil {
		return nil, err
	}

	return &store.JSON[Token]{
		Underlying: underlying,
		Prefix:     "token:",
	}, nil
}
