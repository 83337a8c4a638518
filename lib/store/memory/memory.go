// Package memory is the in-process credential store. Credentials held
// here die with the process, which is what a one-shot CLI invocation
// wants and nothing else does.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/TecharoHQ/l402/lib/store"
)

type factory struct{}

func (factory) Build(ctx context.Context, _ json.RawMessage) (store.Interface, error) {
	return New(ctx), nil
}

func (factory) Valid(json.RawMessage) error { return nil }

func init() {
	store.Register("memory", factory{})
}

type entry struct {
	data    []byte
	expires time.Time
}

type impl struct {
	lock    sync.RWMutex
	entries map[string]entry
}

func (i *impl) Delete(_ context.Context, key string) error {
	i.lock.Lock()
	defer i.lock.Unlock()

	if _, ok := i.entries[key]; !ok {
		return fmt.Errorf("%w: %q", store.ErrNotFound, key)
	}

	delete(i.entries, key)
	return nil
}

func (i *impl) Get(_ context.Context, key string) ([]byte, error) {
	i.lock.RLock()
	ent, ok := i.entries[key]
	i.lock.RUnlock()

	if !ok || time.Now().After(ent.expires) {
		return nil, fmt.Errorf("%w: %q", store.ErrNotFound, key)
	}

	result := make([]byte, len(ent.data))
	copy(result, ent.data)

	return result, nil
}

func (i *impl) Set(_ context.Context, key string, value []byte, expiry time.Duration) error {
	data := make([]byte, len(value))
	copy(data, value)

	i.lock.Lock()
	defer i.lock.Unlock()

	i.entries[key] = entry{
		data:    data,
		expires: time.Now().Add(expiry),
	}

	return nil
}

func (i *impl) cleanup() {
	now := time.Now()

	i.lock.Lock()
	defer i.lock.Unlock()

	for key, ent := range i.entries {
		if now.After(ent.expires) {
			delete(i.entries, key)
		}
	}
}

func (i *impl) cleanupThread(ctx context.Context) {
	t := time.NewTicker(5 * time.Minute)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			i.cleanup()
		}
	}
}

// New creates a simple in-memory store. This will not share credentials
// across processes.
func New(ctx context.Context) store.Interface {
	result := &impl{
		entries: map[string]entry{},
	}

	go result.cleanupThread(ctx)

	return result
}
