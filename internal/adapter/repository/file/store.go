// Package file implements the local stores and pending-change ledgers as JSON
// files, an alternative to the SQLite backend for environments without cgo.
// Files hold arrays of wire payloads, so the on-disk shape is the wire shape.
package file

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// collection is a durable JSON array of payloads keyed by id. Writes go to a
// temp file first and are renamed into place, so a crash mid-write leaves the
// previous file intact.
type collection[P any] struct {
	mu   sync.Mutex
	path string
	id   func(P) int64
}

func newCollection[P any](dir, name string, id func(P) int64) (*collection[P], error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store directory %s: %w", dir, err)
	}
	return &collection[P]{path: filepath.Join(dir, name), id: id}, nil
}

func (c *collection[P]) load() ([]P, error) {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}

	var items []P
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", c.path, err)
	}
	return items, nil
}

func (c *collection[P]) save(items []P) error {
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.path, err)
	}

	tmp := c.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, c.path); err != nil {
		return fmt.Errorf("replace %s: %w", c.path, err)
	}
	return nil
}

// all returns every stored payload.
func (c *collection[P]) all() ([]P, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load()
}

// insert adds a payload. Fails when the id is already stored.
func (c *collection[P]) insert(item P) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()
	if err != nil {
		return err
	}
	for _, existing := range items {
		if c.id(existing) == c.id(item) {
			return fmt.Errorf("id %d already stored in %s", c.id(item), c.path)
		}
	}
	return c.save(append(items, item))
}

// replace overwrites the payload with the same id. No-op when absent.
func (c *collection[P]) replace(item P) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()
	if err != nil {
		return err
	}
	for i, existing := range items {
		if c.id(existing) == c.id(item) {
			items[i] = item
			return c.save(items)
		}
	}
	return nil
}

// upsert inserts the payload or overwrites the record with the same id.
func (c *collection[P]) upsert(item P) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()
	if err != nil {
		return err
	}
	for i, existing := range items {
		if c.id(existing) == c.id(item) {
			items[i] = item
			return c.save(items)
		}
	}
	return c.save(append(items, item))
}

// remove deletes the payload with the id. No-op when absent.
func (c *collection[P]) remove(id int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.load()
	if err != nil {
		return err
	}
	for i, existing := range items {
		if c.id(existing) == id {
			return c.save(append(items[:i], items[i+1:]...))
		}
	}
	return nil
}

// find returns the payload with the id, or false.
func (c *collection[P]) find(id int64) (P, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero P
	items, err := c.load()
	if err != nil {
		return zero, false, err
	}
	for _, existing := range items {
		if c.id(existing) == id {
			return existing, true, nil
		}
	}
	return zero, false, nil
}
