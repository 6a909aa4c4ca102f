package storage

import (
	"encoding/json"
	"fmt"
)

// Collection is a typed view over one JSON-encoded record.
type Collection[T any] struct {
	kv    KV
	key   string
	empty func() T
}

// NewCollection binds key in kv to T. empty supplies the value returned when
// the record is missing.
func NewCollection[T any](kv KV, key string, empty func() T) Collection[T] {
	if empty == nil {
		empty = func() T {
			var zero T
			return zero
		}
	}
	return Collection[T]{kv: kv, key: key, empty: empty}
}

func (c Collection[T]) Key() string { return c.key }

// Load decodes the record, returning the empty value when it does not exist.
func (c Collection[T]) Load() (T, error) {
	raw, ok, err := c.kv.Get(c.key)
	if err != nil {
		return c.empty(), err
	}
	if !ok || raw == "" || raw == "null" {
		return c.empty(), nil
	}
	v := c.empty()
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return c.empty(), fmt.Errorf("corrupt record %s: %w", c.key, err)
	}
	return v, nil
}

// Save replaces the whole record.
func (c Collection[T]) Save(v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", c.key, err)
	}
	return c.kv.Set(c.key, string(data))
}

// Update is a full read-modify-write of the record.
func (c Collection[T]) Update(fn func(T) (T, error)) error {
	v, err := c.Load()
	if err != nil {
		return err
	}
	next, err := fn(v)
	if err != nil {
		return err
	}
	return c.Save(next)
}

func (c Collection[T]) Delete() error {
	return c.kv.Delete(c.key)
}
