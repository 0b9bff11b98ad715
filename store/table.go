package store

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Table is a typed view over a Backend.
type Table[V any] struct {
	name    string
	backend Backend
}

func NewTable[V any](name string, backend Backend) *Table[V] {
	return &Table[V]{name: name, backend: backend}
}

func (t *Table[V]) Name() string {
	return t.name
}

func (t *Table[V]) Get(key string) (V, bool, error) {
	var value V
	raw, ok, err := t.backend.Get(key)
	if err != nil || !ok {
		return value, ok, err
	}
	if err := msgpack.Unmarshal(raw, &value); err != nil {
		return value, false, fmt.Errorf("decode %s[%q]: %w", t.name, key, err)
	}
	return value, true, nil
}

func (t *Table[V]) Has(key string) (bool, error) {
	return t.backend.Has(key)
}

func (t *Table[V]) Keys() ([]string, error) {
	return t.backend.Keys()
}

// Update upserts many top-level keys in one call.
func (t *Table[V]) Update(entries map[string]V) error {
	raw := make(map[string][]byte, len(entries))
	for key, value := range entries {
		b, err := msgpack.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode %s[%q]: %w", t.name, key, err)
		}
		raw[key] = b
	}
	return t.backend.Put(raw)
}

func (t *Table[V]) All() (map[string]V, error) {
	keys, err := t.backend.Keys()
	if err != nil {
		return nil, err
	}
	res := make(map[string]V, len(keys))
	for _, key := range keys {
		value, ok, err := t.Get(key)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%s: key %q listed but missing", t.name, key)
		}
		res[key] = value
	}
	return res, nil
}

// Export encodes the whole table as one msgpack document.
func (t *Table[V]) Export() ([]byte, error) {
	all, err := t.All()
	if err != nil {
		return nil, err
	}
	return msgpack.Marshal(all)
}

// Import upserts every entry of a document produced by Export.
func (t *Table[V]) Import(data []byte) error {
	var all map[string]V
	if err := msgpack.Unmarshal(data, &all); err != nil {
		return fmt.Errorf("decode %s snapshot: %w", t.name, err)
	}
	return t.Update(all)
}

func (t *Table[V]) Close() error {
	return t.backend.Close()
}
