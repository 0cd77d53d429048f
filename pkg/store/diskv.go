package store

import (
	"fmt"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvKV stores each key as a file under a base directory, used by the headless daemon and CLI
type DiskvKV struct {
	d        *diskv.Diskv
	basePath string
}

// NewDiskvKV opens (or lazily creates) a diskv store rooted at basePath.
// Reads are not cached since the CLI and the daemon write the same files.
func NewDiskvKV(basePath string) *DiskvKV {
	return &DiskvKV{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			CacheSizeMax: 0,
		}),
		basePath: basePath,
	}
}

// BasePath returns the directory values are written to
func (k *DiskvKV) BasePath() string {
	return k.basePath
}

func (k *DiskvKV) Get(key string) ([]byte, error) {
	if !k.d.Has(key) {
		return nil, ErrNotFound
	}
	value, err := k.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

func (k *DiskvKV) Set(key string, value []byte) error {
	if err := k.d.Write(key, value); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (k *DiskvKV) Remove(key string) error {
	if !k.d.Has(key) {
		return nil
	}
	if err := k.d.Erase(key); err != nil {
		return fmt.Errorf("erase %s: %w", key, err)
	}
	return nil
}
