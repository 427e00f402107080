package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/peterbourgon/diskv/v3"
)

const bucketDir = "buckets"

// DiskKV stores one file per bucket under BasePath via diskv.
type DiskKV struct {
	d        *diskv.Diskv
	basePath string
}

// NewDiskKV opens (creating if needed) a diskv bucket store at basePath.
func NewDiskKV(basePath string) (*DiskKV, error) {
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	if err := os.MkdirAll(filepath.Join(basePath, bucketDir), 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &DiskKV{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      0, // other processes write the same files
	}), basePath: basePath}, nil
}

func (k *DiskKV) Get(key string) ([]byte, error) {
	val, err := k.d.Read(key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: read %s: %w", key, err)
	}
	return val, nil
}

func (k *DiskKV) Put(key string, value []byte) error {
	if err := k.d.Write(key, value); err != nil {
		return fmt.Errorf("store: write %s: %w", key, err)
	}
	return nil
}

func (k *DiskKV) Delete(key string) error {
	if !k.d.Has(key) {
		return nil
	}
	if err := k.d.Erase(key); err != nil {
		return fmt.Errorf("store: erase %s: %w", key, err)
	}
	return nil
}

func (k *DiskKV) Keys(ctx context.Context) ([]string, error) {
	keys := make([]string, 0)
	for key := range k.d.Keys(ctx.Done()) {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (k *DiskKV) Close() error { return nil }

// BasePath is the directory holding bucket files.
func (k *DiskKV) BasePath() string { return k.basePath }

// keyToPathTransform keeps every bucket in one directory with a filename
// safe encoding, since bucket keys carry ':' and '@'.
func keyToPathTransform(s string) *diskv.PathKey {
	return &diskv.PathKey{
		Path:     []string{bucketDir},
		FileName: encodeKey(s),
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	key, err := decodeKey(pathKey.FileName)
	if err != nil {
		return fmt.Sprintf("pathToKeyTransform: %s", err)
	}
	return key
}

func encodeKey(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func decodeKey(s string) (string, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
