// Package cache remembers what a build produced so unchanged scripts are
// not translated again.
package cache

import (
	"crypto/md5"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

const sumFile = "sums.gob"

// BuildCache maps a source path to the checksum of the source and settings
// its output was generated from. It is safe for concurrent use.
type BuildCache struct {
	Path string

	mu   sync.Mutex
	sums map[string]string
}

// DefaultDir is the per-user cache directory.
func DefaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(homeDir, "AppData", "Local", "Programs", "rex"), nil
	}
	return filepath.Join(homeDir, ".local", "lib", "rex"), nil
}

// Open loads the cache kept in dir, creating the directory when needed. A
// missing or unreadable sum file yields an empty cache.
func Open(dir string) (*BuildCache, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	c := &BuildCache{Path: filepath.Join(dir, sumFile), sums: make(map[string]string)}

	file, err := os.Open(c.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(&c.sums); err != nil {
		c.sums = make(map[string]string)
	}
	return c, nil
}

// Sum fingerprints a source together with the settings it is translated
// with.
func Sum(src string, settings ...string) string {
	h := md5.New()
	io.Copy(h, strings.NewReader(strings.Join(settings, "\x00")))
	h.Write([]byte{0})
	io.Copy(h, strings.NewReader(src))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Fresh reports whether output was generated from a source with this sum
// and still exists.
func (c *BuildCache) Fresh(source, sum, output string) bool {
	c.mu.Lock()
	prev, ok := c.sums[key(source)]
	c.mu.Unlock()
	if !ok || prev != sum {
		return false
	}
	_, err := os.Stat(output)
	return err == nil
}

func (c *BuildCache) Record(source, sum string) {
	c.mu.Lock()
	c.sums[key(source)] = sum
	c.mu.Unlock()
}

func (c *BuildCache) Forget(source string) {
	c.mu.Lock()
	delete(c.sums, key(source))
	c.mu.Unlock()
}

// Save replaces the sum file atomically.
func (c *BuildCache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(c.Path), "sums-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(c.sums); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), c.Path)
}

func key(source string) string {
	if abs, err := filepath.Abs(source); err == nil {
		return abs
	}
	return source
}
