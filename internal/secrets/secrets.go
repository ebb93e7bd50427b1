// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads credentials from a directory of plain-text files.
// The filename is the key name and the trimmed file contents are the value.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/article-engine/internal/logger"
)

// ContentStoreTokenFile names the file holding the content store bearer token.
const ContentStoreTokenFile = "content-store-token"

// ErrMissing is returned by Require when a credential is neither given
// explicitly nor present in the secrets directory.
var ErrMissing = errors.New("secret not set")

// Set maps key file names to their values.
type Set map[string]string

// Keys returns the loaded key names in sorted order. Values are never
// exposed this way so the result is safe to log.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Resolve returns override when it is non-empty, otherwise the value
// stored under key. Flags and environment settings therefore win over
// files.
func (s Set) Resolve(key, override string) string {
	if override != "" {
		return override
	}
	return s[key]
}

// Require is Resolve that fails with ErrMissing when nothing is set.
func (s Set) Require(key, override string) (string, error) {
	if v := s.Resolve(key, override); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("%w: %s", ErrMissing, key)
}

// ContentStoreToken returns the bearer token for the content store,
// preferring override over .secrets/content-store-token.
func (s Set) ContentStoreToken(override string) (string, error) {
	return s.Require(ContentStoreTokenFile, override)
}

// Load reads all files in dir. A missing directory is not an error and
// yields an empty Set. Unreadable files are logged and skipped. A nil log
// discards those warnings.
func Load(dir string, log logger.Logger) (Set, error) {
	if log == nil {
		log = logger.NewNop()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Set{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	set := make(Set)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("skipping unreadable secret", logger.String("key", name), logger.Err(err))
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			set[name] = value
		}
	}
	return set, nil
}
