// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SourceFile is a template file found under the sources directory.
type SourceFile struct {
	Path     string
	Category string
	Slug     string
}

// Key returns "category/slug", or just the slug for uncategorized files.
func (f SourceFile) Key() string {
	if f.Category == "" {
		return f.Slug
	}
	return f.Category + "/" + f.Slug
}

// SourceFileFor derives the category and slug of path relative to root.
// The category is the directory part with forward slashes; the slug is
// the file name without extension.
func SourceFileFor(root, path string) (SourceFile, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return SourceFile{}, fmt.Errorf("resolving %s: %w", path, err)
	}
	dir, name := filepath.Split(rel)
	category := filepath.ToSlash(filepath.Clean(dir))
	if category == "." {
		category = ""
	}
	return SourceFile{
		Path:     path,
		Category: category,
		Slug:     strings.TrimSuffix(name, filepath.Ext(name)),
	}, nil
}

// Discover walks root and returns every regular file as a source, sorted
// by category, slug, then path. Dotfiles and dot-directories are ignored.
// Files that differ only by extension share a key; ConvertBatch reports
// every one after the first as a duplicate.
func Discover(root string) ([]SourceFile, error) {
	return discover(root, "sources")
}

func discover(root, what string) ([]SourceFile, error) {
	var files []SourceFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		f, err := SourceFileFor(root, path)
		if err != nil {
			return err
		}
		files = append(files, f)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s directory %s: %w", what, root, err)
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Category != files[j].Category {
			return files[i].Category < files[j].Category
		}
		if files[i].Slug != files[j].Slug {
			return files[i].Slug < files[j].Slug
		}
		return files[i].Path < files[j].Path
	})
	return files, nil
}

// Outputs lists the articles that have an AIR file under outputDir, sorted
// like Discover. Path is the AIR file path. A missing AIR directory means
// nothing has been converted yet and yields an empty list.
func Outputs(outputDir string) ([]SourceFile, error) {
	root := filepath.Join(outputDir, AIRDir)
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	files, err := discover(root, "AIR")
	if err != nil {
		return nil, err
	}
	out := files[:0]
	for _, f := range files {
		if filepath.Ext(f.Path) == ".yaml" {
			out = append(out, f)
		}
	}
	return out, nil
}
