package main

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
)

// Candidate is a file found under the source root.
type Candidate struct {
	LocalPath string
	RepoPath  string
}

// discover walks root depth first and yields every regular file that is not hidden and not
// inside a hidden or excluded directory. Entries the walk cannot read are yielded with a non-nil
// error and the walk carries on; an unreadable root ends the sequence. Breaking out of the range
// loop stops the walk immediately.
func discover(root string) iter.Seq2[Candidate, error] {
	return func(yield func(Candidate, error) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if !yield(Candidate{LocalPath: path}, err) || path == root {
					return fs.SkipAll
				}
				return nil
			}
			if path == root {
				return nil
			}

			name := d.Name()
			if d.IsDir() {
				if isHidden(name) || isExcludedDir(name) {
					return fs.SkipDir
				}
				return nil
			}
			if isHidden(name) || !isRegularFile(path, d) {
				return nil
			}

			rel, err := filepath.Rel(root, path)
			if err != nil {
				if !yield(Candidate{LocalPath: path}, err) {
					return fs.SkipAll
				}
				return nil
			}
			c := Candidate{
				LocalPath: path,
				RepoPath:  normalizePath(filepath.ToSlash(rel)),
			}
			if !yield(c, nil) {
				return fs.SkipAll
			}
			return nil
		})
	}
}

// isRegularFile follows symlinks, so a link to a regular file counts as one.
func isRegularFile(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
