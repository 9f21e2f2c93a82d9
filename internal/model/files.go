package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// StagedFile is data written next to its destination but not yet renamed
// into place.
type StagedFile struct {
	path string
	tmp  string
}

// Stage writes data to a temp file in the directory of path. The destination
// must not be a directory.
func Stage(path string, data []byte) (*StagedFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	if info, err := os.Lstat(path); err == nil && info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	name := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(name)
		return nil, fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return nil, fmt.Errorf("close %s: %w", name, err)
	}

	return &StagedFile{path: path, tmp: name}, nil
}

// Path is the destination of the staged file.
func (s *StagedFile) Path() string {
	return s.path
}

// Discard removes the temp file. It is a no-op after a commit.
func (s *StagedFile) Discard() {
	if s == nil || s.tmp == "" {
		return
	}
	os.Remove(s.tmp)
	s.tmp = ""
}

// CommitAll renames every staged file into place. When any rename fails the
// files already committed are rolled back to their previous content and all
// temp files are removed.
func CommitAll(files ...*StagedFile) error {
	type committed struct {
		file   *StagedFile
		backup string
	}
	var done []committed

	rollback := func() {
		for i := len(done) - 1; i >= 0; i-- {
			c := done[i]
			if c.backup != "" {
				os.Rename(c.backup, c.file.path)
			} else {
				os.Remove(c.file.path)
			}
		}
		for _, f := range files {
			f.Discard()
		}
	}

	for _, f := range files {
		backup := ""
		if info, err := os.Lstat(f.path); err == nil {
			if info.IsDir() {
				rollback()
				return fmt.Errorf("%s is a directory", f.path)
			}
			backup = f.tmp + ".prev"
			if err := os.Rename(f.path, backup); err != nil {
				rollback()
				return fmt.Errorf("move aside %s: %w", f.path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			rollback()
			return fmt.Errorf("stat %s: %w", f.path, err)
		}

		if err := os.Rename(f.tmp, f.path); err != nil {
			if backup != "" {
				os.Rename(backup, f.path)
			}
			rollback()
			return fmt.Errorf("rename %s: %w", f.tmp, err)
		}
		done = append(done, committed{file: f, backup: backup})
	}

	for _, c := range done {
		if c.backup != "" {
			os.Remove(c.backup)
		}
		c.file.tmp = ""
	}

	return nil
}

// WriteFileAtomic writes data to a temp file next to path and renames it into place.
func WriteFileAtomic(path string, data []byte) error {
	staged, err := Stage(path, data)
	if err != nil {
		return err
	}
	return CommitAll(staged)
}
