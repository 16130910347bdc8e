package minihttpd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// jailFS serves an OS directory like os.DirFS, but every name is
// canonicalized with its symlinks evaluated and must stay under root.
type jailFS struct {
	root string
}

// NewJailFS returns a file system rooted at dir. Names that resolve
// outside dir, through ".." or a symlink, do not exist.
func NewJailFS(dir string) (fs.FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("webroot %q: %w", dir, err)
	}
	root, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("webroot %q: %w", dir, err)
	}
	st, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("webroot %q: %w", dir, err)
	}
	if !st.IsDir() {
		return nil, fmt.Errorf("webroot %q: not a directory", dir)
	}
	return &jailFS{root: root}, nil
}

func (j *jailFS) String() string {
	return j.root
}

func (j *jailFS) LogValue() slog.Value {
	return slog.StringValue(j.root)
}

func (j *jailFS) within(p string) bool {
	rel, err := filepath.Rel(j.root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func (j *jailFS) resolve(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	if strings.IndexByte(name, 0) >= 0 {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}
	full, err := filepath.EvalSymlinks(filepath.Join(j.root, filepath.FromSlash(name)))
	if err != nil {
		var perr *fs.PathError
		if errors.As(err, &perr) {
			err = perr.Err
		}
		return "", &fs.PathError{Op: op, Path: name, Err: err}
	}
	if !j.within(full) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}
	return full, nil
}

func (j *jailFS) Open(name string) (fs.File, error) {
	full, err := j.resolve("open", name)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

func (j *jailFS) Stat(name string) (fs.FileInfo, error) {
	full, err := j.resolve("stat", name)
	if err != nil {
		return nil, err
	}
	return os.Stat(full)
}

func (j *jailFS) ReadDir(name string) ([]fs.DirEntry, error) {
	full, err := j.resolve("readdir", name)
	if err != nil {
		return nil, err
	}
	return os.ReadDir(full)
}

func (j *jailFS) ReadFile(name string) ([]byte, error) {
	full, err := j.resolve("readfile", name)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(full)
}
