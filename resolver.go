package minihttpd

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"strings"
	"syscall"
	"unicode/utf8"
)

const listingMimeType = "text/plain"

// Resource is the content a URI resolved to.
type Resource struct {
	Content  []byte
	MimeType string
}

type Resolver struct {
	fs         fs.FS
	showHidden bool
}

type ResolverOption func(*Resolver)

// WithHidden includes entries whose names start with "." in directory
// listings.
func WithHidden(show bool) ResolverOption {
	return func(r *Resolver) {
		r.showHidden = show
	}
}

func NewResolver(fsys fs.FS, opts ...ResolverOption) *Resolver {
	r := &Resolver{fs: fsys}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Name maps uri to a name inside the resolver's file system.
// Query and fragment are dropped and the path is cleaned; a URI that is
// not rooted or cannot be decoded has no name.
func (r *Resolver) Name(uri string) (string, error) {
	name, _, err := r.name(uri)
	return name, err
}

// name also reports whether the path ended in "/", which only a directory
// satisfies.
func (r *Resolver) name(uri string) (string, bool, error) {
	u, err := url.ParseRequestURI(uri)
	if err != nil {
		return "", false, fmt.Errorf("%w: %s: %v", ErrNotFound, uri, err)
	}
	if !strings.HasPrefix(u.Path, "/") {
		return "", false, fmt.Errorf("%w: %s: not an absolute path", ErrNotFound, uri)
	}
	if strings.IndexByte(u.Path, 0) >= 0 {
		return "", false, fmt.Errorf("%w: %s: NUL in path", ErrNotFound, uri)
	}
	name := strings.TrimPrefix(path.Clean(u.Path), "/")
	if name == "" {
		name = "."
	}
	if !fs.ValidPath(name) {
		return "", false, fmt.Errorf("%w: %s: outside of webroot", ErrNotFound, uri)
	}
	return name, strings.HasSuffix(u.Path, "/"), nil
}

// Resolve returns the directory listing or file content uri points to.
// Errors wrap ErrNotFound or ErrUnsupportedMediaType.
func (r *Resolver) Resolve(uri string) (*Resource, error) {
	name, dirOnly, err := r.name(uri)
	if err != nil {
		return nil, err
	}
	info, err := fs.Stat(r.fs, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrInvalid) || errors.Is(err, syscall.ENOTDIR) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, uri)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedMediaType, uri, err)
	}
	switch {
	case info.IsDir():
		return r.listing(uri, name)
	case dirOnly:
		return nil, fmt.Errorf("%w: %s: not a directory", ErrNotFound, uri)
	case info.Mode().IsRegular():
		return r.file(uri, name)
	}
	return nil, fmt.Errorf("%w: %s: file mode %s", ErrUnsupportedMediaType, uri, info.Mode().Type())
}

func (r *Resolver) listing(uri, name string) (*Resource, error) {
	entries, err := fs.ReadDir(r.fs, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedMediaType, uri, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !r.showHidden && strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	return &Resource{
		Content:  []byte(strings.Join(names, crlf)),
		MimeType: listingMimeType,
	}, nil
}

func (r *Resolver) file(uri, name string) (*Resource, error) {
	mimetype, ok := GuessMimeType(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s: unknown extension", ErrUnsupportedMediaType, uri)
	}
	content, err := fs.ReadFile(r.fs, name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnsupportedMediaType, uri, err)
	}
	if mimetype == "text/plain" && !utf8.Valid(content) {
		return nil, fmt.Errorf("%w: %s: not valid UTF-8 text", ErrUnsupportedMediaType, uri)
	}
	return &Resource{Content: content, MimeType: mimetype}, nil
}
