package minihttpd

import (
	"errors"
	"io/fs"
	"sort"
	"strings"
	"testing"
	"testing/fstest"
)

func testWebroot() fstest.MapFS {
	return fstest.MapFS{
		"a.txt":          &fstest.MapFile{Data: []byte("hello")},
		"a.bin":          &fstest.MapFile{Data: []byte{0, 1, 2, 3}},
		"noext":          &fstest.MapFile{Data: []byte("x")},
		"image.png":      &fstest.MapFile{Data: []byte("\x89PNG\r\n\x1a\n\x00\xff")},
		"UPPER.TXT":      &fstest.MapFile{Data: []byte("shout")},
		"latin1.txt":     &fstest.MapFile{Data: []byte{'c', 'a', 'f', 0xe9}},
		"sub":            &fstest.MapFile{Mode: fs.ModeDir | 0o755},
		"dir/one.html":   &fstest.MapFile{Data: []byte("<p>1</p>")},
		"dir/two.txt":    &fstest.MapFile{Data: []byte("2")},
		"dir/.hidden":    &fstest.MapFile{Data: []byte("secret")},
		"dir/nested/x.go": &fstest.MapFile{Data: []byte("package x")},
		"fifo.txt":       &fstest.MapFile{Mode: fs.ModeNamedPipe},
	}
}

// TestResolve_TextFile tests that text/plain content is returned as is
func TestResolve_TextFile(t *testing.T) {
	r := NewResolver(testWebroot())
	res, err := r.Resolve("/a.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(res.Content) != "hello" {
		t.Errorf("expected 'hello', got %q", res.Content)
	}
	if res.MimeType != "text/plain" {
		t.Errorf("expected 'text/plain', got %q", res.MimeType)
	}
}

// TestResolve_BinaryFile tests that non-text content is returned byte for byte
func TestResolve_BinaryFile(t *testing.T) {
	fsys := testWebroot()
	r := NewResolver(fsys)
	res, err := r.Resolve("/image.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(res.Content) != string(fsys["image.png"].Data) {
		t.Errorf("expected %q, got %q", fsys["image.png"].Data, res.Content)
	}
	if res.MimeType != "image/png" {
		t.Errorf("expected 'image/png', got %q", res.MimeType)
	}
}

// TestResolve_UpperCaseExtension tests the case-insensitive extension fallback
func TestResolve_UpperCaseExtension(t *testing.T) {
	res, err := NewResolver(testWebroot()).Resolve("/UPPER.TXT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MimeType != "text/plain" {
		t.Errorf("expected 'text/plain', got %q", res.MimeType)
	}
}

// TestResolve_Directory tests that the listing holds the immediate entries
func TestResolve_Directory(t *testing.T) {
	res, err := NewResolver(testWebroot()).Resolve("/dir")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MimeType != "text/plain" {
		t.Errorf("expected 'text/plain', got %q", res.MimeType)
	}
	got := strings.Split(string(res.Content), "\r\n")
	sort.Strings(got)
	expected := []string{"nested", "one.html", "two.txt"}
	if strings.Join(got, ",") != strings.Join(expected, ",") {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

// TestResolve_DirectoryWithHidden tests the hidden entry option
func TestResolve_DirectoryWithHidden(t *testing.T) {
	res, err := NewResolver(testWebroot(), WithHidden(true)).Resolve("/dir/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(res.Content), ".hidden") {
		t.Errorf("expected .hidden in listing, got %q", res.Content)
	}
}

// TestResolve_EmptyDirectory tests that an empty directory has an empty body
func TestResolve_EmptyDirectory(t *testing.T) {
	res, err := NewResolver(testWebroot()).Resolve("/sub")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Content) != 0 {
		t.Errorf("expected empty listing, got %q", res.Content)
	}
	if res.MimeType != "text/plain" {
		t.Errorf("expected 'text/plain', got %q", res.MimeType)
	}
}

// TestResolve_Root tests that "/" lists the webroot
func TestResolve_Root(t *testing.T) {
	res, err := NewResolver(testWebroot()).Resolve("/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, name := range []string{"a.txt", "dir", "sub"} {
		if !strings.Contains(string(res.Content), name) {
			t.Errorf("expected %q in listing, got %q", name, res.Content)
		}
	}
}

// TestResolve_QueryString tests that the query does not take part in the lookup
func TestResolve_QueryString(t *testing.T) {
	res, err := NewResolver(testWebroot()).Resolve("/dir/two.txt?v=1#top")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(res.Content) != "2" {
		t.Errorf("expected '2', got %q", res.Content)
	}
}

// TestResolve_NotFound tests URIs without a corresponding entry
func TestResolve_NotFound(t *testing.T) {
	r := NewResolver(testWebroot())
	for _, uri := range []string{
		"/missing.txt",
		"/dir/missing/",
		"/a.txt/child.txt",
		"/a.txt/",
		"/a%00.txt",
		"/%00.txt",
		"/dir%00/two.txt",
		"/../../etc/passwd",
		"/%2e%2e/%2e%2e/etc/passwd",
		"/%zz",
		"a.txt",
		"*",
	} {
		res, err := r.Resolve(uri)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", uri, err)
		}
		if res != nil {
			t.Errorf("%s: expected no resource, got %+v", uri, res)
		}
	}
}

// TestResolve_Unsupported tests entries that exist but cannot be served
func TestResolve_Unsupported(t *testing.T) {
	r := NewResolver(testWebroot())
	for _, uri := range []string{"/a.bin", "/noext", "/dir/nested/x.go", "/latin1.txt", "/fifo.txt"} {
		res, err := r.Resolve(uri)
		if !errors.Is(err, ErrUnsupportedMediaType) {
			t.Errorf("%s: expected ErrUnsupportedMediaType, got %v", uri, err)
		}
		if res != nil {
			t.Errorf("%s: expected no resource, got %+v", uri, res)
		}
	}
}

// TestResolve_TrailingSlashOnDirectory tests that "/" suffixes still reach directories
func TestResolve_TrailingSlashOnDirectory(t *testing.T) {
	r := NewResolver(testWebroot())
	for _, uri := range []string{"/dir/", "/sub/", "/dir/nested/"} {
		res, err := r.Resolve(uri)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", uri, err)
			continue
		}
		if res.MimeType != "text/plain" {
			t.Errorf("%s: expected 'text/plain', got %q", uri, res.MimeType)
		}
	}
}

// TestResolve_TraversalStaysInRoot tests that ".." is clamped at the webroot
func TestResolve_TraversalStaysInRoot(t *testing.T) {
	res, err := NewResolver(testWebroot()).Resolve("/../../a.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(res.Content) != "hello" {
		t.Errorf("expected 'hello', got %q", res.Content)
	}
}

// TestGuessMimeType tests the static extension table
func TestGuessMimeType(t *testing.T) {
	testCases := []struct {
		name     string
		expected string
		ok       bool
	}{
		{"a.txt", "text/plain", true},
		{"dir/index.html", "text/html", true},
		{"photo.JPG", "image/jpeg", true},
		{"data.json", "application/json", true},
		{"main.c", "text/plain", true},
		{"run.bat", "text/plain", true},
		{"sound.wav", "audio/x-wav", true},
		{"scan.tif", "image/tiff", true},
		{"a.bin", "", false},
		{"tool.exe", "", false},
		{"main.go", "", false},
		{"Makefile", "", false},
		{"archive.tar.gz", "", false},
	}
	for _, tc := range testCases {
		mt, ok := GuessMimeType(tc.name)
		if mt != tc.expected || ok != tc.ok {
			t.Errorf("%s: expected (%q, %v), got (%q, %v)", tc.name, tc.expected, tc.ok, mt, ok)
		}
	}
}
