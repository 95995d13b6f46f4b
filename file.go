package urlfile

import (
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hairyhenderson/go-urlfile/internal"
)

// File is a read-only view of a byte window of a remote resource. Its contents
// are never fetched until one of the materialization methods (Bytes, Text,
// Blob, Stream, ReaderAt) is called, and each such call makes exactly one
// range request for the window. Slicing a File never makes a request.
//
// A File is immutable, and safe for concurrent use.
type File struct {
	u         *url.URL
	transport Transport
	header    http.Header
	modTime   time.Time
	name      string
	typ       string
	relPath   string

	size     int64 // size of this view
	trueSize int64 // size of the remote resource
	start    int64 // inclusive
	end      int64 // exclusive

	rangeChk bool
}

// New returns a File for the remote resource at u, which is size bytes long.
// The name, MIME type and relative path are inferred from the URL's path
// unless given as options. The type lookup is given the whole last path
// segment (e.g. "b.tar.gz"), not the derived name ("b.tar").
//
// New returns ErrInvalidSize if size is negative (i.e. unknown).
func New(u *url.URL, size int64, opts ...Option) (*File, error) {
	if u == nil {
		return nil, ErrInvalidURL
	}

	if size < 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}

	cfg := newConfig(opts)

	trueSize := size
	if cfg.trueSize >= 0 {
		trueSize = cfg.trueSize
	}

	start, end := int64(0), size
	if cfg.window != nil {
		start, end = cfg.window.start, cfg.window.end
	}

	end = min(max(end, 0), trueSize)
	start = min(max(start, 0), end)

	seg, ext := lastSegment(u.Path)

	name := cfg.name
	if name == "" {
		name = seg
		if ext {
			name = seg[:strings.LastIndexByte(seg, '.')]
		}
	}

	typ := ""

	switch {
	case cfg.typ != nil:
		typ = *cfg.typ
	case ext:
		typ = cfg.lookup(seg)
	}

	relPath := cfg.relPath
	if relPath == "" {
		relPath = relativePath(u.Path)
	}

	modTime := cfg.modTime
	if modTime.IsZero() {
		modTime = time.Now()
	}

	// copy the URL so later changes to u can't leak into the File
	uc := *u

	return &File{
		u:         &uc,
		transport: cfg.transport,
		header:    cfg.header,
		modTime:   modTime,
		name:      name,
		typ:       typ,
		relPath:   relPath,
		size:      end - start,
		trueSize:  trueSize,
		start:     start,
		end:       end,
		rangeChk:  cfg.rangeChk,
	}, nil
}

// lastSegment returns the part of p after the final '/', and whether it has
// an extension.
func lastSegment(p string) (string, bool) {
	seg := p[strings.LastIndexByte(p, '/')+1:]

	return seg, strings.LastIndexByte(seg, '.') != -1
}

// relativePath returns the part of p between the leading '/' and the final
// '/'.
func relativePath(p string) string {
	i := strings.LastIndexByte(p, '/')
	if i < 1 {
		return ""
	}

	return p[1:i]
}

// URL returns a copy of the remote resource's URL.
func (f *File) URL() *url.URL {
	u := *f.u

	return &u
}

// Size returns the size of this view, in bytes.
func (f *File) Size() int64 { return f.size }

// TrueSize returns the size of the whole remote resource. It is the same for
// a File and all slices derived from it.
func (f *File) TrueSize() int64 { return f.trueSize }

// Start returns the offset (inclusive) in the remote resource at which this
// view begins.
func (f *File) Start() int64 { return f.start }

// End returns the offset (exclusive) in the remote resource at which this view
// ends.
func (f *File) End() int64 { return f.end }

// Name returns the file name.
func (f *File) Name() string { return f.name }

// Type returns the MIME type, which may be empty.
func (f *File) Type() string { return f.typ }

// RelativePath returns the path of the file's directory, relative to the root
// of the URL.
func (f *File) RelativePath() string { return f.relPath }

// ModTime returns the modification time.
func (f *File) ModTime() time.Time { return f.modTime }

// LastModified returns the modification time in milliseconds since the Unix
// epoch.
func (f *File) LastModified() int64 { return f.modTime.UnixMilli() }

// Stat returns a fs.FileInfo describing this view. The returned value has a
// ContentType method (see ContentType).
func (f *File) Stat() fs.FileInfo {
	return internal.FileInfo(f.name, f.size, 0o444, f.modTime, f.typ)
}

func (f *File) String() string {
	return fmt.Sprintf("%s [%d-%d)/%d", f.u.Redacted(), f.start, f.end, f.trueSize)
}
