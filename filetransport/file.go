// Package filetransport provides a urlfile.Transport for file:// URLs, reading
// from the local filesystem with the same range semantics as an HTTP server.
// It is useful for testing, and for treating local and remote files alike.
package filetransport

import (
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"

	"github.com/hairyhenderson/go-urlfile"
)

// Scheme is the URL scheme served by this transport.
const Scheme = "file"

type fileTransport struct{}

// New returns a Transport that serves file:// URLs from the local filesystem.
// Windows paths (file:///C:/...) and UNCs (file://host/share/...) are
// supported.
//
// Requests are answered as an HTTP file server would: HEAD and ranged GET
// requests are supported, the content type is detected from the name or the
// content, and missing files result in a *urlfile.StatusError with a 404
// status.
func New() urlfile.Transport {
	return &fileTransport{}
}

func (t *fileTransport) Do(req *http.Request) (*http.Response, error) {
	p := pathForDirFS(req.URL)
	if p == "" {
		return nil, &urlfile.StatusError{Method: req.Method, Code: http.StatusNotFound}
	}

	dir, name := path.Split(p)
	if dir == "" {
		dir = "."
	}

	// serve only the named file, from its own directory
	// TODO: http.FileServer redirects index.html to its directory, so serve
	// files with http.ServeContent directly instead
	r := req.Clone(req.Context())
	r.URL = &url.URL{Scheme: Scheme, Path: "/" + name}

	return NewFS(os.DirFS(dir)).Do(r)
}

// NewFS returns a Transport that serves file:// URLs from fsys, with URL paths
// taken as relative to the root of fsys.
func NewFS(fsys fs.FS) urlfile.Transport {
	return urlfile.HTTPTransport(&http.Client{
		Transport: http.NewFileTransportFS(fsys),
	})
}

// return the correct filesystem path for the given URL. Supports Windows paths
// and UNCs as well
func pathForDirFS(u *url.URL) string {
	if u.Path == "" {
		return ""
	}

	rootPath := u.Path
	if len(rootPath) >= 3 {
		if rootPath[0] == '/' && rootPath[2] == ':' {
			rootPath = rootPath[1:]
		}
	}

	// a file:// URL with a host part should be interpreted as a UNC
	switch u.Host {
	case ".":
		rootPath = "//./" + rootPath
	case "":
		// nothin'
	default:
		rootPath = "//" + u.Host + rootPath
	}

	return rootPath
}
