package urlfile

import (
	"io/fs"
	"mime"
	"path"
	"sync"

	"github.com/hairyhenderson/go-urlfile/internal"
)

// TypeLookup returns the MIME type for a file name, or "" if it's unknown.
type TypeLookup func(name string) string

// common types we want to be able to handle which can be missing by default
//
//nolint:gochecknoglobals
var (
	extraMimeTypes = map[string]string{
		".yml":  "application/yaml",
		".yaml": "application/yaml",
		".csv":  "text/csv",
		".toml": "application/toml",
		".env":  "application/x-env",
		".txt":  "text/plain",
		".md":   "text/markdown",
		".zip":  "application/zip",
		".gz":   "application/gzip",
		".tar":  "application/x-tar",
		".iso":  "application/x-iso9660-image",
	}
	extraMimeInit sync.Once
)

// ContentTypeByName is the default TypeLookup. It guesses the type from the
// name's extension - see the docs for mime.TypeByExtension for details on how
// extension lookup works. A few common types that may be missing from the
// system's tables are added.
//
// The returned value may have parameters (e.g. "text/plain; charset=utf-8")
// which can be parsed with mime.ParseMediaType.
func ContentTypeByName(name string) string {
	extraMimeInit.Do(func() {
		for k, v := range extraMimeTypes {
			_ = mime.AddExtensionType(k, v)
		}
	})

	return mime.TypeByExtension(path.Ext(name))
}

// ContentType returns the MIME content type for the given fs.FileInfo. If fi
// has a ContentType method (as the result of File.Stat does) which returns a
// non-empty type, that will be used, otherwise the type will be guessed by the
// filename's extension with ContentTypeByName.
func ContentType(fi fs.FileInfo) string {
	if cf, ok := fi.(internal.ContentTypeFileInfo); ok {
		if ct := cf.ContentType(); ct != "" {
			return ct
		}
	}

	return ContentTypeByName(fi.Name())
}
