// Package autotransport provides a Transport supporting every URL scheme
// supported by this module. Using this package will compile a great many
// dependencies into the resulting binary, so unless you need to support all
// schemes, use urlfile.NewMux instead.
package autotransport

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/hairyhenderson/go-urlfile"
	"github.com/hairyhenderson/go-urlfile/blobtransport"
	"github.com/hairyhenderson/go-urlfile/filetransport"
)

// Discover discovers the remote file at the given URL, using the shared
// Transport for its scheme. See urlfile.Discover for details.
func Discover(ctx context.Context, rawURL string, opts ...urlfile.Option) (*urlfile.File, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url: %w", err)
	}

	return urlfile.Discover(ctx, u, append([]urlfile.Option{urlfile.WithTransport(Transport())}, opts...)...)
}

// Transport returns a shared Transport that routes requests by URL scheme:
// "http" and "https" to urlfile.DefaultTransport, "file" to filetransport, and
// the blob storage schemes ("s3", "gs", "azblob") to blobtransport.
func Transport() urlfile.TransportMux {
	return initMux()
}

//nolint:gochecknoglobals
var initMux = sync.OnceValue(func() urlfile.TransportMux {
	mux := urlfile.NewMux()
	mux.Add(urlfile.DefaultTransport, "http", "https")
	mux.Add(filetransport.New(), filetransport.Scheme)
	mux.Add(blobtransport.New(), blobtransport.Schemes()...)

	return mux
})
