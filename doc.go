// Package urlfile provides File, a virtual read-only file backed by a remote
// resource that supports HTTP range requests. A File can be sliced any number
// of times without touching the network; only when its contents are asked for
// (with Bytes, Text, Blob, Stream, or through ReaderAt) is a single range
// request made, for exactly the bytes of the slice.
//
// This makes it possible to hand a remote file to code that reads only small
// parts of it - for example archive/zip, which reads the central directory at
// the end of the archive and then only the entries it's asked for.
//
// # Usage
//
// Use [Discover] to create a File from a URL. The size, MIME type and
// modification time are read from the response to a HEAD request:
//
//	f, err := urlfile.Discover(ctx, u)
//	if err != nil {
//		return err
//	}
//
//	// the last 10 bytes - no request is made yet
//	tail := f.Slice(-10, f.Size())
//
//	b, err := tail.Bytes(ctx)
//
// When the size is already known, [New] creates a File without a request.
//
// # Transports
//
// Requests are made with a [Transport], set with [WithTransport]. By default
// [DefaultTransport] is used, which wraps [net/http.DefaultClient] and reports
// error statuses as a [*StatusError]. Transport errors are returned unchanged.
//
// A [TransportMux] can dispatch requests to different transports by URL scheme.
// The tracetransport, blobtransport and filetransport packages provide
// tracing, blob storage and local file transports; the autotransport package
// registers all of them.
//
// # Reading archives
//
// [File.ReaderAt] adapts a File for readers that need an [io.ReaderAt]:
//
//	zr, err := zip.NewReader(f.ReaderAt(ctx), f.Size())
//
// Each ReadAt makes one request, and nothing is cached, so callers reading
// many small pieces may want to add buffering.
package urlfile
