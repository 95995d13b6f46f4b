package urlfile

import (
	"context"
	"fmt"
	"io"
)

// ReaderAt returns an io.ReaderAt over f, suitable for consumers such as
// archive/zip. Every ReadAt call makes one range request for exactly the bytes
// asked for; nothing is cached. The context is used for all requests.
//
// ReadAt fails with ErrRangeUnsupported when a response holds more bytes than
// were asked for.
func (f *File) ReaderAt(ctx context.Context) io.ReaderAt {
	return &readerAt{ctx: ctx, f: f}
}

// SectionReader returns an io.SectionReader over f, which adds Read and Seek
// to ReaderAt.
func (f *File) SectionReader(ctx context.Context) *io.SectionReader {
	return io.NewSectionReader(f.ReaderAt(ctx), 0, f.size)
}

type readerAt struct {
	ctx context.Context
	f   *File
}

func (r *readerAt) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, fmt.Errorf("readat %s: negative offset %d", r.f.name, off)
	}

	if off >= r.f.size {
		return 0, io.EOF
	}

	if len(p) == 0 {
		return 0, nil
	}

	want := min(int64(len(p)), r.f.size-off)

	b, err := r.f.Slice(off, off+want).Bytes(r.ctx)
	if err == nil && int64(len(b)) > want {
		// the server ignored the Range header
		return 0, fmt.Errorf("readat %s: got %d bytes for a %d byte range: %w",
			r.f.name, len(b), want, ErrRangeUnsupported)
	}

	n := copy(p, b)
	if err != nil {
		return n, err
	}

	if int64(n) < want {
		return n, io.ErrUnexpectedEOF
	}

	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}
