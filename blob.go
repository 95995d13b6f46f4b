package urlfile

import (
	"bytes"
)

// Blob is an in-memory chunk of bytes with a MIME type, as returned by
// File.Blob.
type Blob struct {
	data []byte
	typ  string
}

// Size returns the number of bytes in the blob.
func (b *Blob) Size() int64 { return int64(len(b.data)) }

// Type returns the blob's MIME type, which may be empty.
func (b *Blob) Type() string { return b.typ }

// Bytes returns the blob's contents. The returned slice must not be modified.
func (b *Blob) Bytes() []byte { return b.data }

// Reader returns a reader over the blob's contents.
func (b *Blob) Reader() *bytes.Reader { return bytes.NewReader(b.data) }
