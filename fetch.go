package urlfile

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// request issues the range request for f's window. The caller must close the
// response body.
func (f *File) request(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.u.String(), nil)
	if err != nil {
		return nil, err
	}

	for k, vs := range f.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	// HTTP ranges include the last byte, our windows don't
	last := f.end - 1

	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", f.start, last))
	req.Header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", f.start, last, f.trueSize))
	req.Header.Set("Cache-Control", "no-store")

	resp, err := f.transport.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.Body == nil {
		resp.Body = http.NoBody
	}

	if f.rangeChk {
		if err := f.checkRange(resp); err != nil {
			resp.Body.Close()

			return nil, err
		}
	}

	return resp, nil
}

func (f *File) checkRange(resp *http.Response) error {
	want := fmt.Sprintf("bytes %d-%d/%d", f.start, f.end-1, f.trueSize)
	got := resp.Header.Get("Content-Range")

	switch resp.StatusCode {
	case http.StatusPartialContent:
		// the total may be reported as unknown
		if got == want || got == fmt.Sprintf("bytes %d-%d/*", f.start, f.end-1) {
			return nil
		}
	case http.StatusOK:
		if f.start == 0 && f.end == f.trueSize {
			return nil
		}
	}

	return &UnexpectedRangeResponseError{
		URL:        f.u.Redacted(),
		Want:       want,
		Got:        got,
		StatusCode: resp.StatusCode,
	}
}

// Bytes fetches the contents of f.
func (f *File) Bytes(ctx context.Context) ([]byte, error) {
	if f.size == 0 {
		return []byte{}, nil
	}

	resp, err := f.request(ctx)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// Text fetches the contents of f and decodes them as text. UTF-8 is assumed
// (a leading byte order mark is removed, and invalid sequences are replaced
// with U+FFFD) unless the response's Content-Type names another charset.
func (f *File) Text(ctx context.Context) (string, error) {
	if f.size == 0 {
		return "", nil
	}

	resp, err := f.request(ctx)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return decodeText(b, resp.Header.Get("Content-Type"))
}

// Blob fetches the contents of f into a Blob. The Blob's type is the
// response's Content-Type, or f's type if the response has none.
func (f *File) Blob(ctx context.Context) (*Blob, error) {
	if f.size == 0 {
		return &Blob{data: []byte{}, typ: f.typ}, nil
	}

	resp, err := f.request(ctx)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	typ := resp.Header.Get("Content-Type")
	if typ == "" {
		typ = f.typ
	}

	return &Blob{data: b, typ: typ}, nil
}

// Stream returns the contents of f as a stream. It returns as soon as the
// response headers have been received; the body is read from the network as
// the stream is read. The caller must close the stream.
func (f *File) Stream(ctx context.Context) (io.ReadCloser, error) {
	if f.size == 0 {
		return http.NoBody, nil
	}

	resp, err := f.request(ctx)
	if err != nil {
		return nil, err
	}

	return resp.Body, nil
}
