package urlfile

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Discover probes the resource at u with a HEAD request and returns a File
// spanning the whole resource, sized and typed from the response headers.
// When the server doesn't allow HEAD (405 Method Not Allowed), a one-byte
// ranged GET is made instead.
//
// Options are applied after the discovered metadata, so they can be used to
// override it. The transport given with WithTransport is used for the probe.
//
// Discover returns ErrRangeUnsupported when the server declares no support
// for range requests, and ErrInvalidSize when it does not report the size.
func Discover(ctx context.Context, u *url.URL, opts ...Option) (*File, error) {
	if u == nil {
		return nil, ErrInvalidURL
	}

	cfg := newConfig(opts)

	hdr, size, err := probe(ctx, cfg.transport, u, cfg.header)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", u.Redacted(), err)
	}

	if strings.EqualFold(strings.TrimSpace(hdr.Get("Accept-Ranges")), "none") {
		return nil, fmt.Errorf("discover %s: %w", u.Redacted(), ErrRangeUnsupported)
	}

	modTime := time.Now()
	if lm := hdr.Get("Last-Modified"); lm != "" {
		// best-effort - if it can't be parsed, just ignore it...
		if t, err := http.ParseTime(lm); err == nil {
			modTime = t
		}
	}

	dopts := []Option{WithModTime(modTime)}
	if ct := hdr.Get("Content-Type"); ct != "" {
		dopts = append(dopts, WithType(ct))
	}

	f, err := New(u, size, append(dopts, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", u.Redacted(), err)
	}

	return f, nil
}

// probe returns the headers and size of the resource at u. A size of -1 means
// the size is unknown.
func probe(ctx context.Context, t Transport, u *url.URL, header http.Header) (http.Header, int64, error) {
	resp, err := send(ctx, t, http.MethodHead, u, header, nil)
	if err == nil && resp.StatusCode != http.StatusMethodNotAllowed {
		defer resp.Body.Close()

		return resp.Header, headerLength(resp), nil
	}

	var se *StatusError
	if err != nil && (!errors.As(err, &se) || se.StatusCode() != http.StatusMethodNotAllowed) {
		return nil, -1, err
	}

	if resp != nil {
		resp.Body.Close()
	}

	// fall back to GET if HEAD returns 405
	resp, err = send(ctx, t, http.MethodGet, u, header, http.Header{"Range": {"bytes=0-0"}})
	if err != nil {
		return nil, -1, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusPartialContent {
		return resp.Header, rangeTotal(resp.Header.Get("Content-Range")), nil
	}

	return resp.Header, headerLength(resp), nil
}

func send(ctx context.Context, t Transport, method string, u *url.URL, header, extra http.Header) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, err
	}

	for _, h := range []http.Header{header, extra} {
		for k, vs := range h {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}

	resp, err := t.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.Body == nil {
		resp.Body = http.NoBody
	}

	// plain *http.Client transports don't fail on error statuses. A HEAD
	// answered with 405 is left for the caller to fall back to GET.
	headNotAllowed := method == http.MethodHead && resp.StatusCode == http.StatusMethodNotAllowed
	if resp.StatusCode >= 400 && !headNotAllowed {
		resp.Body.Close()

		return nil, &StatusError{Method: method, Code: resp.StatusCode}
	}

	return resp, nil
}

func headerLength(resp *http.Response) int64 {
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(cl), 10, 64)
		if err != nil {
			return -1
		}

		return n
	}

	return resp.ContentLength
}

// rangeTotal returns the complete length from a Content-Range header such as
// "bytes 0-0/1234", or -1 if it's unknown.
func rangeTotal(cr string) int64 {
	i := strings.LastIndexByte(cr, '/')
	if i == -1 {
		return -1
	}

	n, err := strconv.ParseInt(strings.TrimSpace(cr[i+1:]), 10, 64)
	if err != nil {
		return -1
	}

	return n
}
