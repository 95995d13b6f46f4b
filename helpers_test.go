package urlfile

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/hairyhenderson/go-urlfile/internal/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testData(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i % 251)
	}

	return b
}

// recordingTransport answers range requests from data, and keeps every
// request it has seen.
type recordingTransport struct {
	data []byte
	reqs []*http.Request
	lk   sync.Mutex
}

func (rt *recordingTransport) Do(req *http.Request) (*http.Response, error) {
	rt.lk.Lock()
	rt.reqs = append(rt.reqs, req)
	rt.lk.Unlock()

	var start, end int64
	if _, err := fmt.Sscanf(req.Header.Get("Range"), "bytes=%d-%d", &start, &end); err != nil {
		return nil, fmt.Errorf("bad range %q: %w", req.Header.Get("Range"), err)
	}

	body := rt.data[start : end+1]

	return &http.Response{
		StatusCode:    http.StatusPartialContent,
		Header:        http.Header{"Content-Range": {fmt.Sprintf("bytes %d-%d/%d", start, end, len(rt.data))}},
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}, nil
}

func (rt *recordingTransport) calls() int {
	rt.lk.Lock()
	defer rt.lk.Unlock()

	return len(rt.reqs)
}

func (rt *recordingTransport) last() *http.Request {
	rt.lk.Lock()
	defer rt.lk.Unlock()

	return rt.reqs[len(rt.reqs)-1]
}

// noNetwork is a transport that fails the test if it's ever used
func noNetwork(t *testing.T) Transport {
	return TransportFunc(func(req *http.Request) (*http.Response, error) {
		t.Errorf("unexpected %s request for %s", req.Method, req.URL)

		return nil, fmt.Errorf("unexpected request")
	})
}

func newTestFile(t *testing.T, rt Transport, size int64, opts ...Option) *File {
	t.Helper()

	f, err := New(tests.MustURL("https://example.com/files/data.bin"), size,
		append([]Option{WithTransport(rt)}, opts...)...)
	require.NoError(t, err)

	return f
}

func assertInvariants(t *testing.T, f *File) {
	t.Helper()

	assert.Equal(t, f.End()-f.Start(), f.Size(), "size must equal end-start for %s", f)
	assert.GreaterOrEqual(t, f.Start(), int64(0), "start must be non-negative for %s", f)
	assert.LessOrEqual(t, f.Start(), f.End(), "start must not be after end for %s", f)
	assert.LessOrEqual(t, f.End(), f.TrueSize(), "end must not be after the true size for %s", f)
}

// setupRangeServer serves data at /data.bin (and any other path) with full
// range support, and counts requests.
func setupRangeServer(t *testing.T, data []byte, contentType string) (*httptest.Server, *int) {
	t.Helper()

	lmod, _ := time.Parse(time.RFC3339, "2021-04-01T12:00:00Z")

	var lk sync.Mutex

	count := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lk.Lock()
		count++
		lk.Unlock()

		w.Header().Set("Content-Type", contentType)
		http.ServeContent(w, r, "", lmod, bytes.NewReader(data))
	}))
	t.Cleanup(srv.Close)

	return srv, &count
}
