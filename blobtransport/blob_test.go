package blobtransport

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"testing/fstest"
	"time"

	"github.com/fsouza/fake-gcs-server/fakestorage"
	"github.com/hairyhenderson/go-urlfile"
	"github.com/hairyhenderson/go-urlfile/internal/tests"
	"github.com/johannesboyne/gofakes3"
	"github.com/johannesboyne/gofakes3/backend/s3mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/memblob"
	"gotest.tools/v3/fs"
)

func setupMemBucket(t *testing.T) *blob.Bucket {
	t.Helper()

	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)

	t.Cleanup(func() { bucket.Close() })

	require.NoError(t, bucket.WriteAll(ctx, "dir/hello.txt", []byte("hello, world"),
		&blob.WriterOptions{ContentType: "text/plain"}))
	require.NoError(t, bucket.WriteAll(ctx, "empty", []byte{},
		&blob.WriterOptions{ContentType: "application/octet-stream"}))

	return bucket
}

func TestTransport_Discover(t *testing.T) {
	ctx := context.Background()

	tr := New(WithBucket("mem://test", setupMemBucket(t)))

	f, err := urlfile.Discover(ctx, tests.MustURL("mem://test/dir/hello.txt"), urlfile.WithTransport(tr))
	require.NoError(t, err)

	assert.Equal(t, int64(12), f.Size())
	assert.Equal(t, "text/plain", f.Type())
	assert.Equal(t, "hello", f.Name())
	assert.Equal(t, "dir", f.RelativePath())
	assert.WithinDuration(t, time.Now(), f.ModTime(), time.Minute)

	s, err := f.Slice(7, 12).Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "world", s)

	b, err := f.SliceFrom(-5).Bytes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), b)

	blb, err := f.Slice(0, 5).Blob(ctx)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", blb.Type())
	assert.Equal(t, []byte("hello"), blb.Bytes())

	f, err = urlfile.Discover(ctx, tests.MustURL("mem://test/empty"), urlfile.WithTransport(tr))
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.Size())
}

func TestTransport_Do(t *testing.T) {
	ctx := context.Background()

	tr := New(WithBucket("mem://test", setupMemBucket(t)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "mem://test/dir/hello.txt", nil)
	require.NoError(t, err)

	req.Header.Set("Range", "bytes=0-4")

	resp, err := tr.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	assert.Equal(t, http.StatusPartialContent, resp.StatusCode)
	assert.Equal(t, "bytes 0-4/12", resp.Header.Get("Content-Range"))
	assert.Equal(t, "5", resp.Header.Get("Content-Length"))
	assert.Equal(t, "bytes", resp.Header.Get("Accept-Ranges"))
	assert.Equal(t, int64(5), resp.ContentLength)

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	// no range means the whole object
	req.Header.Del("Range")

	resp, err = tr.Do(req)
	require.NoError(t, err)

	b, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello, world", string(b))

	req.Header.Set("Range", "bytes=100-200")

	_, err = tr.Do(req)

	var se *urlfile.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusRequestedRangeNotSatisfiable, se.StatusCode())

	req, err = http.NewRequestWithContext(ctx, http.MethodHead, "mem://test/missing", nil)
	require.NoError(t, err)

	_, err = tr.Do(req)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode())

	req, err = http.NewRequestWithContext(ctx, http.MethodPut, "mem://test/dir/hello.txt", nil)
	require.NoError(t, err)

	_, err = tr.Do(req)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusMethodNotAllowed, se.StatusCode())

	// unknown schemes can't be opened
	req, err = http.NewRequestWithContext(ctx, http.MethodHead, "foo://test/dir/hello.txt", nil)
	require.NoError(t, err)

	_, err = tr.Do(req)
	require.Error(t, err)

	// registered buckets aren't closed
	require.NoError(t, tr.Close())

	req, err = http.NewRequestWithContext(ctx, http.MethodHead, "mem://test/dir/hello.txt", nil)
	require.NoError(t, err)

	resp, err = tr.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "12", resp.Header.Get("Content-Length"))
}

func TestTransport_Zip(t *testing.T) {
	ctx := context.Background()

	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)

	w, err := zw.Create("inner/file.txt")
	require.NoError(t, err)

	_, err = w.Write([]byte("zipped content"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	dir := fs.NewDir(t, "blobs", fs.WithFile("archive.zip", buf.String()))

	bucket, err := fileblob.OpenBucket(dir.Path(), nil)
	require.NoError(t, err)

	t.Cleanup(func() { bucket.Close() })

	tr := New(WithBucket("local://files", bucket))

	f, err := urlfile.Discover(ctx, tests.MustURL("local://files/archive.zip"), urlfile.WithTransport(tr))
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), f.Size())

	zr, err := zip.NewReader(f.ReaderAt(ctx), f.Size())
	require.NoError(t, err)
	require.Len(t, zr.File, 1)

	rc, err := zr.File[0].Open()
	require.NoError(t, err)

	defer rc.Close()

	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "zipped content", string(b))
}

func setupTestS3Bucket(t *testing.T) *url.URL {
	t.Helper()

	backend := s3mem.New()
	faker := gofakes3.New(backend)

	srv := httptest.NewServer(faker.Server())

	t.Cleanup(srv.Close)

	require.NoError(t, backend.CreateBucket("mybucket"))

	_, err := backend.PutObject("mybucket", "dir/file.txt",
		map[string]string{"Content-Type": "text/plain"},
		bytes.NewBufferString("hello from s3"), 13)
	require.NoError(t, err)

	return tests.MustURL(srv.URL)
}

func TestTransport_S3(t *testing.T) {
	srvURL := setupTestS3Bucket(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Setenv("AWS_ANON", "true")

	tr := New()
	t.Cleanup(func() { tr.Close() })

	f, err := urlfile.Discover(ctx,
		tests.MustURL("s3://mybucket/dir/file.txt?region=us-east-1&disableSSL=true&s3ForcePathStyle=true&endpoint="+srvURL.Host),
		urlfile.WithTransport(tr))
	require.NoError(t, err)

	assert.Equal(t, int64(13), f.Size())
	assert.Equal(t, "text/plain", f.Type())

	s, err := f.Slice(6, 10).Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "from", s)
}

func TestTransport_S3AnonymousParam(t *testing.T) {
	srvURL := setupTestS3Bucket(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	t.Setenv("AWS_ANON", "")

	tr := New()
	t.Cleanup(func() { tr.Close() })

	f, err := urlfile.Discover(ctx,
		tests.MustURL("s3://mybucket/dir/file.txt?anonymous=true&use_path_style=true&disable_https=true&endpoint="+srvURL.Host),
		urlfile.WithTransport(tr))
	require.NoError(t, err)
	assert.Equal(t, int64(13), f.Size())

	b, err := f.SliceFrom(-2).Bytes(ctx)
	require.NoError(t, err)
	assert.Equal(t, "s3", string(b))
}

func TestS3Anonymous(t *testing.T) {
	tr := New()
	tr.envfs = fstest.MapFS{}

	t.Setenv("AWS_ANON", "")
	assert.False(t, tr.s3Anonymous(tests.MustURL("s3://foo/bar")))
	assert.True(t, tr.s3Anonymous(tests.MustURL("s3://foo/bar?anonymous=true")))
	assert.False(t, tr.s3Anonymous(tests.MustURL("s3://foo/bar?anonymous=nope")))

	t.Setenv("AWS_ANON", "true")
	assert.True(t, tr.s3Anonymous(tests.MustURL("s3://foo/bar")))
	assert.False(t, tr.s3Anonymous(tests.MustURL("s3://foo/bar?anonymous=false")))
}

func TestTransport_GCS(t *testing.T) {
	srv, err := fakestorage.NewServerWithOptions(fakestorage.Options{
		InitialObjects: []fakestorage.Object{
			{
				ObjectAttrs: fakestorage.ObjectAttrs{
					BucketName: "mybucket", Name: "dir/file.txt", ContentType: "text/plain",
				},
				Content: []byte("hello from gcs"),
			},
		},
		Scheme: "http",
		Host:   "127.0.0.1",
	})
	require.NoError(t, err)
	t.Cleanup(srv.Stop)

	t.Setenv("GOOGLE_ANON", "true")

	ctx := context.Background()

	tr := New(WithHTTPClient(srv.HTTPClient()))
	t.Cleanup(func() { tr.Close() })

	f, err := urlfile.Discover(ctx, tests.MustURL("gs://mybucket/dir/file.txt"), urlfile.WithTransport(tr))
	require.NoError(t, err)

	assert.Equal(t, int64(14), f.Size())
	assert.Equal(t, "text/plain", f.Type())

	s, err := f.SliceFrom(-3).Text(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gcs", s)
}

func TestParseRange(t *testing.T) {
	testdata := []struct {
		in            string
		size          int64
		start, length int64
		ok            bool
	}{
		{"bytes=0-0", 10, 0, 1, true},
		{"bytes=0-9", 10, 0, 10, true},
		{"bytes=2-", 10, 2, 8, true},
		{"bytes=5-100", 10, 5, 5, true},
		{"bytes=-3", 10, 7, 3, true},
		{"bytes=-30", 10, 0, 10, true},
		{"bytes= 1 - 2", 10, 1, 2, true},
		{"bytes=10-20", 10, 0, 0, false},
		{"bytes=5-4", 10, 0, 0, false},
		{"bytes=0-1,3-4", 10, 0, 0, false},
		{"bytes=-0", 10, 0, 0, false},
		{"bytes=0-0", 0, 0, 0, false},
		{"items=0-1", 10, 0, 0, false},
		{"bytes=a-b", 10, 0, 0, false},
		{"bytes=5", 10, 0, 0, false},
	}

	for _, d := range testdata {
		start, length, err := parseRange(d.in, d.size)
		if !d.ok {
			assert.Error(t, err, d.in)

			continue
		}

		require.NoError(t, err, d.in)
		assert.Equal(t, d.start, start, d.in)
		assert.Equal(t, d.length, length, d.in)
	}
}

func TestCleanCdkURL(t *testing.T) {
	for _, k := range []string{"AWS_S3_ENDPOINT", "AWS_REGION", "AWS_DEFAULT_REGION", "AWS_ANON"} {
		t.Setenv(k, "")
	}

	tr := New()
	tr.envfs = fstest.MapFS{}

	data := []struct {
		in, expected string
	}{
		{"s3://foo/bar/baz", "s3://foo/bar/baz"},
		{"s3://foo/bar/baz?type=hello/world", "s3://foo/bar/baz"},
		{"s3://foo/bar/baz?region=us-east-1", "s3://foo/bar/baz?region=us-east-1"},
		{"s3://foo/bar/baz?anonymous=true&region=us-east-1", "s3://foo/bar/baz?region=us-east-1"},
		{"s3://foo/bar/baz?disableSSL=true&type=text/csv", "s3://foo/bar/baz?disable_https=true"},
		{
			"s3://foo/bar/baz?type=text/csv&s3ForcePathStyle=true&endpoint=1.2.3.4",
			"s3://foo/bar/baz?endpoint=https%3A%2F%2F1.2.3.4&use_path_style=true",
		},
		{
			"s3://foo/bar/baz?disableSSL=true&endpoint=localhost:9000",
			"s3://foo/bar/baz?disable_https=true&endpoint=http%3A%2F%2Flocalhost%3A9000",
		},
		{"gs://foo/bar/baz", "gs://foo/bar/baz"},
		{"gs://foo/bar/baz?type=foo/bar", "gs://foo/bar/baz"},
		{"gs://foo/bar/baz?access_id=123", "gs://foo/bar/baz?access_id=123"},
		{"gs://foo/bar/baz?private_key_path=/foo/bar", "gs://foo/bar/baz?private_key_path=%2Ffoo%2Fbar"},
		{"gs://foo/bar/baz?private_key_path=key.json&foo=bar&access_id=abcd", "gs://foo/bar/baz?access_id=abcd&private_key_path=key.json"},
		{"azblob://foo/bar?domain=example.com&x=y", "azblob://foo/bar?domain=example.com"},
		{"mem://foo/bar?x=y", "mem://foo/bar?x=y"},
	}

	for _, d := range data {
		u := tests.MustURL(d.in)
		expected := tests.MustURL(d.expected)
		assert.Equal(t, *expected, tr.cleanCdkURL(*u), d.in)
	}
}

func TestCleanCdkURL_Env(t *testing.T) {
	tr := New()

	t.Setenv("AWS_S3_ENDPOINT", "minio.local:9000")
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("AWS_ANON", "true")

	u := tr.cleanCdkURL(*tests.MustURL("s3://foo/bar"))
	assert.Equal(t, "endpoint=https%3A%2F%2Fminio.local%3A9000&region=eu-west-1", u.RawQuery)

	// params in the URL win
	u = tr.cleanCdkURL(*tests.MustURL("s3://foo/bar?region=us-east-1"))
	assert.Equal(t, "us-east-1", u.Query().Get("region"))
}
