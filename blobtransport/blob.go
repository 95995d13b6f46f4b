package blobtransport

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/hairyhenderson/go-urlfile"
	"github.com/hairyhenderson/go-urlfile/internal/env"
	"gocloud.dev/blob"
	"gocloud.dev/blob/azureblob"
	"gocloud.dev/blob/gcsblob"
	"gocloud.dev/blob/s3blob"
	"gocloud.dev/gcerrors"
	"gocloud.dev/gcp"
)

// Transport is a urlfile.Transport that reads objects from blob storage
// buckets. Opened buckets are kept for reuse until Close is called.
//
// A Transport is safe for concurrent use.
type Transport struct {
	hclient *http.Client
	envfs   fs.FS
	buckets map[string]*blob.Bucket
	static  map[string]bool
	mu      sync.Mutex
}

var _ urlfile.Transport = (*Transport)(nil)

// Option configures a Transport.
type Option interface {
	apply(*Transport)
}

type optionFunc func(*Transport)

func (o optionFunc) apply(t *Transport) {
	o(t)
}

// WithHTTPClient sets the HTTP client used to reach Google Cloud Storage.
func WithHTTPClient(client *http.Client) Option {
	return optionFunc(func(t *Transport) {
		if client != nil {
			t.hclient = client
		}
	})
}

// WithBucket registers an already-opened bucket for URLs with the given
// scheme and host (e.g. "mem://mybucket"). Registered buckets are used
// instead of opening one from the URL, and any scheme may be used. They are
// not closed by Close.
func WithBucket(bucketURL string, bucket *blob.Bucket) Option {
	return optionFunc(func(t *Transport) {
		u, err := url.Parse(bucketURL)
		if err != nil || bucket == nil {
			return
		}

		k := bucketKey(u)
		t.buckets[k] = bucket
		t.static[k] = true
	})
}

// New returns a Transport for blob storage buckets.
func New(opts ...Option) *Transport {
	t := &Transport{
		hclient: http.DefaultClient,
		envfs:   os.DirFS("/"),
		buckets: map[string]*blob.Bucket{},
		static:  map[string]bool{},
	}

	for _, opt := range opts {
		opt.apply(t)
	}

	return t
}

// Schemes returns the URL schemes this transport can open buckets for,
// suitable for registering with a urlfile.TransportMux.
func Schemes() []string {
	return []string{s3blob.Scheme, gcsblob.Scheme, azureblob.Scheme}
}

// Close closes every bucket opened by the Transport.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error

	for k, b := range t.buckets {
		if t.static[k] {
			continue
		}

		if err := b.Close(); err != nil {
			errs = append(errs, err)
		}

		delete(t.buckets, k)
	}

	if len(errs) > 0 {
		return fmt.Errorf("close buckets: %v", errs)
	}

	return nil
}

func bucketKey(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}

func (t *Transport) bucket(ctx context.Context, u *url.URL) (*blob.Bucket, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	k := bucketKey(u)
	if b, ok := t.buckets[k]; ok {
		return b, nil
	}

	bu := t.cleanCdkURL(*u)
	bu.Path = ""

	b, err := t.openBucket(ctx, u, &bu)
	if err != nil {
		return nil, fmt.Errorf("open bucket: %w", err)
	}

	t.buckets[k] = b

	return b, nil
}

// openBucket opens the bucket named by the cleaned URL bu. The original URL u
// is consulted for options the Go CDK can't take as URL parameters.
func (t *Transport) openBucket(ctx context.Context, u, bu *url.URL) (*blob.Bucket, error) {
	if u.Scheme == s3blob.Scheme && t.s3Anonymous(u) {
		return t.openAnonS3Bucket(ctx, bu)
	}

	o, err := t.newOpener(ctx, u.Scheme)
	if err != nil {
		return nil, fmt.Errorf("bucket opener: %w", err)
	}

	return o.OpenBucketURL(ctx, bu)
}

// create the correct kind of blob.BucketURLOpener for the given scheme
func (t *Transport) newOpener(ctx context.Context, scheme string) (blob.BucketURLOpener, error) {
	switch scheme {
	case s3blob.Scheme, azureblob.Scheme:
		// see https://gocloud.dev/concepts/urls/#muxes
		return blob.DefaultURLMux(), nil
	case gcsblob.Scheme:
		if env.GetenvFS(t.envfs, "GOOGLE_ANON") == "true" {
			return &gcsblob.URLOpener{
				Client: gcp.NewAnonymousHTTPClient(t.hclient.Transport),
			}, nil
		}

		creds, err := gcp.DefaultCredentials(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve GCP credentials: %w", err)
		}

		client, err := gcp.NewHTTPClient(
			t.hclient.Transport,
			gcp.CredentialsTokenSource(creds))
		if err != nil {
			return nil, fmt.Errorf("failed to create GCP HTTP client: %w", err)
		}

		return &gcsblob.URLOpener{Client: client}, nil
	default:
		return nil, fmt.Errorf("unsupported scheme: %s", scheme)
	}
}

// Do answers HEAD and GET requests for the object named by the request URL.
// Error statuses are returned as a *urlfile.StatusError.
func (t *Transport) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	switch req.Method {
	case http.MethodHead, http.MethodGet:
	default:
		return nil, &urlfile.StatusError{Method: req.Method, Code: http.StatusMethodNotAllowed}
	}

	b, err := t.bucket(ctx, req.URL)
	if err != nil {
		return nil, err
	}

	key := strings.TrimPrefix(req.URL.Path, "/")

	attrs, err := b.Attributes(ctx, key)
	if err != nil {
		return nil, statusErr(req.Method, err)
	}

	hdr := http.Header{}
	hdr.Set("Accept-Ranges", "bytes")
	hdr.Set("Content-Length", strconv.FormatInt(attrs.Size, 10))

	if attrs.ContentType != "" {
		hdr.Set("Content-Type", attrs.ContentType)
	}

	if !attrs.ModTime.IsZero() {
		hdr.Set("Last-Modified", attrs.ModTime.UTC().Format(http.TimeFormat))
	}

	if attrs.ETag != "" {
		hdr.Set("ETag", attrs.ETag)
	}

	if req.Method == http.MethodHead {
		return response(req, http.StatusOK, hdr, attrs.Size, http.NoBody), nil
	}

	rng := req.Header.Get("Range")
	if rng == "" {
		r, err := b.NewReader(ctx, key, nil)
		if err != nil {
			return nil, statusErr(req.Method, err)
		}

		return response(req, http.StatusOK, hdr, attrs.Size, r), nil
	}

	start, length, err := parseRange(rng, attrs.Size)
	if err != nil {
		return nil, &urlfile.StatusError{Method: req.Method, Code: http.StatusRequestedRangeNotSatisfiable}
	}

	r, err := b.NewRangeReader(ctx, key, start, length, nil)
	if err != nil {
		return nil, statusErr(req.Method, err)
	}

	hdr.Set("Content-Length", strconv.FormatInt(length, 10))
	hdr.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", start, start+length-1, attrs.Size))

	return response(req, http.StatusPartialContent, hdr, length, r), nil
}

func response(req *http.Request, code int, hdr http.Header, n int64, body io.ReadCloser) *http.Response {
	return &http.Response{
		Status:        fmt.Sprintf("%d %s", code, http.StatusText(code)),
		StatusCode:    code,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        hdr,
		Body:          body,
		ContentLength: n,
		Request:       req,
	}
}

// statusErr translates Go CDK errors into HTTP-style status errors
func statusErr(method string, err error) error {
	switch gcerrors.Code(err) {
	case gcerrors.NotFound:
		return fmt.Errorf("%w: %w", &urlfile.StatusError{Method: method, Code: http.StatusNotFound}, err)
	case gcerrors.PermissionDenied:
		return fmt.Errorf("%w: %w", &urlfile.StatusError{Method: method, Code: http.StatusForbidden}, err)
	case gcerrors.InvalidArgument:
		return fmt.Errorf("%w: %w", &urlfile.StatusError{Method: method, Code: http.StatusBadRequest}, err)
	default:
		return err
	}
}
