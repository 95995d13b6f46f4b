package urlfile

import (
	"net/http"
	"time"
)

// Option configures a File created with New or Discover.
type Option interface {
	apply(*config)
}

type config struct {
	transport Transport
	lookup    TypeLookup
	header    http.Header
	typ       *string
	window    *window
	modTime   time.Time
	name      string
	relPath   string
	trueSize  int64
	rangeChk  bool
}

type window struct {
	start, end int64
}

type optionFunc func(*config)

func (o optionFunc) apply(c *config) {
	o(c)
}

func newConfig(opts []Option) config {
	cfg := config{trueSize: -1}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.transport == nil {
		cfg.transport = DefaultTransport
	}

	if cfg.lookup == nil {
		cfg.lookup = ContentTypeByName
	}

	return cfg
}

// WithTransport sets the Transport used for all requests made by the File and
// its slices. If none is specified, DefaultTransport is used.
func WithTransport(t Transport) Option {
	return optionFunc(func(cfg *config) {
		if t != nil {
			cfg.transport = t
		}
	})
}

// WithType sets the MIME type explicitly, disabling inference from the URL.
// An empty type is honoured.
func WithType(typ string) Option {
	return optionFunc(func(cfg *config) {
		cfg.typ = &typ
	})
}

// WithName sets the file name. An empty name means the name is inferred from
// the URL path.
func WithName(name string) Option {
	return optionFunc(func(cfg *config) {
		cfg.name = name
	})
}

// WithRelativePath sets the relative path. An empty path means it is inferred
// from the URL path.
func WithRelativePath(p string) Option {
	return optionFunc(func(cfg *config) {
		cfg.relPath = p
	})
}

// WithModTime sets the modification time. If none is specified, the time of
// construction is used.
func WithModTime(t time.Time) Option {
	return optionFunc(func(cfg *config) {
		cfg.modTime = t
	})
}

// WithLastModified sets the modification time in milliseconds since the Unix
// epoch.
func WithLastModified(ms int64) Option {
	return optionFunc(func(cfg *config) {
		cfg.modTime = time.UnixMilli(ms)
	})
}

// WithTrueSize sets the size of the whole remote resource, when the File
// being created only covers part of it. Negative values are ignored.
func WithTrueSize(n int64) Option {
	return optionFunc(func(cfg *config) {
		if n >= 0 {
			cfg.trueSize = n
		}
	})
}

// WithWindow sets the byte window [start, end) of the remote resource that the
// File maps to. The window is clamped to the resource, and the File's size
// becomes end-start.
func WithWindow(start, end int64) Option {
	return optionFunc(func(cfg *config) {
		cfg.window = &window{start: start, end: end}
	})
}

// WithHeader adds headers to every request made by the File and its slices,
// for example for authentication. Multiple uses are merged.
func WithHeader(h http.Header) Option {
	return optionFunc(func(cfg *config) {
		if h == nil {
			return
		}

		if cfg.header == nil {
			cfg.header = http.Header{}
		}

		for k, vs := range h {
			for _, v := range vs {
				cfg.header.Add(k, v)
			}
		}
	})
}

// WithTypeLookup sets the function used to infer the MIME type from the file
// name. If none is specified, ContentTypeByName is used.
func WithTypeLookup(lookup TypeLookup) Option {
	return optionFunc(func(cfg *config) {
		if lookup != nil {
			cfg.lookup = lookup
		}
	})
}

// WithRangeCheck enables verification that responses actually carry the
// requested byte range. When enabled, a response that is neither a 206 with
// the requested Content-Range nor a 200 for a view spanning the whole
// resource fails with an *UnexpectedRangeResponseError.
func WithRangeCheck(enabled bool) Option {
	return optionFunc(func(cfg *config) {
		cfg.rangeChk = enabled
	})
}
