// Package tracetransport instruments a [urlfile.Transport] for distributed
// tracing. The OpenTelemetry API is supported.
//
// # Usage
//
// Wrap a Transport with [New], and pass the result to [urlfile.WithTransport].
// Every request gets a span, which starts when the request is sent and ends
// when the response body is closed, so the span covers the whole transfer of
// the requested range.
//
// In order to report traces, an OTel [trace.TracerProvider] must first be set
// up. The details of this are outside the scope of this module, but see the
// urlcli example in this repository's examples directory for one approach.
//
// A [trace.TracerProvider] can optionally be passed to [New] using
// [WithTracerProvider].
//
// # Propagation
//
// By default, the global [propagation.TextMapPropagator] is used to inject
// trace information into the outgoing request headers. This can be overridden
// by passing a [propagation.TextMapPropagator] to [WithPropagators].
package tracetransport

import (
	"fmt"
	"io"
	"net/http"

	"github.com/hairyhenderson/go-urlfile"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

type traceTransport struct {
	next        urlfile.Transport
	tracer      trace.Tracer
	propagators propagation.TextMapPropagator
}

const tracerName = "github.com/hairyhenderson/go-urlfile/tracetransport"

// New returns a Transport that instruments next, adding a trace span for each
// request. The request's context is used as the parent of the span.
func New(next urlfile.Transport, opts ...Option) urlfile.Transport {
	cfg := config{}
	for _, opt := range opts {
		opt.apply(&cfg)
	}

	if cfg.tp == nil {
		cfg.tp = otel.GetTracerProvider()
	}

	if cfg.propagators == nil {
		cfg.propagators = otel.GetTextMapPropagator()
	}

	return &traceTransport{
		next:        next,
		tracer:      cfg.tp.Tracer(tracerName),
		propagators: cfg.propagators,
	}
}

func reqattribs(next urlfile.Transport, req *http.Request) trace.SpanStartEventOption {
	attrs := []attribute.KeyValue{
		URL(req.URL.Redacted()),
		Method(req.Method),
		Type(fmt.Sprintf("%T", next)),
	}

	if r := req.Header.Get("Range"); r != "" {
		attrs = append(attrs, Range(r))
	}

	return trace.WithAttributes(attrs...)
}

func (t *traceTransport) Do(req *http.Request) (*http.Response, error) {
	ctx, span := t.tracer.Start(req.Context(), "transport."+req.Method,
		reqattribs(t.next, req), trace.WithSpanKind(trace.SpanKindClient))

	// don't modify the caller's request
	req = req.Clone(ctx)
	t.propagators.Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := t.next.Do(req)
	if err != nil {
		defer span.End()

		return nil, recordError(span, err)
	}

	span.SetAttributes(StatusCode(resp.StatusCode))

	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}

	if cr := resp.Header.Get("Content-Range"); cr != "" {
		span.SetAttributes(ContentRange(cr))
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		span.SetAttributes(ContentType(ct))
	}

	body := resp.Body
	if body == nil {
		body = http.NoBody
	}

	resp.Body = &traceBody{rc: body, span: span}

	return resp, nil
}

// traceBody ends the request's span when it's closed
type traceBody struct {
	rc   io.ReadCloser
	span trace.Span
	n    int64
}

func (b *traceBody) Read(p []byte) (int, error) {
	n, err := b.rc.Read(p)
	b.n += int64(n)

	if err != nil && err != io.EOF {
		b.span.RecordError(err)
	}

	return n, err
}

func (b *traceBody) Close() error {
	defer b.span.End()

	b.span.SetAttributes(BytesRead(b.n))

	return recordError(b.span, b.rc.Close())
}

// recordError records the given error on the span, and returns it. It does not
// set the span's status to error.
func recordError(span trace.Span, err error) error {
	span.RecordError(err)

	return err
}
