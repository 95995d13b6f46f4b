package tracetransport

import (
	"go.opentelemetry.io/otel/attribute"
)

const (
	typeKey   = attribute.Key("transport.type")
	urlKey    = attribute.Key("url.full")
	methodKey = attribute.Key("http.request.method")
	rangeKey  = attribute.Key("http.request.header.range")

	statusKey       = attribute.Key("http.response.status_code")
	contentRangeKey = attribute.Key("http.response.header.content_range")
	contentTypeKey  = attribute.Key("http.response.header.content_type")

	bytesReadKey = attribute.Key("body.bytes_read")
)

// The type of the Transport being instrumented.
//
// Type: string
// Required: Yes
// Examples: "*urlfile.httpTransport", "urlfile.TransportMux"
func Type(name string) attribute.KeyValue {
	return typeKey.String(name)
}

// The URL being requested, with any password redacted.
//
// Type: string
// Required: Yes
// Examples: "https://example.com/archive.zip", "s3://bucket/file.iso"
func URL(url string) attribute.KeyValue {
	return urlKey.String(url)
}

// The request method.
//
// Type: string
// Required: Yes
// Examples: "GET", "HEAD"
func Method(method string) attribute.KeyValue {
	return methodKey.String(method)
}

// The byte range requested.
//
// Type: string
// Required: No
// Examples: "bytes=0-99", "bytes=0-0"
func Range(r string) attribute.KeyValue {
	return rangeKey.String(r)
}

// The status code of the response.
//
// Type: int
// Required: No
// Examples: 206, 404
func StatusCode(code int) attribute.KeyValue {
	return statusKey.Int(code)
}

// The byte range actually returned.
//
// Type: string
// Required: No
// Examples: "bytes 0-99/1234", "bytes 0-0/*"
func ContentRange(r string) attribute.KeyValue {
	return contentRangeKey.String(r)
}

// The MIME type of the response.
//
// Type: string
// Required: No
// Examples: "application/zip", "text/plain; charset=utf-8"
func ContentType(typ string) attribute.KeyValue {
	return contentTypeKey.String(typ)
}

// The number of bytes read from the response body before it was closed.
//
// Type: int64
// Required: No
// Examples: 1024, 0
func BytesRead(n int64) attribute.KeyValue {
	return bytesReadKey.Int64(n)
}
