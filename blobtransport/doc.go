// Package blobtransport provides a urlfile.Transport backed by blob stores such
// as Google Cloud Storage, Azure Blob Storage, or AWS S3, so that objects can
// be read as remote files with the same range semantics as HTTP.
//
// # Usage
//
// Create a Transport with New, and pass it to urlfile.New or urlfile.Discover
// with urlfile.WithTransport. URLs have the form scheme://bucket/key, where
// the schemes "s3", "gs", and "azblob" are supported. Query parameters
// understood by the Go CDK (such as "region" or "endpoint" for S3) are passed
// through when opening the bucket; all others are removed.
//
// HEAD requests are answered from the object's attributes, and GET requests
// with a Range header read only the requested bytes from the store.
//
// # Configuration
//
// The following environment variables are consulted when the URL doesn't say
// otherwise. Each can also be given as a file with the _FILE suffix (for
// example AWS_ANON_FILE).
//
//   - AWS_S3_ENDPOINT - the S3 endpoint to use
//   - AWS_REGION or AWS_DEFAULT_REGION - the S3 region
//   - AWS_ANON - set to "true" to make anonymous S3 requests (the URL parameter
//     "anonymous" overrides it)
//   - GOOGLE_ANON - set to "true" to make anonymous GCS requests
//
// Other credentials are found the usual way for each cloud's SDK.
package blobtransport
