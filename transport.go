package urlfile

import (
	"net/http"
)

// Transport performs the HTTP requests issued by a File. It is satisfied by
// *http.Client, which reports non-2xx responses as successful; use
// HTTPTransport to have error statuses returned as a *StatusError instead.
type Transport interface {
	Do(req *http.Request) (*http.Response, error)
}

// TransportFunc adapts an ordinary function to the Transport interface.
type TransportFunc func(req *http.Request) (*http.Response, error)

// Do calls f(req).
func (f TransportFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// DefaultTransport is the Transport used by New and Discover when none is
// given with WithTransport. It wraps http.DefaultClient.
//
//nolint:gochecknoglobals
var DefaultTransport = HTTPTransport(http.DefaultClient)

type httpTransport struct {
	client *http.Client
}

// HTTPTransport returns a Transport that sends requests with the given client.
// Responses with a status of 400 or above are closed and returned as a
// *StatusError. A nil client means http.DefaultClient.
func HTTPTransport(client *http.Client) Transport {
	if client == nil {
		client = http.DefaultClient
	}

	return &httpTransport{client: client}
}

func (t *httpTransport) Do(req *http.Request) (*http.Response, error) {
	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == 0 || resp.StatusCode >= 400 {
		resp.Body.Close()

		return nil, &StatusError{Method: req.Method, Code: resp.StatusCode}
	}

	return resp, nil
}
