package urlfile

import (
	"fmt"
	"net/http"
	"sort"
)

// TransportMux is a Transport that dispatches each request to the Transport
// registered for the request URL's scheme. This allows a single File-producing
// code path to read from http(s) servers, local files, and blob storage.
type TransportMux map[string]Transport

var _ Transport = (TransportMux)(nil)

// NewMux returns a TransportMux ready for use.
func NewMux() TransportMux {
	return TransportMux(map[string]Transport{})
}

// Add registers t for the given URL schemes. If any of the schemes are already
// registered, they will be overridden.
func (m TransportMux) Add(t Transport, schemes ...string) {
	for _, scheme := range schemes {
		m[scheme] = t
	}
}

// Schemes returns the registered URL schemes, sorted.
func (m TransportMux) Schemes() []string {
	schemes := make([]string, 0, len(m))
	for scheme := range m {
		schemes = append(schemes, scheme)
	}

	sort.Strings(schemes)

	return schemes
}

// Do - implements Transport
func (m TransportMux) Do(req *http.Request) (*http.Response, error) {
	t, ok := m[req.URL.Scheme]
	if !ok {
		return nil, fmt.Errorf("no transport registered for scheme %q", req.URL.Scheme)
	}

	return t.Do(req)
}
