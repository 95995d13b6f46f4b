// Package tests holds helpers shared by tests in this module.
package tests

import (
	"net/url"
	"time"
)

// ModTime is a fixed modification time for test fixtures. Zip archives can't
// represent times before 1980, so the Unix epoch is no good here.
var ModTime = time.Date(2021, 4, 1, 12, 0, 0, 0, time.UTC)

func MustURL(s string) *url.URL {
	u, err := url.Parse(s)
	if err != nil {
		panic(err)
	}

	return u
}
