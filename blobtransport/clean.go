package blobtransport

import (
	"net/url"
	"slices"

	"github.com/hairyhenderson/go-urlfile/internal/env"
	"gocloud.dev/blob/azureblob"
	"gocloud.dev/blob/gcsblob"
	"gocloud.dev/blob/s3blob"
)

// copy/sanitize the URL for the Go CDK - it doesn't like params it can't parse
func (t *Transport) cleanCdkURL(u url.URL) url.URL {
	switch u.Scheme {
	case s3blob.Scheme:
		return t.cleanS3URL(u)
	case gcsblob.Scheme:
		return keepParams(u, "access_id", "private_key_path")
	case azureblob.Scheme:
		return keepParams(u, "domain", "protocol", "localemu", "cdn")
	default:
		return u
	}
}

func keepParams(u url.URL, params ...string) url.URL {
	q := u.Query()

	for param := range q {
		if !slices.Contains(params, param) {
			q.Del(param)
		}
	}

	u.RawQuery = q.Encode()

	return u
}

func (t *Transport) cleanS3URL(u url.URL) url.URL {
	q := u.Query()
	translateV1Params(q)

	u.RawQuery = q.Encode()

	// allow known query parameters, remove unknown ones
	u = keepParams(u,
		"accelerate",
		"disable_https",
		"dualstack",
		"endpoint",
		"fips",
		"hostname_immutable",
		"profile",
		"rate_limiter_capacity",
		"region",
		"use_path_style",
	)

	q = u.Query()

	t.setParamsFromEnv(q)

	ensureValidEndpointURL(q)

	u.RawQuery = q.Encode()

	return u
}

// translateV1Params translates AWS SDK v1-style query parameters to their v2
// equivalents.
func translateV1Params(q url.Values) {
	for param := range q {
		switch param {
		case "disableSSL":
			q.Set("disable_https", q.Get(param))
			q.Del(param)
		case "s3ForcePathStyle":
			q.Set("use_path_style", q.Get(param))
			q.Del(param)
		}
	}
}

func ensureValidEndpointURL(q url.Values) {
	endpoint := q.Get("endpoint")
	if endpoint == "" {
		return
	}

	// the endpoint must be a URL with a scheme
	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" && u.Host != "" {
		return
	}

	scheme := "https://"
	if q.Get("disable_https") == "true" {
		scheme = "http://"
	}

	q.Set("endpoint", scheme+endpoint)
}

// setParamsFromEnv sets query parameters based on env vars
func (t *Transport) setParamsFromEnv(q url.Values) {
	if q.Get("endpoint") == "" {
		if endpoint := env.GetenvFS(t.envfs, "AWS_S3_ENDPOINT"); endpoint != "" {
			q.Set("endpoint", endpoint)
		}
	}

	if q.Get("region") == "" {
		region := env.GetenvFS(t.envfs, "AWS_REGION", env.GetenvFS(t.envfs, "AWS_DEFAULT_REGION"))
		if region != "" {
			q.Set("region", region)
		}
	}
}
