package internal

import "net/url"

// SubURL resolves name against base. Query parameters on base are carried
// over to the result, and parameters in name take precedence. This keeps
// bucket options (region, endpoint, etc) on URLs for objects in the bucket.
func SubURL(base *url.URL, name string) (*url.URL, error) {
	rel, err := url.Parse(name)
	if err != nil {
		return nil, err
	}

	u := base.ResolveReference(rel)

	if base.RawQuery != "" {
		q := base.Query()
		for k, v := range rel.Query() {
			q[k] = v
		}

		u.RawQuery = q.Encode()
	}

	return u, nil
}
