package urlfile

import (
	"mime"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// decodeText decodes b according to the charset parameter of contentType,
// defaulting to UTF-8.
func decodeText(b []byte, contentType string) (string, error) {
	var enc encoding.Encoding = unicode.UTF8BOM

	if contentType != "" {
		_, params, err := mime.ParseMediaType(contentType)
		if cs := params["charset"]; err == nil && cs != "" {
			// unknown charsets fall back to UTF-8, as browsers do
			if e, err := htmlindex.Get(cs); err == nil && e != unicode.UTF8 {
				enc = e
			}
		}
	}

	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", err
	}

	return string(out), nil
}
