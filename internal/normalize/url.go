package normalize

import (
	"net/url"
	"strings"
)

// CanonicalURL reduces a URL to the form used as the deduplication key.
//
// Policy (fixed, see DESIGN.md): scheme and host are lowercased, default
// ports are stripped, a trailing slash is stripped from the path, the
// fragment is dropped, and the query string is kept. Two URLs that differ
// only in a fragment (client-side anchor) identify the same resource;
// two URLs that differ in a query string may not.
//
// Returns "" if the input is not an absolute http(s) URL.
func CanonicalURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}

	host := strings.ToLower(u.Host)
	switch {
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		host = strings.TrimSuffix(host, ":80")
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		host = strings.TrimSuffix(host, ":443")
	}
	if host == "" {
		return ""
	}

	path := strings.TrimSuffix(u.EscapedPath(), "/")

	key := scheme + "://" + host + path
	if u.RawQuery != "" {
		key += "?" + u.RawQuery
	}
	return key
}

// cleanURLToken strips punctuation that commonly trails a URL embedded in
// prose ("see https://x.edu/book.pdf." or "(https://x.edu)").
func cleanURLToken(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimRight(raw, `.,;:!?"'<>`)

	// A trailing ")" is part of the URL only if the URL itself contains
	// a matching "(" (e.g. wikipedia article titles).
	for strings.HasSuffix(raw, ")") &&
		strings.Count(raw, ")") > strings.Count(raw, "(") {
		raw = strings.TrimSuffix(raw, ")")
		raw = strings.TrimRight(raw, `.,;:!?"'<>`)
	}

	return raw
}
