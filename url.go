package dossier

import (
	"net/url"
	"strings"
)

// NormalizeURL validates rawURL and returns its canonical form, used both as
// the cache key and as the base for resolving relative references.
// A missing scheme defaults to https. Only http and https are accepted.
func NormalizeURL(rawURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return "", Errorf(EINVALID, "URL required")
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Errorf(EINVALID, "unsupported URL scheme %q", u.Scheme)
	}
	if u.Hostname() == "" {
		return "", Errorf(EINVALID, "URL %q has no host", rawURL)
	}

	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if len(u.Path) > 1 {
		u.Path = strings.TrimRight(u.Path, "/")
		u.RawPath = ""
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String(), nil
}

// ResolveURL resolves ref against base and returns an absolute URL.
// Protocol-relative references take the https scheme. mailto: and tel:
// references are returned unchanged. Returns "" for references that cannot
// be resolved or that use a script scheme.
func ResolveURL(base *url.URL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" || ref == "#" {
		return ""
	}
	lower := strings.ToLower(ref)
	switch {
	case strings.HasPrefix(lower, "javascript:"), strings.HasPrefix(lower, "data:"):
		return ""
	case strings.HasPrefix(lower, "mailto:"), strings.HasPrefix(lower, "tel:"):
		return ref
	case strings.HasPrefix(ref, "//"):
		return "https:" + ref
	}

	u, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if base == nil {
		if !u.IsAbs() {
			return ""
		}
		return u.String()
	}
	return base.ResolveReference(u).String()
}
