package pagegrade

import (
	"net/url"
	"strings"
)

// ResolveURL converts a resource reference into an absolute URL using the
// page it was found on. It returns false when the result would not be a
// fetchable http(s) URL; callers skip the reference in that case.
//
//   - "http://..." and "https://..." are returned unchanged apart from the fragment
//   - "//host/path" takes the scheme of baseURL
//   - "/path" takes the scheme and host of baseURL
//   - anything else resolves against the directory of baseURL's path
func ResolveURL(ref, baseURL string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}

	lower := strings.ToLower(ref)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		u, err := url.Parse(ref)
		if err != nil || u.Host == "" {
			return "", false
		}
		// Fragments never reach the server and must not split dedup keys.
		if i := strings.IndexByte(ref, '#'); i >= 0 {
			ref = ref[:i]
		}
		return ref, true
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" || (base.Scheme != "http" && base.Scheme != "https") {
		return "", false
	}

	rel, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	// data:, javascript:, mailto: and friends are never fetchable.
	if rel.Scheme != "" {
		return "", false
	}

	resolved := base.ResolveReference(rel)
	resolved.Fragment = ""
	if resolved.Host == "" {
		return "", false
	}
	return resolved.String(), true
}

// GitHubRawURL rewrites a github.com blob URL to the raw content host:
//
//	https://github.com/{user}/{repo}/blob/{branch}/{path}
//	→ https://raw.githubusercontent.com/{user}/{repo}/{branch}/{path}
//
// Any other URL, including raw.githubusercontent.com and gist URLs, is
// returned unchanged with false.
func GitHubRawURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL, false
	}
	host := strings.ToLower(u.Hostname())
	if host != "github.com" && host != "www.github.com" {
		return rawURL, false
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 5 || parts[2] != "blob" {
		return rawURL, false
	}

	raw := url.URL{
		Scheme: "https",
		Host:   "raw.githubusercontent.com",
		Path:   "/" + strings.Join(append(parts[:2:2], parts[3:]...), "/"),
	}
	return raw.String(), true
}

// IsGistURL reports whether the URL points at gist.github.com.
// Gist pages are not rewritten.
func IsGistURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Hostname(), "gist.github.com")
}

// NormalizePageURL validates user input as a page URL, adding https:// when
// no scheme is given.
func NormalizePageURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", Errorf(EINVALID, "URL required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", Errorf(EINVALID, "unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", Errorf(EINVALID, "missing host")
	}
	return u.String(), nil
}

// SameSite reports whether host equals siteHost or is one of its subdomains.
// A leading "www." is ignored on both sides.
func SameSite(host, siteHost string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	siteHost = strings.TrimPrefix(strings.ToLower(siteHost), "www.")
	if host == "" || siteHost == "" {
		return false
	}
	return host == siteHost || strings.HasSuffix(host, "."+siteHost)
}
