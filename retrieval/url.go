package retrieval

import (
	"net/url"
	"strings"

	"github.com/poiesic/sourcetrace/core"
)

// NormalizeURL returns the form of raw used to detect duplicate candidates.
// Scheme and host are lowercased; default ports, fragments, utm_* tracking
// parameters and trailing slashes are removed; remaining query parameters
// are sorted. Unparseable input is returned trimmed.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		host += ":" + port
	}
	u.Host = host
	u.Fragment = ""
	u.RawFragment = ""
	u.User = nil

	q := u.Query()
	for key := range q {
		if strings.HasPrefix(strings.ToLower(key), "utm_") {
			q.Del(key)
		}
	}
	u.RawQuery = q.Encode()

	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	return u.String()
}

// Dedupe removes candidates whose normalized URL was already seen, keeping
// the first occurrence. Candidates without a URL are dropped.
func Dedupe(candidates []core.Candidate) []core.Candidate {
	seen := make(map[string]bool, len(candidates))
	out := make([]core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if core.ValidateCandidate(&c) != nil {
			continue
		}
		key := NormalizeURL(c.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}
