// Package fs writes digest pages as markdown files.
package fs

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/briefly"
)

// URLToPath converts a page URL to a relative file path rooted at its host.
// Example: https://example.com/blog/post → example.com/blog/post.md
//
// A query string is folded into a short hash so that pages differing only
// by query get distinct files. Paths containing ".." segments are rejected.
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", briefly.Errorf(briefly.EINVALID, "invalid URL %q", rawURL)
	}
	if u.Host == "" {
		return "", briefly.Errorf(briefly.EINVALID, "URL has no host: %q", rawURL)
	}

	host := strings.ReplaceAll(strings.ToLower(u.Host), ":", "_")
	p := strings.TrimPrefix(u.Path, "/")
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", briefly.Errorf(briefly.EINVALID, "path traversal in URL %q", rawURL)
		}
	}

	switch {
	case p == "":
		p = "index"
	case strings.HasSuffix(p, "/"):
		p += "index"
	}
	p = strings.TrimSuffix(p, ".html")
	p = strings.TrimSuffix(p, ".htm")

	if u.RawQuery != "" {
		p += fmt.Sprintf("-%08x", uint32(xxhash.Sum64String(u.RawQuery)))
	}

	return host + "/" + p + ".md", nil
}
