package media

import (
	"net/url"
	"path"
	"strings"
)

// PublicIDFromURL recovers the public id of an asset uploaded without a
// folder from its delivery URL: the last path segment without its extension.
func PublicIDFromURL(assetURL string) string {
	if assetURL == "" {
		return ""
	}
	p := assetURL
	if u, err := url.Parse(assetURL); err == nil && u.Path != "" {
		p = u.Path
	}
	base := path.Base(p)
	if base == "." || base == "/" {
		return ""
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
