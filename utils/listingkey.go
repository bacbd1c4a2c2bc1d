package utils

import (
	"net/url"
	"strings"
	"sync"

	"github.com/samber/lo"
)

var trackingParams = []string{"fbclid", "gclid", "ref", "source"}

// ListingKey reduces a listing URL to the form used for dedupe and ids.
// Scheme and host are lowercased, the fragment, tracking parameters and a
// trailing slash are dropped, and the remaining query is sorted.
// Unparseable input is returned trimmed.
func ListingKey(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""
	if len(u.Path) > 1 {
		u.Path = strings.TrimRight(u.Path, "/")
		u.RawPath = ""
	} else {
		u.Path = ""
	}

	kept := lo.OmitBy(u.Query(), func(k string, _ []string) bool {
		k = strings.ToLower(k)
		return strings.HasPrefix(k, "utm_") || lo.Contains(trackingParams, k)
	})
	u.RawQuery = url.Values(kept).Encode()
	return u.String()
}

// ListingKeys remembers which listings have been seen. It is safe for
// concurrent use.
type ListingKeys struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewListingKeys creates an empty ListingKeys.
func NewListingKeys() *ListingKeys {
	return &ListingKeys{seen: make(map[string]struct{})}
}

// Claim canonicalises rawURL and reports its key and whether this is the
// first time it was claimed.
func (k *ListingKeys) Claim(rawURL string) (string, bool) {
	key := ListingKey(rawURL)

	k.mu.Lock()
	defer k.mu.Unlock()
	if _, dup := k.seen[key]; dup {
		return key, false
	}
	k.seen[key] = struct{}{}
	return key, true
}

// Len returns the number of distinct listings claimed.
func (k *ListingKeys) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.seen)
}
