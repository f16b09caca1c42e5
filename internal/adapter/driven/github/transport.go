package github

import (
	"net/http"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	"github.com/gregjones/httpcache"
)

// newHTTPClient builds the GitHub transport stack, outermost first:
//  1. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  2. revalidatingTransport (every cached GET is revalidated)
//  3. httpcache (ETag-based conditional request caching)
//  4. base, or http.DefaultTransport when nil
func newHTTPClient(base http.RoundTripper) *http.Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	cacheTransport.Transport = base

	return github_ratelimit.NewClient(revalidatingTransport{next: cacheTransport})
}

// revalidatingTransport sends GETs with "Cache-Control: max-age=0". GitHub
// marks contents responses "private, max-age=60", and httpcache would
// otherwise answer a read after a commit with the previous SHA. With max-age=0
// httpcache always asks GitHub, sending If-None-Match when it holds an ETag,
// and serves its stored copy only on 304 Not Modified.
type revalidatingTransport struct {
	next http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t revalidatingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet || req.Header.Get("Cache-Control") != "" {
		return t.next.RoundTrip(req)
	}

	revalidate := req.Clone(req.Context())
	revalidate.Header.Set("Cache-Control", "max-age=0")
	return t.next.RoundTrip(revalidate)
}
