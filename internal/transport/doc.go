// Package transport performs the HTTP GET requests of pepaudit.
//
// A Client fetches a URL and returns the whole body as a Response. Successful
// (200) responses are stored in a SQLite-backed Cache keyed by the SHA3-256
// digest of the request method and URL, so a repeated audit of an unchanged
// site is served without network traffic. The cache can be emptied once per
// session with Cache.Clear, bypassed per request with WithoutCache, and given
// a time-to-live with WithTTL.
//
// Every failure to obtain a usable response is reported as a *FetchError,
// which carries the URL, the HTTP status code (0 when no response arrived) and
// the underlying cause:
//
//	resp, err := client.Fetch(ctx, "https://peps.python.org/")
//	var fe *transport.FetchError
//	if errors.As(err, &fe) && fe.StatusCode == http.StatusNotFound {
//	    // ...
//	}
//
// Requests can be routed through a SOCKS5 proxy with WithProxy.
package transport
