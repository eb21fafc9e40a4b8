// Package request defines the decoded request snapshot evaluated by matchers.
//
// The transport layer owns HTTP parsing; it hands the matching engine a
// Request whose facets (method, path, URL, headers, cookies, query
// parameters and body) are already decoded. FromHTTP builds one from a
// *http.Request for servers built on net/http.
package request

import (
	"net/http"
	"strings"
)

// Request is an immutable-by-convention snapshot of an incoming request.
// Matchers only read it; callers must not modify it while it is being matched.
type Request struct {
	Method  string              `json:"method" yaml:"method"`
	Path    string              `json:"path" yaml:"path"`
	URL     string              `json:"url,omitempty" yaml:"url,omitempty"`
	Headers map[string][]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Cookies map[string]string   `json:"cookies,omitempty" yaml:"cookies,omitempty"`
	Params  map[string][]string `json:"params,omitempty" yaml:"params,omitempty"`
	Body    []byte              `json:"-" yaml:"-"`
}

// BodyString returns the body decoded as a string.
func (r *Request) BodyString() string {
	return string(r.Body)
}

// FromHTTP builds a snapshot from a net/http request. The body is passed
// separately because the caller usually has to read it once and share it.
// When several cookies share a name, the first one wins.
func FromHTTP(r *http.Request, body []byte) *Request {
	snap := &Request{
		Method:  r.Method,
		Path:    r.URL.Path,
		URL:     fullURL(r),
		Headers: map[string][]string(r.Header.Clone()),
		Cookies: make(map[string]string),
		Params:  map[string][]string(r.URL.Query()),
		Body:    body,
	}
	if snap.Headers == nil {
		snap.Headers = make(map[string][]string)
	}
	for _, c := range r.Cookies() {
		if _, exists := snap.Cookies[c.Name]; !exists {
			snap.Cookies[c.Name] = c.Value
		}
	}
	return snap
}

// fullURL reconstructs the absolute URL of a server-side request.
func fullURL(r *http.Request) string {
	if r.URL.IsAbs() {
		return r.URL.String()
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if fwd := r.Header.Get("X-Forwarded-Proto"); fwd != "" {
		scheme = strings.ToLower(strings.TrimSpace(strings.Split(fwd, ",")[0]))
	}
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	return scheme + "://" + host + r.URL.RequestURI()
}
