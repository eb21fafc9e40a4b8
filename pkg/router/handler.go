package router

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/getmockd/reqmatch/pkg/httputil"
	"github.com/getmockd/reqmatch/pkg/request"
)

// DefaultMaxBodySize is the request body limit applied by Handler (10 MB).
const DefaultMaxBodySize int64 = 10 << 20

// NearMissHeader carries the number of near misses on a 404.
const NearMissHeader = "X-Reqmatch-Near-Misses"

type noMatchResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	NearMisses any    `json:"nearMisses,omitempty"`
}

// Handler returns an http.Handler that answers each request with the
// response of the expectation it routes to. Misses get a 404 JSON body
// listing the near misses. A HEAD request that matches nothing is retried
// as GET.
func (r *Router) Handler() http.Handler {
	return http.HandlerFunc(r.serveHTTP)
}

func (r *Router) serveHTTP(w http.ResponseWriter, req *http.Request) {
	body, err := httputil.ReadBody(w, req, r.maxBodySize)
	if err != nil {
		if errors.Is(err, httputil.ErrBodyTooLarge) {
			r.log.Warn("request body too large", "path", req.URL.Path, "limit", r.maxBodySize)
			httputil.WriteError(w, http.StatusRequestEntityTooLarge, "body_too_large", "Request body exceeds maximum allowed size")
			return
		}
		r.log.Warn("failed to read request body", "path", req.URL.Path, "error", err)
	}

	start := time.Now()
	snap := request.FromHTTP(req, body)
	candidates := r.store.List()
	result := route(candidates, snap)
	if !result.Matched && req.Method == http.MethodHead {
		get := *snap
		get.Method = http.MethodGet
		fallback := route(candidates, &get)
		fallback.Evaluated += result.Evaluated
		if fallback.Matched {
			result = fallback
		} else {
			result.Evaluated = fallback.Evaluated
		}
	}
	r.finish(result, candidates, snap, start)

	if !result.Matched {
		w.Header().Set(NearMissHeader, strconv.Itoa(len(result.NearMisses)))
		resp := noMatchResponse{
			Error:   "no_match",
			Message: "No expectation matched the request",
			Method:  req.Method,
			Path:    req.URL.Path,
		}
		if len(result.NearMisses) > 0 {
			resp.NearMisses = result.NearMisses
		}
		httputil.WriteJSON(w, http.StatusNotFound, resp)
		return
	}

	resp := result.Expectation.Response
	if resp == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	if req.Method != http.MethodHead {
		_, _ = io.WriteString(w, resp.Body)
	}
}
