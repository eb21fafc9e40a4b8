package router

import (
	"fmt"
	"testing"

	"github.com/getmockd/reqmatch/pkg/request"
)

func benchmarkRouter(b *testing.B, n int) *Router {
	b.Helper()
	r := New(WithNearMissLimit(DefaultNearMissLimit))
	for i := range n {
		if err := r.Register(expectation(fmt.Sprintf("e%d", i), 0, []string{"GET"}, fmt.Sprintf("/items/%d", i))); err != nil {
			b.Fatal(err)
		}
	}
	return r
}

func BenchmarkMatch_Hit(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("expectations=%d", n), func(b *testing.B) {
			r := benchmarkRouter(b, n)
			req := get(fmt.Sprintf("/items/%d", n-1))
			b.ReportAllocs()
			for b.Loop() {
				if !r.Match(req).Matched {
					b.Fatal("expected a match")
				}
			}
		})
	}
}

func BenchmarkMatch_MissWithNearMisses(b *testing.B) {
	for _, n := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("expectations=%d", n), func(b *testing.B) {
			r := benchmarkRouter(b, n)
			req := &request.Request{Method: "GET", Path: "/nowhere"}
			b.ReportAllocs()
			for b.Loop() {
				if r.Match(req).Matched {
					b.Fatal("unexpected match")
				}
			}
		})
	}
}
