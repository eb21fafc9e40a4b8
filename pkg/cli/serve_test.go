package cli

import (
	"context"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/reqmatch/pkg/logging"
)

const serveMocks = `expectations:
  - id: health
    request:
      methods: [GET]
      paths: [/health]
    response:
      statusCode: 200
      body: ok
`

func TestServe(t *testing.T) {
	file := filepath.Join(t.TempDir(), "mocks.yaml")
	require.NoError(t, os.WriteFile(file, []byte(serveMocks), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addrCh := make(chan net.Addr, 1)
	errCh := make(chan error, 1)
	go func() {
		errCh <- serve(ctx, &serveFlags{
			files:       []string{file},
			addr:        "127.0.0.1:0",
			metricsPath: "/metrics",
			maxBodySize: 1 << 20,
			nearMisses:  3,
		}, logging.Nop(), func(a net.Addr) { addrCh <- a })
	}()

	var base string
	select {
	case a := <-addrCh:
		base = "http://" + a.String()
	case err := <-errCh:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get(base + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(base + "/missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = http.Get(base + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `reqmatch_routed_requests_total{result="matched"} 1`)
	assert.Contains(t, string(body), `reqmatch_routed_requests_total{result="unmatched"} 1`)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServe_LoadError(t *testing.T) {
	err := serve(context.Background(), &serveFlags{
		files: []string{filepath.Join(t.TempDir(), "missing.yaml")},
		addr:  "127.0.0.1:0",
	}, logging.Nop(), nil)
	assert.ErrorContains(t, err, "file not found")
}
