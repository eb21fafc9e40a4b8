package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/getmockd/reqmatch/pkg/logging"
	"github.com/getmockd/reqmatch/pkg/router"
)

const shutdownTimeout = 5 * time.Second

type serveFlags struct {
	files       []string
	addr        string
	metricsPath string
	maxBodySize int64
	nearMisses  int
}

func newServeCommand(g *globalFlags) *cobra.Command {
	f := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve expectation responses over HTTP",
		Long: `Start an HTTP server that answers each request with the response of the
expectation it matches. Unmatched requests get a 404 JSON body listing the
near misses. Prometheus metrics are exposed on --metrics-path.`,
		Example: `  reqmatch serve -f 'mocks/**/*.yaml' --addr :8080`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, closeLog, err := g.logger(cmd, logging.LevelInfo)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return serve(ctx, f, log, func(addr net.Addr) {
				fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", addr)
			})
		},
	}

	fl := cmd.Flags()
	fl.StringArrayVarP(&f.files, "file", "f", nil, "Expectation file or glob (repeatable)")
	fl.StringVar(&f.addr, "addr", ":8080", "Listen address")
	fl.StringVar(&f.metricsPath, "metrics-path", "/metrics", "Metrics endpoint path, empty to disable")
	fl.Int64Var(&f.maxBodySize, "max-body-size", router.DefaultMaxBodySize, "Request body limit in bytes")
	fl.IntVar(&f.nearMisses, "near-misses", router.DefaultNearMissLimit, "Near misses to report on a miss")
	return cmd
}

// serve runs the mock server until ctx is done. ready is called once the
// listener is bound.
func serve(ctx context.Context, f *serveFlags, log *slog.Logger, ready func(net.Addr)) error {
	reg := prometheus.NewRegistry()
	metrics := router.NewMetrics(reg)

	r, err := loadRouter(f.files, log,
		router.WithMetrics(metrics),
		router.WithMaxBodySize(f.maxBodySize),
		router.WithNearMissLimit(f.nearMisses),
	)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	if f.metricsPath != "" {
		mux.Handle(f.metricsPath, metrics.Handler(reg))
	}
	mux.Handle("/", r.Handler())

	ln, err := net.Listen("tcp", f.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", f.addr, err)
	}

	srv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	log.Info("mock server started", "addr", ln.Addr().String(), "expectations", r.Len())
	if ready != nil {
		ready(ln.Addr())
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
