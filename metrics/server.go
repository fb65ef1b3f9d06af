package metrics

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/teranos/hourgen/errors"
	"github.com/teranos/hourgen/logger"
)

// Server serves /metrics and /status for one recorder.
type Server struct {
	srv      *http.Server
	listener net.Listener
	logger   *zap.SugaredLogger
}

// Serve binds addr and starts serving in the background. Binding errors are
// returned immediately.
func Serve(addr string, rec *Recorder) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		err = errors.Wrapf(err, "failed to listen on %s", addr)
		return nil, errors.WithHint(err, "choose a free address with --metrics-addr, or leave it empty to disable")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(rec.Registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/status", func(w http.ResponseWriter, _ *http.Request) {
		state, written := rec.Snapshot()
		w.Header().Add("Content-Type", "text/plain")
		fmt.Fprintf(w, "state=%s records=%d\n", state, written)
	})

	s := &Server{
		srv:      &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		listener: ln,
		logger:   logger.ComponentLogger("metrics"),
	}
	s.logger.Infow("Serving metrics", logger.FieldAddress, ln.Addr().String())

	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorw("Metrics server stopped", logger.FieldError, err)
		}
	}()
	return s, nil
}

// Addr is the bound address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Shutdown stops the server, waiting for in-flight scrapes until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "failed to stop metrics server")
	}
	return nil
}
