package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Server exposes the default registry on /metrics.
type Server struct {
	srv    *http.Server
	logger *logrus.Logger
}

// StartMetricsServer serves /metrics on port in the background until Stop is called.
func StartMetricsServer(port string, logger *logrus.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	s := &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort("", port),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}

	go func() {
		s.logger.Infof("metrics server listening on %s", s.srv.Addr)
		err := s.srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.WithError(err).Error("metrics server stopped")
		}
	}()
	return s
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
