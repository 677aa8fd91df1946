// Bareshelf - Recipe Discovery Search Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bareshelf

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tomtom215/bareshelf/internal/metrics"
)

// HTTPServer is the lifecycle subset of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// NewMetricsServer returns an HTTP server exposing /metrics on addr.
func NewMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// MetricsServerService runs an HTTPServer under a supervisor.
//
// ListenAndServe runs in a goroutine; on context cancellation the server is
// shut down within shutdownTimeout and Serve returns ctx.Err().
type MetricsServerService struct {
	server          HTTPServer
	shutdownTimeout time.Duration
	name            string
}

// NewMetricsServerService wraps server. A non-positive shutdownTimeout
// defaults to 10s.
func NewMetricsServerService(server HTTPServer, shutdownTimeout time.Duration) *MetricsServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &MetricsServerService{
		server:          server,
		shutdownTimeout: shutdownTimeout,
		name:            "metrics-server",
	}
}

// Serve implements suture.Service.
func (m *MetricsServerService) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := m.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil

	case <-ctx.Done():
		// ctx is already done, shut down on a fresh one.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), m.shutdownTimeout)
		defer cancel()
		if err := m.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("metrics server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}

// String implements fmt.Stringer for suture logs.
func (m *MetricsServerService) String() string {
	return m.name
}
