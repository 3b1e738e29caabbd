package commands

import (
	"fmt"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// serveMetrics exposes the Prometheus registry over HTTP on addr.
//
// It returns the running server and the address it actually bound to (which
// differs from addr when a ":0" port was requested). The caller shuts the
// server down when the environment closes.
func serveMetrics(addr string) (*http.Server, string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", fmt.Errorf("metrics listener on %q: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Handler: mux}
	go srv.Serve(ln)

	return srv, ln.Addr().String(), nil
}
