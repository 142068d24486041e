package main

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// serveMetricsHTTP starts a background /metrics endpoint on addr and logs
// rather than returning on failure, matching the daemon's fire-and-forget
// auxiliary-server pattern.
func serveMetricsHTTP(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Printf("metrics server on %s stopped: %v", addr, err)
		}
	}()
}
