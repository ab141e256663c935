package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
)

type healthCheck func(context.Context) error

// healthHandler runs every check and reports each result by name along with
// an overall "healthy" flag. Any failed check turns the response into a 503.
func healthHandler(checks map[string]healthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		details := make(map[string]any, len(checks)+1)
		healthy := true
		for name, check := range checks {
			if err := check(ctx); err != nil {
				details[name] = err.Error()
				healthy = false
				continue
			}
			details[name] = "ok"
		}
		details["healthy"] = healthy

		w.Header().Set("Content-Type", "application/json")
		if !healthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		if err := json.NewEncoder(w).Encode(details); err != nil {
			log.WithError(err).Warn("failed to encode health checks")
		}
	}
}
