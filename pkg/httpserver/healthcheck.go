package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/fixology/platform/handler"
	"github.com/fixology/platform/pkg/logger"
)

// DefaultCheckTimeout bounds a single readiness check.
const DefaultCheckTimeout = 2 * time.Second

// Check is a named dependency probe, e.g. a database ping.
type Check struct {
	Name string
	Fn   func(context.Context) error
}

// Liveness reports that the process is serving requests.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = handler.JSON(map[string]string{"status": "alive"}).Render(w, r)
	}
}

// Readiness runs every check with DefaultCheckTimeout and answers 200 when
// all pass, otherwise 503 listing the failing check names.
func Readiness(log *slog.Logger, checks ...Check) http.HandlerFunc {
	if log == nil {
		log = logger.Discard()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var failed []string
		for _, c := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), DefaultCheckTimeout)
			err := c.Fn(ctx)
			cancel()
			if err != nil {
				log.ErrorContext(r.Context(), "readiness check failed",
					slog.String("check", c.Name),
					logger.Error(err),
					logger.Component("httpserver"),
				)
				failed = append(failed, c.Name)
			}
		}

		if len(failed) > 0 {
			_ = handler.JSON(map[string]any{"status": "not_ready", "failed": failed},
				handler.WithJSONStatus(http.StatusServiceUnavailable)).Render(w, r)
			return
		}
		_ = handler.JSON(map[string]string{"status": "ready"}).Render(w, r)
	}
}
