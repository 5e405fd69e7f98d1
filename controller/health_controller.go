package controller

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports whether storage is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger.
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthController struct {
	db  Pinger
	env string
}

func NewHealthController(db Pinger, env string) *HealthController {
	return &HealthController{db: db, env: env}
}

// Health handles GET /health.
func (c *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := c.db.Ping(ctx); err != nil {
		logger(r).WithError(err).Warn("health check: storage unreachable")
		writeJSON(w, r, http.StatusServiceUnavailable, map[string]any{"ok": false, "env": c.env})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"ok": true, "env": c.env})
}
