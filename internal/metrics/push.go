package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus/push"
)

// Push sends every collected metric to the Pushgateway at url, replacing the
// previous push of the same job. An empty url is a no-op.
func (r *Registry) Push(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}

	err := push.New(url, r.config.Job).
		Gatherer(r.promRegistry).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}

	r.logger.Debug("metrics pushed", "url", url, "job", r.config.Job)
	return nil
}

// PushAndLog is Push for the end of a command: failures are logged at warn
// level and otherwise ignored.
func (r *Registry) PushAndLog(ctx context.Context, url string) {
	if err := r.Push(ctx, url); err != nil {
		r.logger.Warn("failed to push metrics", "error", err)
	}
}
