package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestRegistry() *Registry {
	config := DefaultConfig()
	config.IncludeGoCollector = false
	config.IncludeProcessCollector = false
	return NewRegistry(config)
}

func TestNewRegistry(t *testing.T) {
	registry := newTestRegistry()

	if registry == nil {
		t.Fatal("expected registry to be non-nil")
	}
	if registry.Commands == nil {
		t.Error("expected Commands metrics to be initialized")
	}
	if registry.Namespace() != "rsmqctl" {
		t.Errorf("expected namespace rsmqctl, got %s", registry.Namespace())
	}
}

func TestNewRegistry_GoCollector(t *testing.T) {
	registry := NewRegistry(Config{IncludeGoCollector: true})

	families, err := registry.PrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	found := false
	for _, mf := range families {
		if mf.GetName() == "go_goroutines" {
			found = true
		}
	}
	if !found {
		t.Error("expected go_goroutines with the Go collector enabled")
	}
}

func TestNewRegistry_FillsDefaults(t *testing.T) {
	registry := NewRegistry(Config{})

	cfg := registry.Config()
	if cfg.Namespace != "rsmqctl" {
		t.Errorf("expected Namespace rsmqctl, got %s", cfg.Namespace)
	}
	if cfg.Job != "rsmqctl" {
		t.Errorf("expected Job rsmqctl, got %s", cfg.Job)
	}
	if len(cfg.HistogramBuckets) == 0 {
		t.Error("expected default histogram buckets")
	}
}

func TestCommandMetrics_RecordCommand(t *testing.T) {
	registry := newTestRegistry()

	registry.Commands.RecordCommand("queue list", true, 5*time.Millisecond)
	registry.Commands.RecordCommand("queue list", true, 2*time.Millisecond)
	registry.Commands.RecordCommand("queue describe", false, time.Millisecond)

	listOK := testutil.ToFloat64(registry.Commands.CommandsTotal.WithLabelValues("queue list", ResultSuccess))
	if listOK != 2 {
		t.Errorf("CommandsTotal for queue list: expected 2, got %v", listOK)
	}

	describeFailed := testutil.ToFloat64(registry.Commands.CommandsTotal.WithLabelValues("queue describe", ResultFailure))
	if describeFailed != 1 {
		t.Errorf("CommandsTotal for failed queue describe: expected 1, got %v", describeFailed)
	}

	// one series per (command, result) pair
	if n := testutil.CollectAndCount(registry.Commands.CommandDuration); n != 2 {
		t.Errorf("CommandDuration series: expected 2, got %d", n)
	}
}

func TestRegistry_RecordMessage(t *testing.T) {
	registry := newTestRegistry()

	registry.RecordMessage("orders", "send")
	registry.RecordMessage("orders", "send")
	registry.RecordMessage("orders", "pop")
	registry.RecordMessage("events", "receive")

	cases := []struct {
		queue, op string
		want      float64
	}{
		{"orders", "send", 2},
		{"orders", "pop", 1},
		{"events", "receive", 1},
		{"events", "send", 0},
	}
	for _, tc := range cases {
		got := testutil.ToFloat64(registry.Commands.MessagesTotal.WithLabelValues(tc.queue, tc.op))
		if got != tc.want {
			t.Errorf("MessagesTotal{%s,%s}: expected %v, got %v", tc.queue, tc.op, tc.want, got)
		}
	}
}

func TestRegistry_GatherNames(t *testing.T) {
	registry := newTestRegistry()
	registry.Commands.RecordCommand("message send", true, time.Millisecond)
	registry.RecordMessage("orders", "send")

	families, err := registry.PrometheusRegistry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	names := make(map[string]bool)
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"rsmqctl_command_duration_seconds",
		"rsmqctl_commands_total",
		"rsmqctl_messages_total",
	} {
		if !names[want] {
			t.Errorf("expected metric %s to be gathered", want)
		}
	}
}

// pushgateway records the last request it received.
type pushgateway struct {
	mu     sync.Mutex
	method string
	path   string
	body   string
}

func (p *pushgateway) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		p.mu.Lock()
		p.method = r.Method
		p.path = r.URL.Path
		p.body = string(body)
		p.mu.Unlock()
		w.WriteHeader(status)
	}
}

func TestRegistry_Push(t *testing.T) {
	gw := &pushgateway{}
	srv := httptest.NewServer(gw.handler(http.StatusOK))
	defer srv.Close()

	registry := newTestRegistry()
	registry.Commands.RecordCommand("queue create", true, time.Millisecond)

	if err := registry.Push(context.Background(), srv.URL); err != nil {
		t.Fatalf("push: %v", err)
	}

	gw.mu.Lock()
	defer gw.mu.Unlock()
	if gw.method != http.MethodPut {
		t.Errorf("expected PUT, got %s", gw.method)
	}
	if gw.path != "/metrics/job/rsmqctl" {
		t.Errorf("expected path /metrics/job/rsmqctl, got %s", gw.path)
	}
	if !strings.Contains(gw.body, "rsmqctl_commands_total") {
		t.Error("expected pushed body to carry rsmqctl_commands_total")
	}
}

func TestRegistry_PushEmptyURL(t *testing.T) {
	registry := newTestRegistry()
	if err := registry.Push(context.Background(), ""); err != nil {
		t.Errorf("expected no-op for empty url, got %v", err)
	}
}

func TestRegistry_PushFailure(t *testing.T) {
	gw := &pushgateway{}
	srv := httptest.NewServer(gw.handler(http.StatusInternalServerError))
	defer srv.Close()

	registry := newTestRegistry()
	err := registry.Push(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error from failing pushgateway")
	}
	if !strings.Contains(err.Error(), "push metrics") {
		t.Errorf("unexpected error: %v", err)
	}

	// PushAndLog never panics or returns on failure
	registry.PushAndLog(context.Background(), srv.URL)
}

func TestDefaultLatencyBuckets(t *testing.T) {
	config := DefaultConfig()
	buckets := config.HistogramBuckets

	if buckets[0] != 0.001 {
		t.Errorf("expected first bucket to be 1ms, got %v", buckets[0])
	}

	lastBucket := buckets[len(buckets)-1]
	if lastBucket < 30 {
		t.Errorf("expected last bucket to cover the 30s timeout, got %v", lastBucket)
	}

	for i := 1; i < len(buckets); i++ {
		if buckets[i] <= buckets[i-1] {
			t.Errorf("buckets not in ascending order: %v <= %v", buckets[i], buckets[i-1])
		}
	}
}
