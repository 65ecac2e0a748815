package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnLoadStart(ctx, "workspace.json")
	p.OnLoadComplete(ctx, "workspace.json", 100, time.Second, nil)
	p.OnLayoutStart(ctx, 100)
	p.OnLayoutComplete(ctx, 100, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	s := NoopSimulationHooks{}
	s.OnRestart(ctx, 10, 9)
	s.OnTick(ctx, 0.5, 12)
	s.OnRest(ctx, 200)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "dataset", 1024)

	src := NoopSourceHooks{}
	src.OnFetch(ctx, "s3", "bucket/key.json")
	src.OnFetchComplete(ctx, "s3", "bucket/key.json", 2048, time.Second, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Simulation().(NoopSimulationHooks); !ok {
		t.Error("Simulation() should return NoopSimulationHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Source().(NoopSourceHooks); !ok {
		t.Error("Source() should return NoopSourceHooks by default")
	}

	m := NewPrometheus(prometheus.NewRegistry())
	SetPipelineHooks(m)
	SetSimulationHooks(m)
	SetCacheHooks(m)
	SetSourceHooks(m)
	if Pipeline() != PipelineHooks(m) || Simulation() != SimulationHooks(m) ||
		Cache() != CacheHooks(m) || Source() != SourceHooks(m) {
		t.Error("setters should install the custom hooks")
	}

	Reset()
	if _, ok := Simulation().(NoopSimulationHooks); !ok {
		t.Error("Reset() should restore NoopSimulationHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestPrometheusTotals(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := NewPrometheus(reg)

	m.OnRestart(ctx, 6, 5)
	m.OnTick(ctx, 0.9, 3)
	m.OnTick(ctx, 0.8, 2)
	m.OnRest(ctx, 2)
	m.OnCacheHit(ctx, "layout")
	m.OnCacheMiss(ctx, "layout")
	m.OnCacheSet(ctx, "layout", 512)
	m.OnLayoutComplete(ctx, 6, time.Millisecond, errors.New("boom"))
	m.OnFetchComplete(ctx, "s3", "b/k", 100, time.Millisecond, nil)

	totals, err := Totals(reg)
	if err != nil {
		t.Fatal(err)
	}
	tests := map[string]float64{
		"notionmap_simulation_ticks_total":     2,
		"notionmap_simulation_restarts_total":  1,
		"notionmap_simulation_bodies":          6,
		"notionmap_cache_operations_total":     3,
		"notionmap_cache_written_bytes_total":  512,
		"notionmap_stage_errors_total":         1,
		"notionmap_source_fetched_bytes_total": 100,
	}
	for name, want := range tests {
		if got := totals[name]; got != want {
			t.Errorf("%s = %v, want %v", name, got, want)
		}
	}

	var buf bytes.Buffer
	if err := WriteText(&buf, reg); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "# TYPE notionmap_simulation_ticks_total counter") {
		t.Errorf("exposition missing ticks counter:\n%s", buf.String())
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
