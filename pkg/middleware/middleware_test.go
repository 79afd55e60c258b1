package middleware

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/shadowtree-dev/shadowtree/pkg/dom"
	"github.com/shadowtree-dev/shadowtree/pkg/shadow"
)

func okPatcher() shadow.Patcher {
	return shadow.PatcherFunc(func(live, target *dom.Node) error { return nil })
}

func failPatcher(err error) shadow.Patcher {
	return shadow.PatcherFunc(func(live, target *dom.Node) error { return err })
}

func testNodes() (*dom.Node, *dom.Node) {
	d := dom.NewDocument(nil)
	n := d.CreateElement("div")
	return n, n.Clone(true)
}

// counterValue reads one labeled series from a gatherer, 0 if absent.
func counterValue(t *testing.T, g prometheus.Gatherer, name, status string) float64 {
	t.Helper()
	mfs, err := g.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "status" && l.GetValue() == status {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func TestPrometheusCountsOutcomes(t *testing.T) {
	promReg := prometheus.NewRegistry()
	wrap := Prometheus(WithRegistry(promReg))

	live, target := testNodes()

	ok := wrap(okPatcher())
	if err := ok.Apply(live, target); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if err := ok.Apply(live, target); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	bad := errors.New("boom")
	fail := wrap(failPatcher(bad))
	if err := fail.Apply(live, target); !errors.Is(err, bad) {
		t.Fatalf("Apply error = %v, want %v", err, bad)
	}

	if got := counterValue(t, promReg, "shadowtree_reconciles_total", "success"); got != 2 {
		t.Errorf("success count = %v, want 2", got)
	}
	if got := counterValue(t, promReg, "shadowtree_reconciles_total", "error"); got != 1 {
		t.Errorf("error count = %v, want 1", got)
	}
}

func TestPrometheusObservesDuration(t *testing.T) {
	promReg := prometheus.NewRegistry()
	wrap := Prometheus(WithRegistry(promReg))

	live, target := testNodes()
	if err := wrap(okPatcher()).Apply(live, target); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	mfs, err := promReg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == "shadowtree_reconcile_duration_seconds" {
			if n := mf.GetMetric()[0].GetHistogram().GetSampleCount(); n != 1 {
				t.Errorf("histogram samples = %d, want 1", n)
			}
			return
		}
	}
	t.Error("duration histogram not registered")
}

func TestPrometheusNamespaceOption(t *testing.T) {
	promReg := prometheus.NewRegistry()
	wrap := Prometheus(WithRegistry(promReg), WithNamespace("myapp"))

	live, target := testNodes()
	if err := wrap(okPatcher()).Apply(live, target); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	mfs, err := promReg.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	for _, mf := range mfs {
		if mf.GetName() == "myapp_reconciles_total" {
			return
		}
	}
	t.Error("namespaced counter not registered")
}

func TestTrackedTreesGauge(t *testing.T) {
	d := dom.NewDocument(nil)
	n := d.CreateElement("div")
	d.Body().AppendChild(n)
	reg := shadow.New(d, okPatcher())

	gauge := TrackedTrees(reg)
	if got := testutil.ToFloat64(gauge); got != 0 {
		t.Errorf("gauge = %v, want 0", got)
	}

	sh, err := reg.Acquire(shadow.ByNode(n))
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if got := testutil.ToFloat64(gauge); got != 1 {
		t.Errorf("gauge = %v, want 1", got)
	}

	reg.Release(sh)
	if got := testutil.ToFloat64(gauge); got != 0 {
		t.Errorf("gauge = %v after release, want 0", got)
	}
}

func TestOpenTelemetryPassesThrough(t *testing.T) {
	// With no tracer provider configured the global no-op tracer is used;
	// the decorator must still be transparent about results.
	wrap := OpenTelemetry(WithTracerName("test"))

	live, target := testNodes()
	if err := wrap(okPatcher()).Apply(live, target); err != nil {
		t.Errorf("Apply: %v", err)
	}

	bad := errors.New("boom")
	if err := wrap(failPatcher(bad)).Apply(live, target); !errors.Is(err, bad) {
		t.Errorf("Apply error = %v, want %v", err, bad)
	}
}
