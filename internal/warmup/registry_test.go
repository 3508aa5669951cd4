package warmup

import (
	"errors"
	"testing"

	"github.com/ember-ml/ember/internal/backend/cpu"
)

func TestRegistryOrdinalAssignment(t *testing.T) {
	r := newRegistry[*cpu.CPUBackend]()
	r.beginPass()

	for i := 1; i <= 3; i++ {
		site, fresh, err := r.resolve("", "conv", "conv", true)
		if err != nil {
			t.Fatalf("resolve %d: %v", i, err)
		}
		if !fresh {
			t.Fatalf("resolve %d: expected fresh site", i)
		}
		want := "conv_" + string(rune('0'+i))
		if site.FullName != want || site.Ordinal != i {
			t.Errorf("resolve %d: got %q ordinal %d, want %q ordinal %d",
				i, site.FullName, site.Ordinal, want, i)
		}
		r.bind(site, &Materialized[*cpu.CPUBackend]{})
	}

	// Independent base names count separately.
	site, _, err := r.resolve("", "linear", "linear", true)
	if err != nil {
		t.Fatalf("resolve linear: %v", err)
	}
	if site.FullName != "linear_1" {
		t.Errorf("got %q, want linear_1", site.FullName)
	}
}

// Replay cursors reset each pass, so the Nth anonymous call of a base
// resolves to the site the trace bound at position N.
func TestRegistryReplayCursor(t *testing.T) {
	r := newRegistry[*cpu.CPUBackend]()
	r.beginPass()

	var traced []*CallSite[*cpu.CPUBackend]
	for i := 0; i < 2; i++ {
		site, _, err := r.resolve("", "conv", "conv", true)
		if err != nil {
			t.Fatalf("trace resolve: %v", err)
		}
		r.bind(site, &Materialized[*cpu.CPUBackend]{})
		traced = append(traced, site)
	}

	for pass := 0; pass < 3; pass++ {
		r.beginPass()
		for i, want := range traced {
			site, fresh, err := r.resolve("", "conv", "conv", false)
			if err != nil {
				t.Fatalf("pass %d call %d: %v", pass, i, err)
			}
			if fresh {
				t.Fatalf("pass %d call %d: replay must not be fresh", pass, i)
			}
			if site != want {
				t.Errorf("pass %d call %d: resolved %q, want %q",
					pass, i, site.FullName, want.FullName)
			}
		}
	}
}

func TestRegistryReplayUnknownSite(t *testing.T) {
	r := newRegistry[*cpu.CPUBackend]()
	r.beginPass()

	site, _, err := r.resolve("", "conv", "conv", true)
	if err != nil {
		t.Fatal(err)
	}
	r.bind(site, &Materialized[*cpu.CPUBackend]{})

	r.beginPass()
	if _, _, err := r.resolve("", "conv", "conv", false); err != nil {
		t.Fatalf("known site: %v", err)
	}
	_, _, err = r.resolve("", "conv", "conv", false)
	if err == nil {
		t.Fatal("expected error for call site beyond the traced count")
	}
	var infer *ShapeInferenceError
	if !errors.As(err, &infer) {
		t.Fatalf("want ShapeInferenceError, got %T", err)
	}
	if infer.Site != "conv_2" {
		t.Errorf("error site = %q, want conv_2", infer.Site)
	}
}

func TestRegistryCollisionDuringTrace(t *testing.T) {
	r := newRegistry[*cpu.CPUBackend]()
	r.beginPass()

	site, _, err := r.resolve("head", "head", "conv", true)
	if err != nil {
		t.Fatal(err)
	}
	r.bind(site, &Materialized[*cpu.CPUBackend]{})

	_, _, err = r.resolve("head", "head", "linear", true)
	var collision *NameCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("want NameCollisionError, got %T (%v)", err, err)
	}
	if collision.Name != "head" || collision.Kind != "linear" {
		t.Errorf("collision = %+v, want name head kind linear", collision)
	}
}

// An explicit name that matches a name the counter would generate
// collides with the anonymous site claiming it.
func TestRegistryExplicitShadowsGenerated(t *testing.T) {
	r := newRegistry[*cpu.CPUBackend]()
	r.beginPass()

	site, _, err := r.resolve("conv_1", "conv", "conv", true)
	if err != nil {
		t.Fatal(err)
	}
	r.bind(site, &Materialized[*cpu.CPUBackend]{})

	_, _, err = r.resolve("", "conv", "conv", true)
	var collision *NameCollisionError
	if !errors.As(err, &collision) {
		t.Fatalf("want NameCollisionError, got %T (%v)", err, err)
	}
}
