package nn

import (
	"testing"

	"github.com/ember-ml/ember/internal/backend/cpu"
)

func TestContainerRegister(t *testing.T) {
	backend := cpu.New()
	c := NewContainer[*cpu.CPUBackend]()

	if err := c.Register("fc1", NewLinear(4, 8, true, backend)); err != nil {
		t.Fatal(err)
	}
	if err := c.Register("fc2", NewLinear(8, 2, true, backend)); err != nil {
		t.Fatal(err)
	}

	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}
	if _, ok := c.Child("fc1"); !ok {
		t.Error("fc1 not found")
	}
	if _, ok := c.Child("fc3"); ok {
		t.Error("fc3 should not exist")
	}

	names := c.Names()
	if len(names) != 2 || names[0] != "fc1" || names[1] != "fc2" {
		t.Errorf("Names = %v, want [fc1 fc2]", names)
	}
}

func TestContainerRejectsDuplicates(t *testing.T) {
	backend := cpu.New()
	c := NewContainer[*cpu.CPUBackend]()

	if err := c.Register("fc", NewLinear(4, 8, true, backend)); err != nil {
		t.Fatal(err)
	}
	if err := c.Register("fc", NewLinear(4, 8, true, backend)); err == nil {
		t.Error("expected error on duplicate name")
	}
	if err := c.Register("", NewLinear(4, 8, true, backend)); err == nil {
		t.Error("expected error on empty name")
	}
}

func TestContainerParameterNaming(t *testing.T) {
	backend := cpu.New()
	c := NewContainer[*cpu.CPUBackend]()

	if err := c.Register("fc", NewLinear(4, 8, true, backend)); err != nil {
		t.Fatal(err)
	}
	if err := c.Register("norm", NewBatchNorm(8, 1e-5, true, backend)); err != nil {
		t.Fatal(err)
	}

	params := c.Parameters()
	want := []string{"fc.weight", "fc.bias", "norm.gamma", "norm.beta"}
	if len(params) != len(want) {
		t.Fatalf("got %d parameters, want %d", len(params), len(want))
	}
	for i, p := range params {
		if p.Name() != want[i] {
			t.Errorf("param %d = %q, want %q", i, p.Name(), want[i])
		}
	}
}
