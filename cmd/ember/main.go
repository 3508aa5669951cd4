// Package main provides the Ember ML Framework CLI.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ember-ml/ember/backend/cpu"
	"github.com/ember-ml/ember/fn"
	"github.com/ember-ml/ember/nn"
	"github.com/ember-ml/ember/tensor"
	"github.com/ember-ml/ember/warmup"
)

const version = "v0.0.1-dev"

type b = *cpu.Backend

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	switch os.Args[1] {
	case "version":
		fmt.Printf("Ember ML Framework %s\n", version)
	case "trace":
		if err := runTrace(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "trace: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Ember ML Framework - Lazy Model Construction for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version              Show version")
	fmt.Println("  trace [-shape dims]  Warm up the demo CNN and print the materialized shapes")
}

// traceNet is the demo network: every layer size except the output counts
// is inferred from the warm-up trace.
func traceNet(s *warmup.Scope[b], xs ...*tensor.Tensor[float32, b]) (*tensor.Tensor[float32, b], error) {
	h, err := fn.Conv(s, xs[0], 16, 3,
		fn.With("padding", 1),
		fn.WithActivation("relu"),
	)
	if err != nil {
		return nil, err
	}
	h, err = fn.BatchNorm(s, h)
	if err != nil {
		return nil, err
	}
	h, err = fn.Conv(s, h, 32, 3,
		fn.With("stride", 2),
		fn.WithActivation("relu"),
	)
	if err != nil {
		return nil, err
	}
	shape := h.Shape()
	h = h.Reshape(shape[0], shape[1]*shape[2]*shape[3])
	return fn.Linear(s, h, 10, fn.WithName("head"))
}

// runTrace warms up traceNet against the requested input shape and
// reports every materialized module and parameter.
func runTrace(args []string) error {
	fs := flag.NewFlagSet("trace", flag.ContinueOnError)
	shapeArg := fs.String("shape", "1,1,28,28", "input shape as comma-separated dims, batch first")
	if err := fs.Parse(args); err != nil {
		return err
	}

	shape, err := parseShape(*shapeArg)
	if err != nil {
		return err
	}
	if len(shape) != 4 {
		return fmt.Errorf("demo network expects a rank-4 shape [batch, channel, height, width], got %v", shape)
	}

	backend := cpu.New()
	net := nn.NewContainer[b]()
	if _, err := warmup.WarmUp(net, backend, traceNet, shape); err != nil {
		return err
	}

	fmt.Printf("Traced input %v, materialized %d modules:\n", shape, net.Len())
	total := 0
	for _, name := range net.Names() {
		child, _ := net.Child(name)
		for _, p := range child.Parameters() {
			n := p.Tensor().NumElements()
			total += n
			fmt.Printf("  %-12s %-8s %-16v %8d\n", name, p.Name(), p.Tensor().Shape(), n)
		}
	}
	fmt.Printf("Total parameters: %d\n", total)
	return nil
}

func parseShape(s string) (tensor.Shape, error) {
	parts := strings.Split(s, ",")
	shape := make(tensor.Shape, 0, len(parts))
	for _, part := range parts {
		dim, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || dim <= 0 {
			return nil, fmt.Errorf("invalid shape %q: dims must be positive integers", s)
		}
		shape = append(shape, dim)
	}
	return shape, nil
}
