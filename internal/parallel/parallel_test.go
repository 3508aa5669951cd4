package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForCoversRange(t *testing.T) {
	configs := []Config{
		{Enabled: false},
		{Enabled: true, NumWorkers: 4, MinChunkSize: 1},
		{Enabled: true, NumWorkers: 2, MinChunkSize: 1000}, // falls back to sequential
	}

	for _, cfg := range configs {
		const n = 200
		var hits [n]int32
		For(n, func(i int) {
			atomic.AddInt32(&hits[i], 1)
		}, cfg)

		for i, h := range hits {
			if h != 1 {
				t.Fatalf("cfg %+v: index %d visited %d times", cfg, i, h)
			}
		}
	}
}

func TestForZeroIterations(t *testing.T) {
	called := false
	For(0, func(int) { called = true }, DefaultConfig())
	if called {
		t.Error("body ran for n=0")
	}
}

func TestForBatchDecomposition(t *testing.T) {
	const batch, filters = 3, 5
	var hits [batch][filters]int32

	ForBatch(batch, filters, func(n, f int) {
		atomic.AddInt32(&hits[n][f], 1)
	}, Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1})

	for n := range hits {
		for f := range hits[n] {
			if hits[n][f] != 1 {
				t.Errorf("pair (%d, %d) visited %d times", n, f, hits[n][f])
			}
		}
	}
}
