package diag

import (
	"sync"
	"testing"
)

func TestCollectorConcurrent(t *testing.T) {
	var c Collector
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Warn(Warning{Kind: DegenerateUV, Mesh: 0, Index: i})
		}(i)
	}
	wg.Wait()

	if n := len(c.Warnings()); n != 8 {
		t.Fatalf("collected %d warnings, want 8", n)
	}
	if c.Count(DegenerateUV) != 8 || c.Count(WeightSum) != 0 {
		t.Error("Count() by kind mismatch")
	}
}

func TestTee(t *testing.T) {
	var a, b Collector
	Tee{&a, &b, Discard}.Warn(Warning{Kind: WeightSum, Mesh: 1, Index: 2, Msg: "sum 0.5"})
	if len(a.Warnings()) != 1 || len(b.Warnings()) != 1 {
		t.Error("Tee did not reach every sink")
	}
	if got := a.Warnings()[0].String(); got != "weight-sum mesh=1 index=2: sum 0.5" {
		t.Errorf("Warning.String() = %q", got)
	}
}
