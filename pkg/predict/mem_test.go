//go:build test

package predict

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var memInputs = []string{
	"n", "ne", "nev", "neve", "never", "never ",
	"never g", "never go", "never gonna", "never gonna ",
	"never gonna g", "never gonna give", "never gonna give ",
	"never gonna l", "never gonna let you ", "never gonna let you d",
	"xyz ", "",
}

func memPredictor() *Predictor {
	return New(build(2,
		"never gonna give you up",
		"never gonna let you down",
		"never gonna run around and desert you",
	), 2)
}

func TestMemoryStablePredict(t *testing.T) {
	for _, iterations := range []int{100, 1000, 5000} {
		t.Run(fmt.Sprintf("iterations_%d", iterations), func(t *testing.T) {
			p := memPredictor()

			var baseline runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&baseline)
			baselineGoroutines := runtime.NumGoroutine()

			for i := 0; i < iterations; i++ {
				for _, in := range memInputs {
					_, _ = p.Predict(in)
				}
			}

			var final runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&final)

			totalOps := iterations * len(memInputs)
			memPerOp := float64(int64(final.Alloc)-int64(baseline.Alloc)) / float64(totalOps)
			t.Logf("iterations=%d ops=%d mem_per_op=%.2f", iterations, totalOps, memPerOp)

			assert.Less(t, memPerOp, 1000.0, "retained memory per prediction")
			assert.LessOrEqual(t, runtime.NumGoroutine()-baselineGoroutines, 2, "goroutine leak")
		})
	}
}

func TestMemoryStableConcurrentPredict(t *testing.T) {
	configs := []struct {
		workers    int
		iterations int
	}{
		{workers: 1, iterations: 1000},
		{workers: 4, iterations: 250},
		{workers: 8, iterations: 125},
	}

	for _, cfg := range configs {
		t.Run(fmt.Sprintf("workers_%d_iter_%d", cfg.workers, cfg.iterations), func(t *testing.T) {
			p := memPredictor()

			var baseline runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&baseline)
			baselineGoroutines := runtime.NumGoroutine()

			var wg sync.WaitGroup
			var totalOps atomic.Int64
			for w := 0; w < cfg.workers; w++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for i := 0; i < cfg.iterations; i++ {
						for _, in := range memInputs {
							_, _ = p.Predict(in)
							totalOps.Add(1)
						}
					}
				}()
			}
			wg.Wait()

			var final runtime.MemStats
			runtime.GC()
			runtime.ReadMemStats(&final)

			memPerOp := float64(int64(final.Alloc)-int64(baseline.Alloc)) / float64(totalOps.Load())
			t.Logf("workers=%d ops=%d mem_per_op=%.2f", cfg.workers, totalOps.Load(), memPerOp)

			assert.Less(t, memPerOp, 1000.0, "retained memory per prediction")
			assert.LessOrEqual(t, runtime.NumGoroutine()-baselineGoroutines, 3, "goroutine leak")
		})
	}
}
