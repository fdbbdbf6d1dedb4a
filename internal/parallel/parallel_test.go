package parallel

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 8}

	var counter int64
	For(1000, cfg, func(_ int) {
		atomic.AddInt64(&counter, 1)
	})

	assert.Equal(t, int64(1000), counter)
}

func TestRange_CoversEveryIndexOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 4}
	hits := make([]int32, 50)

	var mu sync.Mutex
	var chunks int
	Range(len(hits), cfg, func(start, end int) {
		mu.Lock()
		chunks++
		mu.Unlock()
		for i := start; i < end; i++ {
			atomic.AddInt32(&hits[i], 1)
		}
	})

	for i, h := range hits {
		assert.Equal(t, int32(1), h, "index %d", i)
	}
	assert.Equal(t, 3, chunks)
}

func TestRange_SequentialFallback(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		n    int
	}{
		{"disabled", Sequential(), 1000},
		{"small", Config{Enabled: true, NumWorkers: 8, MinChunkSize: 64}, 100},
		{"single worker", Config{Enabled: true, NumWorkers: 1}, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls []int
			Range(tt.n, tt.cfg, func(start, end int) {
				calls = append(calls, start, end)
			})
			assert.Equal(t, []int{0, tt.n}, calls)
		})
	}
}

func TestRange_Empty(t *testing.T) {
	Range(0, DefaultConfig(), func(_, _ int) {
		t.Fatal("f must not run for n == 0")
	})
}

func BenchmarkFor(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, cfg, func(i int) {
				atomic.AddInt64(&sum, int64(i))
			})
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var sum int64
			For(n, Sequential(), func(i int) {
				atomic.AddInt64(&sum, int64(i))
			})
		}
	})
}
