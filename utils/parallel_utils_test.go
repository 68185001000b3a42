package utils

import (
	"fmt"
	"math"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Bucket sizes
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				kMin, kMax := pm.GetBucketRange(np)
				maxK := kMax - kMin
				histo[maxK]++
			}
			return
		}
		getTotal := func(histo map[int]int) (total int) {
			for key, count := range histo {
				total += key * count
			}
			return
		}
		assert.Equal(t, map[int]int{0: 30, 1: 2}, getHisto(2, 32))
		assert.Equal(t, map[int]int{1: 32}, getHisto(32, 32))
		assert.Equal(t, map[int]int{8: 32}, getHisto(256, 32))
		assert.Equal(t, map[int]int{8: 1, 9: 31}, getHisto(287, 32))
		assert.Equal(t, 287, getTotal(getHisto(287, 32)))
		for n := 64; n < 2000; n++ {
			var (
				keys   [2]float64
				keyNum int
			)
			histo := getHisto(n, 32)
			for key := range histo {
				keys[keyNum] = float64(key)
				keyNum++
			}
			if keyNum == 2 {
				assert.Equal(t, 1., math.Abs(keys[0]-keys[1])) // Maximum imbalance of 1
			}
			assert.Equal(t, n, getTotal(histo))
		}
	}
	{ // Buckets tile the index range in order
		for maxIndex := 10; maxIndex < 300; maxIndex++ {
			pm := NewPartitionMap(5, maxIndex)
			next := 0
			for np := 0; np < pm.ParallelDegree; np++ {
				kMin, kMax := pm.GetBucketRange(np)
				assert.Equal(t, next, kMin)
				next = kMax
			}
			assert.Equal(t, maxIndex, next)
		}
		assert.Equal(t, 1, NewPartitionMap(0, 10).ParallelDegree)
	}
}

func TestPartitionMapRun(t *testing.T) {
	var (
		pm    = NewPartitionMap(4, 10)
		seen  = make([]int32, 10)
		calls int32
	)
	err := pm.Run(func(bn, kMin, kMax int) error {
		atomic.AddInt32(&calls, 1)
		for k := kMin; k < kMax; k++ {
			atomic.AddInt32(&seen[k], 1)
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, int32(4), calls)
	for k := range seen {
		assert.Equal(t, int32(1), seen[k])
	}
	// Empty buckets are skipped
	calls = 0
	assert.NoError(t, NewPartitionMap(8, 3).Run(func(bn, kMin, kMax int) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))
	assert.Equal(t, int32(3), calls)
	// Errors surface in bucket order
	err = pm.Run(func(bn, kMin, kMax int) error {
		if bn >= 2 {
			return fmt.Errorf("bucket %d", bn)
		}
		return nil
	})
	assert.EqualError(t, err, "bucket 2")
}
