package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionMap(t *testing.T) {
	{ // Test PartitionMap
		getHisto := func(K, Np int) (histo map[int]int) {
			pm := NewPartitionMap(Np, K)
			histo = make(map[int]int)
			for np := 0; np < pm.ParallelDegree; np++ {
				maxK := pm.GetBucketDimension(np)
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
		for n := 64; n < 10000; n++ {
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
	{ // Test inverted bucket probe - find bucket that contains index (efficiently)
		for maxIndex := 10; maxIndex < 1000; maxIndex++ {
			pm := NewPartitionMap(5, maxIndex)
			for k := 0; k < maxIndex; k++ {
				tryCount, bn, min, max := pm.getBucketWithTryCount(k)
				mmin, mmax := pm.GetBucketRange(bn)
				assert.True(t, k >= min && k < max && min == mmin && max == mmax && tryCount <= 1)
			}
		}
	}
}

func TestChunkLayout(t *testing.T) {
	{ // Test factorisation keeps chunks square
		cx, cy := BestChunkSplit(10, 10, 4)
		assert.Equal(t, [2]int{2, 2}, [2]int{cx, cy})
		cx, cy = BestChunkSplit(100, 10, 4)
		assert.Equal(t, [2]int{4, 1}, [2]int{cx, cy})
		cx, cy = BestChunkSplit(10, 10, 1)
		assert.Equal(t, [2]int{1, 1}, [2]int{cx, cy})
		cx, cy = BestChunkSplit(10, 10, 7)
		assert.Equal(t, 7, cx*cy)
	}
	{ // Test extents and neighbours on a 2x2 layout
		cl, err := NewChunkLayout(10, 10, 4)
		assert.NoError(t, err)
		assert.Equal(t, 4, cl.NumChunks())
		l, r, b, tp := cl.Extent(3)
		assert.Equal(t, [4]int{5, 10, 5, 10}, [4]int{l, r, b, tp})
		l, r, b, tp = cl.Extent(0)
		assert.Equal(t, [4]int{0, 5, 0, 5}, [4]int{l, r, b, tp})
		assert.Equal(t, [4]int{-1, 1, -1, 2}, cl.Neighbours(0))
		assert.Equal(t, [4]int{2, -1, 1, -1}, cl.Neighbours(3))
		assert.Equal(t, 1, cl.Owner(7, 2))
		assert.Equal(t, 2, cl.Owner(0, 9))
	}
	{ // Test uneven split gives the remainder to the first chunks
		cl, err := NewChunkLayout(11, 3, 2)
		assert.NoError(t, err)
		assert.Equal(t, 2, cl.ChunksX)
		l, r, _, _ := cl.Extent(0)
		assert.Equal(t, 6, r-l)
		l, r, _, _ = cl.Extent(1)
		assert.Equal(t, 5, r-l)
	}
	{ // Test impossible decompositions
		_, err := NewChunkLayout(2, 2, 9)
		assert.Error(t, err)
		_, err = NewChunkLayout(0, 2, 1)
		assert.Error(t, err)
	}
}

func TestMailBox(t *testing.T) {
	mb := NewMailBox[int](3)
	mb.PostMessage(0, 1, 10)
	mb.PostMessage(0, 1, 11)
	mb.PostMessage(2, 1, 12)
	mb.DeliverMyMessages(0)
	mb.DeliverMyMessages(1) // nothing to send
	mb.DeliverMyMessages(2)
	mb.ReceiveMyMessages(1)
	assert.Equal(t, 3, mb.ReceiveMsgQs[1].Len())
	assert.ElementsMatch(t, []int{10, 11, 12}, mb.ReceiveMsgQs[1].Cells())
	mb.ReceiveMyMessages(0)
	assert.Equal(t, 0, mb.ReceiveMsgQs[0].Len())
	mb.ReceiveMsgQs[1].RemoveAt(0)
	assert.Equal(t, 2, mb.ReceiveMsgQs[1].Len())
	mb.ClearMyMessages(1)
	assert.Equal(t, 0, mb.ReceiveMsgQs[1].Len())
	assert.Panics(t, func() { mb.PostMessage(0, 3, 1) })
}
