package utils

import (
	"fmt"
	"math"

	"github.com/notargets/gotealeaf/types"
)

type PartitionMap struct {
	MaxIndex       int // MaxIndex is partitioned into ParallelDegree partitions
	ParallelDegree int
	Partitions     [][2]int // Beginning and end index of partitions
}

func NewPartitionMap(ParallelDegree, maxIndex int) (pm *PartitionMap) {
	pm = &PartitionMap{
		MaxIndex:       maxIndex,
		ParallelDegree: ParallelDegree,
		Partitions:     make([][2]int, ParallelDegree),
	}
	for n := 0; n < ParallelDegree; n++ {
		pm.Partitions[n] = pm.Split1D(n)
	}
	return
}

func (pm *PartitionMap) GetBucket(kDim int) (bucketNum, min, max int) {
	_, bucketNum, min, max = pm.getBucketWithTryCount(kDim)
	return
}

func (pm *PartitionMap) getBucketWithTryCount(kDim int) (tryCount, bucketNum, min, max int) {
	// Initial guess
	bucketNum = int(float64(pm.ParallelDegree*kDim) / float64(pm.MaxIndex))
	if bucketNum > pm.ParallelDegree-1 {
		bucketNum = pm.ParallelDegree - 1
	}
	for !(pm.Partitions[bucketNum][0] <= kDim && pm.Partitions[bucketNum][1] > kDim) {
		if pm.Partitions[bucketNum][0] > kDim {
			bucketNum--
		} else {
			bucketNum++
		}
		if bucketNum == -1 || bucketNum == pm.ParallelDegree {
			return 0, -1, 0, 0
		}
		tryCount++
	}
	min, max = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketRange(bucketNum int) (kMin, kMax int) {
	kMin, kMax = pm.Partitions[bucketNum][0], pm.Partitions[bucketNum][1]
	return
}

func (pm *PartitionMap) GetBucketDimension(bn int) (kMax int) {
	if bn == -1 {
		kMax = pm.MaxIndex
		return
	}
	var (
		k1, k2 = pm.GetBucketRange(bn)
	)
	kMax = k2 - k1
	return
}

func (pm *PartitionMap) Split1D(threadNum int) (bucket [2]int) {
	// This routine splits one dimension into pm.ParallelDegree pieces, with a maximum imbalance of one item
	var (
		Npart            = pm.MaxIndex / (pm.ParallelDegree)
		startAdd, endAdd int
		remainder        int
	)
	remainder = pm.MaxIndex % pm.ParallelDegree
	if remainder != 0 { // spread the remainder over the first chunks evenly
		if threadNum+1 > remainder {
			startAdd = remainder
			endAdd = 0
		} else {
			startAdd = threadNum
			endAdd = 1
		}
	}
	bucket[0] = threadNum*Npart + startAdd
	bucket[1] = bucket[0] + Npart + endAdd
	return
}

// ChunkLayout is the block decomposition of an Nx x Ny cell grid into
// ChunksX x ChunksY chunks. Chunk n sits at column n%ChunksX and row n/ChunksX.
type ChunkLayout struct {
	Nx, Ny           int
	ChunksX, ChunksY int
	XParts, YParts   *PartitionMap
}

func NewChunkLayout(Nx, Ny, NumChunks int) (cl *ChunkLayout, err error) {
	if Nx < 1 || Ny < 1 || NumChunks < 1 {
		err = fmt.Errorf("unable to decompose %d x %d cells into %d chunks", Nx, Ny, NumChunks)
		return
	}
	cx, cy := BestChunkSplit(Nx, Ny, NumChunks)
	if cx > Nx || cy > Ny {
		err = fmt.Errorf("decomposition of %d x %d cells into %d x %d chunks leaves empty chunks",
			Nx, Ny, cx, cy)
		return
	}
	cl = &ChunkLayout{
		Nx:      Nx,
		Ny:      Ny,
		ChunksX: cx,
		ChunksY: cy,
		XParts:  NewPartitionMap(cx, Nx),
		YParts:  NewPartitionMap(cy, Ny),
	}
	return
}

// BestChunkSplit factors NumChunks into cx*cy minimising the squared chunk extents,
// which keeps chunks close to square and halo traffic low.
func BestChunkSplit(Nx, Ny, NumChunks int) (cx, cy int) {
	var (
		best   = math.MaxFloat64
		xc, yc = float64(Nx), float64(Ny)
	)
	for xx := 1; xx <= NumChunks; xx++ {
		if NumChunks%xx != 0 {
			continue
		}
		yy := NumChunks / xx
		metric := 2 * ((xc/float64(xx))*(xc/float64(xx)) + (yc/float64(yy))*(yc/float64(yy)))
		if metric < best {
			cx, cy, best = xx, yy, metric
		}
	}
	return
}

func (cl *ChunkLayout) NumChunks() int { return cl.ChunksX * cl.ChunksY }

// Extent returns the global cell range [left,right) x [bottom,top) owned by a chunk.
func (cl *ChunkLayout) Extent(chunk int) (left, right, bottom, top int) {
	left, right = cl.XParts.GetBucketRange(chunk % cl.ChunksX)
	bottom, top = cl.YParts.GetBucketRange(chunk / cl.ChunksX)
	return
}

func (cl *ChunkLayout) Neighbours(chunk int) (nb [types.NumFaces]int) {
	var (
		xx, yy = chunk % cl.ChunksX, chunk / cl.ChunksX
	)
	for f := range nb {
		nb[f] = types.ExternalFace
	}
	if xx > 0 {
		nb[types.Left] = chunk - 1
	}
	if xx < cl.ChunksX-1 {
		nb[types.Right] = chunk + 1
	}
	if yy > 0 {
		nb[types.Bottom] = chunk - cl.ChunksX
	}
	if yy < cl.ChunksY-1 {
		nb[types.Top] = chunk + cl.ChunksX
	}
	return
}

// Owner finds the chunk holding global cell (i, j).
func (cl *ChunkLayout) Owner(i, j int) (chunk int) {
	bx, _, _ := cl.XParts.GetBucket(i)
	by, _, _ := cl.YParts.GetBucket(j)
	if bx < 0 || by < 0 {
		return -1
	}
	return bx + by*cl.ChunksX
}
