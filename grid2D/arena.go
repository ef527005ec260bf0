package grid2D

import (
	"errors"
	"fmt"
	"math"
)

var ErrAllocation = errors.New("chunk allocation failed")

// MaxArenaValues bounds the float64 count of one chunk arena.
var MaxArenaValues = int64(1) << 32

// Handle addresses one contiguous array inside an Arena.
type Handle struct {
	Offset, Length int
}

// Arena is a single zeroed float64 block that hands out fixed sub arrays. All
// sizes are known up front, so the chunk does one allocation and no kernel ever
// allocates.
type Arena struct {
	data []float64
	used int
}

func NewArena(size int64) (a *Arena, err error) {
	if size <= 0 || size > MaxArenaValues || size > math.MaxInt {
		err = fmt.Errorf("%w: arena of %d values outside (0, %d]", ErrAllocation, size, MaxArenaValues)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			a = nil
			err = fmt.Errorf("%w: %v", ErrAllocation, r)
		}
	}()
	a = &Arena{data: make([]float64, int(size))}
	return
}

func (a *Arena) Alloc(n int) (h Handle, err error) {
	if a == nil || a.data == nil {
		err = fmt.Errorf("%w: arena released", ErrAllocation)
		return
	}
	if n < 0 || a.used+n > len(a.data) {
		err = fmt.Errorf("%w: request for %d values with %d of %d in use",
			ErrAllocation, n, a.used, len(a.data))
		return
	}
	h = Handle{Offset: a.used, Length: n}
	a.used += n
	return
}

// Slice returns the array behind h, capped so appends can not spill into a neighbour.
func (a *Arena) Slice(h Handle) []float64 {
	end := h.Offset + h.Length
	return a.data[h.Offset:end:end]
}

func (a *Arena) Cap() int  { return len(a.data) }
func (a *Arena) Used() int { return a.used }

func (a *Arena) Release() {
	a.data = nil
	a.used = 0
}
