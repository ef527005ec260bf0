package halo

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/notargets/gotealeaf/grid2D"
	"github.com/notargets/gotealeaf/types"
)

// Transport moves flat halo buffers between chunks. Send may buffer until Flush,
// Recv blocks on nothing and fails when the message has not been flushed.
type Transport interface {
	Send(from, to, tag int, buf []float64) error
	Flush(from int) error
	Recv(to, from, tag int, buf []float64) error
}

// Tag identifies a message by field and the face it leaves the sender through.
func Tag(field types.FieldID, face types.Face) int {
	return int(field)*types.NumFaces + int(face)
}

var exchangePhases = [2][2]types.Face{
	{types.Left, types.Right},
	{types.Bottom, types.Top},
}

// Exchanger drives a halo update over a set of chunks that talk through one Transport.
type Exchanger struct {
	Transport Transport
	scratch   map[int][]float64 // Per chunk pack buffer, keyed by chunk ID
}

func NewExchanger(t Transport) *Exchanger {
	return &Exchanger{
		Transport: t,
		scratch:   make(map[int][]float64),
	}
}

// Update refreshes the halos of the masked fields to the given depth: reflective
// faces first, then the left/right exchange, then bottom/top. Each phase packs and
// sends on every chunk concurrently, then receives and unpacks once all sends are
// flushed.
func (e *Exchanger) Update(chunks []*grid2D.Chunk, depth int, mask types.FieldMask) (err error) {
	if mask.IsEmpty() {
		return
	}
	for _, c := range chunks {
		if err = LocalHalos(c, depth, mask); err != nil {
			return
		}
		if n := depth * max(c.Nx, c.Ny); len(e.scratch[c.ID]) < n {
			e.scratch[c.ID] = make([]float64, n)
		}
	}
	for _, faces := range exchangePhases {
		if err = e.phase(chunks, depth, mask, faces); err != nil {
			return
		}
	}
	return
}

func (e *Exchanger) phase(chunks []*grid2D.Chunk, depth int, mask types.FieldMask,
	faces [2]types.Face) (err error) {
	var send, recv errgroup.Group
	for _, c := range chunks {
		c := c
		buf := e.scratch[c.ID]
		send.Go(func() error { return e.sendFaces(c, depth, mask, faces, buf) })
	}
	if err = send.Wait(); err != nil {
		return
	}
	for _, c := range chunks {
		c := c
		buf := e.scratch[c.ID]
		recv.Go(func() error { return e.recvFaces(c, depth, mask, faces, buf) })
	}
	err = recv.Wait()
	return
}

func (e *Exchanger) sendFaces(c *grid2D.Chunk, depth int, mask types.FieldMask,
	faces [2]types.Face, scratch []float64) (err error) {
	for _, face := range faces {
		if c.IsExternal(face) {
			continue
		}
		n := c.Index.StripSize(face, depth)
		for _, id := range mask.Fields() {
			buf := scratch[:n]
			if err = PackOrUnpack(c, face, depth, true, id, buf); err != nil {
				return
			}
			if err = e.Transport.Send(c.ID, c.Neighbours[face], Tag(id, face), buf); err != nil {
				return fmt.Errorf("chunk %d sending %s through %s: %w", c.ID, id, face, err)
			}
		}
	}
	return e.Transport.Flush(c.ID)
}

func (e *Exchanger) recvFaces(c *grid2D.Chunk, depth int, mask types.FieldMask,
	faces [2]types.Face, scratch []float64) (err error) {
	for _, face := range faces {
		if c.IsExternal(face) {
			continue
		}
		n := c.Index.StripSize(face, depth)
		for _, id := range mask.Fields() {
			buf := scratch[:n]
			if err = e.Transport.Recv(c.ID, c.Neighbours[face], Tag(id, face.Opposite()), buf); err != nil {
				return fmt.Errorf("chunk %d receiving %s on %s: %w", c.ID, id, face, err)
			}
			if err = PackOrUnpack(c, face, depth, false, id, buf); err != nil {
				return
			}
		}
	}
	return
}
