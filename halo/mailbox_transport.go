package halo

import (
	"errors"
	"fmt"

	"github.com/notargets/gotealeaf/utils"
)

var ErrNoMessage = errors.New("no matching halo message")

type message struct {
	From, Tag int
	Data      []float64
}

type slotKey struct{ to, tag int }

// MailBoxTransport is the in process Transport. Chunk IDs are the MailBox thread
// numbers, so they must run 0..NumChunks-1. Each sender owns one reusable message
// per (target, tag), which is safe because a receiver always drains a round before
// the sender posts the next one.
type MailBoxTransport struct {
	box   *utils.MailBox[*message]
	slots []map[slotKey]*message
}

func NewMailBoxTransport(NumChunks int) (mt *MailBoxTransport) {
	mt = &MailBoxTransport{
		box:   utils.NewMailBox[*message](NumChunks),
		slots: make([]map[slotKey]*message, NumChunks),
	}
	for n := range mt.slots {
		mt.slots[n] = make(map[slotKey]*message)
	}
	return
}

func (mt *MailBoxTransport) checkThread(n int) (err error) {
	if n < 0 || n >= mt.box.NP {
		err = fmt.Errorf("chunk %d outside transport of %d chunks", n, mt.box.NP)
	}
	return
}

func (mt *MailBoxTransport) Send(from, to, tag int, buf []float64) (err error) {
	if err = mt.checkThread(from); err != nil {
		return
	}
	if err = mt.checkThread(to); err != nil {
		return
	}
	key := slotKey{to: to, tag: tag}
	msg, ok := mt.slots[from][key]
	if !ok || cap(msg.Data) < len(buf) {
		msg = &message{From: from, Tag: tag, Data: make([]float64, len(buf))}
		mt.slots[from][key] = msg
	}
	msg.Data = msg.Data[:len(buf)]
	copy(msg.Data, buf)
	mt.box.PostMessage(from, to, msg)
	return
}

func (mt *MailBoxTransport) Flush(from int) (err error) {
	if err = mt.checkThread(from); err != nil {
		return
	}
	mt.box.DeliverMyMessages(from)
	return
}

func (mt *MailBoxTransport) Recv(to, from, tag int, buf []float64) (err error) {
	if err = mt.checkThread(to); err != nil {
		return
	}
	mt.box.ReceiveMyMessages(to)
	queue := mt.box.ReceiveMsgQs[to]
	for i, msg := range queue.Cells() {
		if msg.From != from || msg.Tag != tag {
			continue
		}
		if len(msg.Data) != len(buf) {
			err = fmt.Errorf("%w: message from %d tag %d holds %d values, receiver expects %d",
				ErrBufferSize, from, tag, len(msg.Data), len(buf))
			return
		}
		copy(buf, msg.Data)
		queue.RemoveAt(i)
		return
	}
	err = fmt.Errorf("%w: from %d to %d tag %d", ErrNoMessage, from, to, tag)
	return
}
