package utils

import "fmt"

// MailBox moves messages between NP workers. The pattern for a round is:
// every sender Posts then Delivers, all workers synchronise, then every receiver
// calls ReceiveMyMessages and consumes its queue.
type MailBox[T any] struct {
	NP           int
	MessageChans []chan *DynBuffer[T]    // One for each thread
	PostMsgQs    []map[int]*DynBuffer[T] // One for each thread, key is target thread
	ReceiveMsgQs []*DynBuffer[T]         // One for each thread
	MailFlag     []bool                  // MyThread has messages in its outbox
}

func NewMailBox[T any](NP int) *MailBox[T] {
	mb := &MailBox[T]{
		NP:           NP,
		MessageChans: make([]chan *DynBuffer[T], NP),
		PostMsgQs:    make([]map[int]*DynBuffer[T], NP),
		ReceiveMsgQs: make([]*DynBuffer[T], NP),
		MailFlag:     make([]bool, NP),
	}
	for n := 0; n < NP; n++ {
		mb.MessageChans[n] = make(chan *DynBuffer[T], NP) // Worst case is all-to-all
		mb.PostMsgQs[n] = make(map[int]*DynBuffer[T])
		mb.ReceiveMsgQs[n] = NewDynBuffer[T](0)
	}
	return mb
}

func (mb *MailBox[T]) PostMessage(myThread, targetThread int, msg T) {
	var (
		tgt    *DynBuffer[T]
		exists bool
	)
	if targetThread < 0 || targetThread > mb.NP-1 {
		panic(fmt.Sprintf("target thread %d out of bounds", targetThread))
	}
	if tgt, exists = mb.PostMsgQs[myThread][targetThread]; !exists {
		tgt = NewDynBuffer[T](0)
		mb.PostMsgQs[myThread][targetThread] = tgt
	}
	tgt.Add(msg)
	mb.MailFlag[myThread] = true
}

// DeliverMyMessages hands every non empty outbox of myThread to its target. Must be
// called in myThread before receivers can receive.
func (mb *MailBox[T]) DeliverMyMessages(myThread int) {
	if !mb.MailFlag[myThread] {
		return
	}
	for targetThread, msgBuffer := range mb.PostMsgQs[myThread] {
		if msgBuffer.Len() == 0 {
			continue
		}
		mb.MessageChans[targetThread] <- msgBuffer
	}
	mb.MailFlag[myThread] = false
}

// ReceiveMyMessages drains everything delivered to myThread into its receive queue
// and resets the originating outboxes.
func (mb *MailBox[T]) ReceiveMyMessages(myThread int) {
	for {
		select {
		case msgBuffer := <-mb.MessageChans[myThread]:
			for _, msg := range msgBuffer.Cells() {
				mb.ReceiveMsgQs[myThread].Add(msg)
			}
			msgBuffer.Reset()
		default:
			return
		}
	}
}

func (mb *MailBox[T]) ClearMyMessages(myThread int) {
	mb.ReceiveMsgQs[myThread].Reset()
}
