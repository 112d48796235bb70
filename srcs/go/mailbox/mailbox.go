// Package mailbox implements the bounded (by default one-slot) blocking
// handoff queue the tree protocol uses to synchronize a parent with each of its
// children once per step, grounded on the same buffered-channel-as-queue
// idiom the teacher uses for its own per-peer message queues
// (rchannel/handler.BufferPool backs every logical queue with a Go
// channel sized to its capacity).
package mailbox

import (
	"context"

	"github.com/lsds/p2pcoord/srcs/go/config"
	"github.com/lsds/p2pcoord/srcs/go/utils"
)

// Mailbox is a bounded FIFO of opaque senders. Push never blocks once a
// slot is free; Pop blocks until at least one element is available. The
// spec's Open Question on mailbox sizing is resolved here in favour of a
// small bounded capacity (config.MailboxCapacity, default 1): the tree
// protocol never has more than one message per edge in flight at a time,
// so an unbounded queue would only mask a protocol bug as a memory leak.
type Mailbox struct {
	ch chan interface{}
}

// New creates a Mailbox with config.MailboxCapacity slots.
func New() *Mailbox {
	return &Mailbox{ch: make(chan interface{}, capacity())}
}

func capacity() int {
	if config.MailboxCapacity <= 0 {
		return 1
	}
	return config.MailboxCapacity
}

// Push enqueues v. It blocks while every slot is occupied. With the
// default single slot, a child that finishes its gradients while a
// sibling's message still waits in the parent's mailbox blocks here until
// the parent pops that message.
func (m *Mailbox) Push(v interface{}) {
	m.ch <- v
}

// Pop blocks until a value is available and returns it in push order.
// There is no timeout, matching the spec's liveness model: a stuck Pop
// means a driver contract violation, not a transient condition to retry.
func (m *Mailbox) Pop() interface{} {
	if config.EnableStallDetection {
		return m.popWithStallDetection()
	}
	return <-m.ch
}

func (m *Mailbox) popWithStallDetection() interface{} {
	d := utils.InstallStallDetector("mailbox")
	v := <-m.ch
	d.Stop()
	return v
}

// PopContext is Pop with an early-exit escape hatch for tests that need
// to assert on a mailbox that should NOT receive anything; it is not used
// by the hot training loop, which has no cancellation points per the
// spec's concurrency model.
func (m *Mailbox) PopContext(ctx context.Context) (interface{}, error) {
	select {
	case v := <-m.ch:
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
