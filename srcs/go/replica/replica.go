// Package replica implements the per-device tree node (C4): it owns one
// device's flat buffers and mailbox, links to its parent and children,
// and answers the two callbacks a Driver invokes once per step. The
// callback bodies are ported from the original source's
// P2PSync::on_start and P2PSync::on_gradients_ready, with the hipMemcpy
// and hipStream calls replaced by accel.Runtime and the CHECK_EQ device
// assertions gated behind config.ShowDebugLog instead of a build-time
// #ifdef DEBUG.
package replica

import (
	"github.com/lsds/p2pcoord/srcs/go/accel"
	"github.com/lsds/p2pcoord/srcs/go/buffer"
	"github.com/lsds/p2pcoord/srcs/go/config"
	"github.com/lsds/p2pcoord/srcs/go/kernel"
	"github.com/lsds/p2pcoord/srcs/go/log"
	"github.com/lsds/p2pcoord/srcs/go/mailbox"
	"github.com/lsds/p2pcoord/srcs/go/telemetry"
	"github.com/lsds/p2pcoord/srcs/go/tensor"
	"github.com/lsds/p2pcoord/srcs/go/utils"
	"github.com/lsds/p2pcoord/srcs/go/utils/assert"
)

// Replica is one node of the reduction tree. The root has Parent == nil
// and runs its Driver on the coordinator's goroutine; every other replica
// runs on a dedicated worker goroutine pinned to its Device.
//
// Across one step a replica moves through the same states the spec
// describes: idle until its Driver calls OnStart, waiting_parent inside
// the mbox.Pop at the top of OnStart (skipped for the root), forward
// while the Driver computes outside these callbacks, backward once
// OnGradientsReady starts summing child gradients, and sending_grads
// while it pushes its own total to its parent's mailbox.
type Replica struct {
	Device accel.DeviceID

	rt     accel.Runtime
	kernel kernel.Kernel
	driver tensor.Driver

	buffers *buffer.FlatBuffers
	mbox    *mailbox.Mailbox

	parent   *Replica
	children []*Replica

	// parentGrads is the receiving region this replica's gradient total
	// is copied into, allocated on the PARENT's device so the parent can
	// sum it locally without a staged host round-trip. Nil for the root.
	parentGrads *tensor.Vector

	access *accel.AccessManager

	initialIter  int
	replicaCount int // meaningful on the root only; set by the coordinator
}

// seeder is implemented by drivers that support per-replica random seed
// decorrelation. It is optional: drivers that don't implement it simply
// never get reseeded, matching the original's "if a seed is configured"
// branch.
type seeder interface {
	Reseed(seed int)
}

// New builds a replica for driver on dev, wires it to parent (nil for the
// root), and allocates its flat buffers and parent-facing receive
// region. It also registers the replica as the driver's Hooks and
// appends it to parent.children.
func New(rt accel.Runtime, k kernel.Kernel, dev accel.DeviceID, dtype tensor.DType, driver tensor.Driver, parent *Replica) *Replica {
	r := &Replica{
		Device:      dev,
		rt:          rt,
		kernel:      k,
		driver:      driver,
		mbox:        mailbox.New(),
		parent:      parent,
		access:      accel.NewAccessManager(rt),
		initialIter: driver.Iter(),
	}

	accel.Scoped(rt, dev, func() {
		r.buffers = buffer.New(rt, dev, dtype, driver.LearnableParameters())
	})

	if parent != nil {
		r.access.Acquire(dev, parent.Device)
		accel.Scoped(rt, parent.Device, func() {
			r.parentGrads = rt.Alloc(parent.Device, r.buffers.Size, dtype)
		})
		parent.children = append(parent.children, r)
	}

	driver.AddCallback(r)
	log.Debugf("replica: built %s parent=%v", dev, parentDevice(parent))
	return r
}

func parentDevice(p *Replica) interface{} {
	if p == nil {
		return "none"
	}
	return p.Device
}

// IsRoot reports whether this replica has no parent.
func (r *Replica) IsRoot() bool {
	return r.parent == nil
}

// Children returns this replica's direct children in registration order.
func (r *Replica) Children() []*Replica {
	return r.children
}

// SetReplicaCount records how many replicas are in the tree. Only the
// root reads this, to scale its summed gradient by 1/N before the
// Driver's optimizer step consumes it.
func (r *Replica) SetReplicaCount(n int) {
	r.replicaCount = n
}

// Close releases the device resources this replica owns: its flat
// buffers, its parent-facing receive region, and the P2P access it
// acquired from its device to its parent's.
func (r *Replica) Close() {
	if r.parent != nil {
		accel.Scoped(r.rt, r.parent.Device, func() {
			r.rt.Free(r.parentGrads)
		})
		r.access.Release(r.Device, r.parent.Device)
	}
	accel.Scoped(r.rt, r.Device, func() {
		r.buffers.Release(r.rt)
	})
}

// RunWorker pins the calling goroutine to this replica's device, reseeds
// the driver's RNG if it is configured to decorrelate by device, and
// steps the driver for the remainder of its configured iteration budget.
// It is only ever called for non-root replicas; the root's Driver.Solve
// runs on the coordinator's own goroutine instead.
func (r *Replica) RunWorker() error {
	var err error
	accel.Scoped(r.rt, r.Device, func() {
		cfg := r.driver.Param()
		if cfg.RandomSeed >= 0 {
			if s, ok := r.driver.(seeder); ok {
				s.Reseed(cfg.RandomSeed + int(r.Device))
			}
		}
		err = r.driver.Step(cfg.MaxIter - r.initialIter)
	})
	return err
}

// OnStart implements tensor.Hooks. It blocks for the parent's go-ahead
// (skipped on the root), then scatters the current parameter values down
// to every child in turn before returning control to the Driver's
// forward pass.
func (r *Replica) OnStart() {
	if config.ShowDebugLog() {
		assert.True(r.rt.CurrentDevice() == r.Device)
	}

	if r.parent != nil {
		v := r.mbox.Pop()
		sender, ok := v.(*Replica)
		assert.True(ok)
		assert.True(sender == r.parent)
	}

	for i := len(r.children) - 1; i >= 0; i-- {
		c := r.children[i]
		r.rt.MemcpyAsync(c.buffers.Data, r.buffers.Data)
		r.rt.StreamSynchronize()
		telemetry.GetMonitor().Scatter(int64(r.buffers.Data.Count*r.buffers.Data.Type.Size()), r.Device, c.Device)
		c.mbox.Push(r)
	}
}

// OnGradientsReady implements tensor.Hooks. It sums every child's
// gradient total into its own as each child finishes its backward pass,
// then either forwards the combined total to its parent or, on the root,
// scales it by 1/replicaCount so the optimizer sees the mean gradient
// across the split batch.
func (r *Replica) OnGradientsReady() {
	d, _ := utils.Measure(func() error {
		r.gather()
		return nil
	})
	if config.ShowDebugLog() {
		log.Debugf("replica %s: on_gradients_ready took %s", r.Device, d)
	}
}

func (r *Replica) gather() {
	if config.ShowDebugLog() {
		assert.True(r.rt.CurrentDevice() == r.Device)
	}

	for range r.children {
		v := r.mbox.Pop()
		child, ok := v.(*Replica)
		assert.True(ok)
		r.kernel.Add(r.buffers.Diff, child.parentGrads, r.buffers.Diff)
		telemetry.GetMonitor().Gather(int64(r.buffers.Diff.Count*r.buffers.Diff.Type.Size()), r.Device, child.Device)
	}

	if r.parent != nil {
		r.rt.MemcpyAsync(r.parentGrads, r.buffers.Diff)
		r.rt.StreamSynchronize()
		r.parent.mbox.Push(r)
		return
	}

	n := r.replicaCount
	if n <= 0 {
		n = 1
	}
	r.kernel.Scale(r.buffers.Diff, 1.0/float64(n))
}
