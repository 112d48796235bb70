// Package buffer is the flat parameter/gradient buffer manager (C1): it
// allocates one contiguous device region per replica for values and
// another for gradients, and rebinds the driver's tensor views to alias
// into them. It is grounded directly on the original source's
// GPUParams/apply_buffers pair: one device malloc of the total element
// count instead of one allocation per tensor, turning N small copies into
// a single large memcpy during scatter/gather.
package buffer

import (
	"github.com/lsds/p2pcoord/srcs/go/accel"
	"github.com/lsds/p2pcoord/srcs/go/tensor"
)

// FlatBuffers holds the two device-resident regions backing one replica:
// Data for parameter values, Diff for their gradients. Size is the
// shared element count of both regions (§3 of the spec: identical across
// every replica, at least 1).
type FlatBuffers struct {
	Size int
	Data *tensor.Vector
	Diff *tensor.Vector
}

// New allocates Data and Diff on dev, initializes Data from the driver's
// current host-side parameter values, and rebinds every tensor in params
// to alias into the new device regions. Diff starts zeroed: accel.Runtime
// implementations return freshly zeroed memory from Alloc, mirroring the
// original's explicit caffe_gpu_set(size_, 0, diff_) immediately after
// hipMalloc.
func New(rt accel.Runtime, dev accel.DeviceID, dtype tensor.DType, params []tensor.Param) *FlatBuffers {
	total := tensor.TotalSize(params)

	data := rt.Alloc(dev, total, dtype)
	tensor.Apply(params, data, tensor.OpCopy)
	tensor.Apply(params, data, tensor.OpRebindValuesDevice)

	diff := rt.Alloc(dev, total, dtype)
	tensor.Apply(params, diff, tensor.OpRebindGradsDevice)

	return &FlatBuffers{Size: total, Data: data, Diff: diff}
}

// Release frees both regions. Called at replica teardown.
func (b *FlatBuffers) Release(rt accel.Runtime) {
	rt.Free(b.Data)
	rt.Free(b.Diff)
}
