package tensor

import "github.com/lsds/p2pcoord/srcs/go/utils/assert"

// ApplyOp selects what Apply does with each successive slice of a flat
// buffer as it walks a tensor list, mirroring the Op enum the original
// source switches on inside apply_buffers.
type ApplyOp int

const (
	OpCopy ApplyOp = iota
	OpRebindValuesDevice
	OpRebindValuesHost
	OpRebindGradsDevice
	OpRebindGradsHost
)

// TotalSize computes max(1, sum of tensor counts), so allocation never
// collapses to zero when a driver declares no learnable parameters.
func TotalSize(params []Param) int {
	var total int
	for _, p := range params {
		total += p.Count()
	}
	if total == 0 {
		return 1
	}
	return total
}

// Apply walks params in order, handing each one a successive slice of
// buffer and performing op on it. The number of elements walked equals
// buffer.Count, or buffer.Count == 1 and params is empty — the same
// post-condition the original apply_buffers enforces with a CHECK_EQ.
func Apply(params []Param, buffer *Vector, op ApplyOp) {
	offset := 0
	for _, p := range params {
		n := p.Count()
		slice := buffer.Slice(offset, offset+n)
		switch op {
		case OpCopy:
			slice.CopyFrom(p.HostValues())
		case OpRebindValuesDevice:
			p.SetDeviceData(slice)
		case OpRebindValuesHost:
			p.SetHostData(slice)
		case OpRebindGradsDevice:
			p.SetDeviceGrad(slice)
		case OpRebindGradsHost:
			p.SetHostGrad(slice)
		}
		offset += n
	}
	assert.True(offset == buffer.Count || (len(params) == 0 && buffer.Count == 1))
}
