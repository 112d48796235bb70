package tensor

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/lsds/p2pcoord/srcs/go/utils/assert"
)

// Vector is a flat, typed run of elements. It may be backed by host memory
// (a plain Go []byte) or stand in for a device-resident region depending
// on which Runtime allocated it; the core never dereferences device
// pointers directly, it only ever hands Vectors to an accel.Runtime or a
// kernel.Kernel to operate on.
type Vector struct {
	Data  []byte
	Count int
	Type  DType
}

func NewVector(count int, dtype DType) *Vector {
	return &Vector{
		Data:  make([]byte, count*dtype.Size()),
		Count: count,
		Type:  dtype,
	}
}

// Slice returns a Vector that aliases a sub-range of the original.
// 0 <= begin < end <= count
func (v *Vector) Slice(begin, end int) *Vector {
	return &Vector{
		Data:  v.Data[begin*v.Type.Size() : end*v.Type.Size()],
		Count: end - begin,
		Type:  v.Type,
	}
}

func (v *Vector) CopyFrom(src *Vector) {
	assert.OK(v.copyFrom(src))
}

func (v *Vector) copyFrom(src *Vector) error {
	if v.Count != src.Count {
		return fmt.Errorf("tensor.Vector: inconsistent count: %d vs %d", v.Count, src.Count)
	}
	if v.Type != src.Type {
		return fmt.Errorf("tensor.Vector: inconsistent type: %s vs %s", v.Type, src.Type)
	}
	copy(v.Data, src.Data)
	return nil
}

func (v *Vector) sliceHeader() unsafe.Pointer {
	sh := &reflect.SliceHeader{
		Data: uintptr(unsafe.Pointer(&v.Data[0])),
		Len:  v.Count,
		Cap:  v.Count,
	}
	return unsafe.Pointer(sh)
}

func (v *Vector) AsF32() []float32 {
	assert.True(v.Type == F32)
	if v.Count == 0 {
		return nil
	}
	return *(*[]float32)(v.sliceHeader())
}

func (v *Vector) AsF64() []float64 {
	assert.True(v.Type == F64)
	if v.Count == 0 {
		return nil
	}
	return *(*[]float64)(v.sliceHeader())
}
