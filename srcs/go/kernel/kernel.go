// Package kernel is the numeric kernel library the core consumes: the four
// element-wise primitives the tree protocol needs (copy, fill, add, scale).
// A real binding would forward these to a BLAS-like device kernel; Naive
// is a host-side reference implementation used by tests and by any replica
// that has no device kernel library wired in.
package kernel

import "github.com/lsds/p2pcoord/srcs/go/tensor"

// Kernel is the contract consumed from "the numeric kernel library" in the
// external interfaces section of the spec: copy(n, src, dst); set(n,
// value, dst); add(n, a, b, dst); scale(n, alpha, dst).
type Kernel interface {
	Copy(dst, src *tensor.Vector)
	Set(dst *tensor.Vector, value float64)
	Add(dst, a, b *tensor.Vector)
	Scale(dst *tensor.Vector, alpha float64)
}

// Naive is a pure-Go Kernel operating on host-resident Vectors. It is the
// default used by the in-process fake accelerator runtime in tests, and
// is a drop-in reference for any Runtime implementation that stages
// device buffers through host memory instead of offering its own kernels.
type Naive struct{}

func (Naive) Copy(dst, src *tensor.Vector) {
	dst.CopyFrom(src)
}

func (Naive) Set(dst *tensor.Vector, value float64) {
	switch dst.Type {
	case tensor.F32:
		v := float32(value)
		for i, xs := 0, dst.AsF32(); i < len(xs); i++ {
			xs[i] = v
		}
	case tensor.F64:
		for i, xs := 0, dst.AsF64(); i < len(xs); i++ {
			xs[i] = value
		}
	}
}

func (Naive) Add(dst, a, b *tensor.Vector) {
	switch dst.Type {
	case tensor.F32:
		da, db, dd := a.AsF32(), b.AsF32(), dst.AsF32()
		for i := range dd {
			dd[i] = da[i] + db[i]
		}
	case tensor.F64:
		da, db, dd := a.AsF64(), b.AsF64(), dst.AsF64()
		for i := range dd {
			dd[i] = da[i] + db[i]
		}
	}
}

func (Naive) Scale(dst *tensor.Vector, alpha float64) {
	switch dst.Type {
	case tensor.F32:
		a := float32(alpha)
		for i, xs := 0, dst.AsF32(); i < len(xs); i++ {
			xs[i] *= a
		}
	case tensor.F64:
		for i, xs := 0, dst.AsF64(); i < len(xs); i++ {
			xs[i] *= alpha
		}
	}
}
