package tensor

// DType identifies the element type backing a flat buffer. The teacher's
// C ABI enumerates these against a C header (kungfu/dtype.h); this core
// has no such header to link against, so the enum is plain Go, sized the
// same way as the original (one entry per numeric kind it cares about).
type DType int32

const (
	F32 DType = iota
	F64
)

var sizes = map[DType]int{
	F32: 4,
	F64: 8,
}

func (t DType) Size() int {
	return sizes[t]
}

var names = map[DType]string{
	F32: "f32",
	F64: "f64",
}

func (t DType) String() string {
	return names[t]
}
