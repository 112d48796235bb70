package tensor

import "testing"

func Test_Vector_SliceAliases(t *testing.T) {
	v := NewVector(8, F32)
	xs := v.AsF32()
	for i := range xs {
		xs[i] = float32(i)
	}

	s := v.Slice(2, 5)
	if s.Count != 3 {
		t.Fatalf("got count %d, want 3", s.Count)
	}
	sv := s.AsF32()
	sv[0] = 100

	if v.AsF32()[2] != 100 {
		t.Errorf("slice does not alias parent vector")
	}
}

func Test_Vector_CopyFrom(t *testing.T) {
	src := NewVector(4, F32)
	for i := range src.AsF32() {
		src.AsF32()[i] = float32(i + 1)
	}

	dst := NewVector(4, F32)
	dst.CopyFrom(src)

	for i, v := range dst.AsF32() {
		if v != float32(i+1) {
			t.Errorf("dst[%d] = %v, want %v", i, v, i+1)
		}
	}
}

func Test_Vector_CopyFrom_MismatchedCount(t *testing.T) {
	src := NewVector(4, F32)
	dst := NewVector(5, F32)
	if err := dst.copyFrom(src); err == nil {
		t.Fatalf("expected error on count mismatch")
	}
}

func Test_Vector_CopyFrom_MismatchedType(t *testing.T) {
	src := NewVector(4, F32)
	dst := NewVector(4, F64)
	if err := dst.copyFrom(src); err == nil {
		t.Fatalf("expected error on type mismatch")
	}
}

func Test_DType_Size(t *testing.T) {
	if F32.Size() != 4 {
		t.Errorf("F32 size = %d, want 4", F32.Size())
	}
	if F64.Size() != 8 {
		t.Errorf("F64 size = %d, want 8", F64.Size())
	}
}
