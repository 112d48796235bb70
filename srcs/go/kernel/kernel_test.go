package kernel

import (
	"testing"

	"github.com/lsds/p2pcoord/srcs/go/tensor"
)

func vecF32(vs ...float32) *tensor.Vector {
	v := tensor.NewVector(len(vs), tensor.F32)
	copy(v.AsF32(), vs)
	return v
}

func Test_Naive_Copy(t *testing.T) {
	dst := tensor.NewVector(3, tensor.F32)
	src := vecF32(1, 2, 3)
	Naive{}.Copy(dst, src)
	if got := dst.AsF32(); got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("got %v", got)
	}
}

func Test_Naive_Set(t *testing.T) {
	dst := tensor.NewVector(3, tensor.F32)
	Naive{}.Set(dst, 5)
	for _, v := range dst.AsF32() {
		if v != 5 {
			t.Errorf("got %v, want 5", v)
		}
	}
}

func Test_Naive_Add(t *testing.T) {
	a := vecF32(1, 2, 3)
	b := vecF32(10, 20, 30)
	dst := tensor.NewVector(3, tensor.F32)
	Naive{}.Add(dst, a, b)
	want := []float32{11, 22, 33}
	for i, v := range dst.AsF32() {
		if v != want[i] {
			t.Errorf("got %v, want %v", v, want[i])
		}
	}
}

func Test_Naive_Add_AliasedDst(t *testing.T) {
	a := vecF32(1, 2, 3)
	dst := vecF32(10, 20, 30)
	Naive{}.Add(dst, a, dst)
	want := []float32{11, 22, 33}
	for i, v := range dst.AsF32() {
		if v != want[i] {
			t.Errorf("got %v, want %v", v, want[i])
		}
	}
}

func Test_Naive_Scale(t *testing.T) {
	dst := vecF32(1, 2, 3)
	Naive{}.Scale(dst, 2)
	want := []float32{2, 4, 6}
	for i, v := range dst.AsF32() {
		if v != want[i] {
			t.Errorf("got %v, want %v", v, want[i])
		}
	}
}

func Test_Naive_F64(t *testing.T) {
	dst := tensor.NewVector(2, tensor.F64)
	a := tensor.NewVector(2, tensor.F64)
	b := tensor.NewVector(2, tensor.F64)
	a.AsF64()[0], a.AsF64()[1] = 1, 2
	b.AsF64()[0], b.AsF64()[1] = 3, 4
	Naive{}.Add(dst, a, b)
	if dst.AsF64()[0] != 4 || dst.AsF64()[1] != 6 {
		t.Errorf("got %v", dst.AsF64())
	}
}
