package tensor

import "testing"

type fakeParam struct {
	host       *Vector
	deviceData *Vector
	deviceGrad *Vector
}

func newFakeParam(count int, fill float32) *fakeParam {
	v := NewVector(count, F32)
	xs := v.AsF32()
	for i := range xs {
		xs[i] = fill
	}
	return &fakeParam{host: v}
}

func (p *fakeParam) Count() int              { return p.host.Count }
func (p *fakeParam) HostValues() *Vector     { return p.host }
func (p *fakeParam) SetDeviceData(v *Vector) { p.deviceData = v }
func (p *fakeParam) SetHostData(v *Vector)   {}
func (p *fakeParam) SetDeviceGrad(v *Vector) { p.deviceGrad = v }
func (p *fakeParam) SetHostGrad(v *Vector)   {}

func Test_TotalSize_SumsCounts(t *testing.T) {
	params := []Param{newFakeParam(3, 0), newFakeParam(5, 0)}
	if got := TotalSize(params); got != 8 {
		t.Errorf("got %d, want 8", got)
	}
}

func Test_TotalSize_EmptyIsOne(t *testing.T) {
	if got := TotalSize(nil); got != 1 {
		t.Errorf("got %d, want 1", got)
	}
}

func Test_Apply_CopyThenRebind(t *testing.T) {
	p1 := newFakeParam(3, 1)
	p2 := newFakeParam(2, 2)
	params := []Param{p1, p2}

	buf := NewVector(TotalSize(params), F32)
	Apply(params, buf, OpCopy)
	Apply(params, buf, OpRebindValuesDevice)

	want := []float32{1, 1, 1, 2, 2}
	got := buf.AsF32()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("buf[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if p1.deviceData.Count != 3 || p2.deviceData.Count != 2 {
		t.Errorf("rebind sizes wrong: %d, %d", p1.deviceData.Count, p2.deviceData.Count)
	}

	p1.deviceData.AsF32()[0] = 42
	if buf.AsF32()[0] != 42 {
		t.Errorf("rebound slice does not alias the flat buffer")
	}
}
