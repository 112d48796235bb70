// Package fakedriver is a reference tensor.Driver used by tests in place
// of a real training library, the same role fakemodel plays for the
// teacher's allreduce tests: a handful of flat parameter tensors, a
// fixed iteration budget, and a step function that calls the registered
// hooks in the order a real driver would.
package fakedriver

import (
	"github.com/lsds/p2pcoord/srcs/go/tensor"
)

// Param is a fake learnable parameter tensor: a host-resident vector plus
// the device/host slots the core rebinds it onto.
type Param struct {
	host       *tensor.Vector
	deviceData *tensor.Vector
	hostData   *tensor.Vector
	deviceGrad *tensor.Vector
	hostGrad   *tensor.Vector
}

func NewParam(count int, dtype tensor.DType, fill float64) *Param {
	v := tensor.NewVector(count, dtype)
	switch dtype {
	case tensor.F32:
		xs := v.AsF32()
		for i := range xs {
			xs[i] = float32(fill)
		}
	case tensor.F64:
		xs := v.AsF64()
		for i := range xs {
			xs[i] = fill
		}
	}
	return &Param{host: v}
}

func (p *Param) Count() int                     { return p.host.Count }
func (p *Param) HostValues() *tensor.Vector     { return p.host }
func (p *Param) SetDeviceData(v *tensor.Vector) { p.deviceData = v }
func (p *Param) SetHostData(v *tensor.Vector)   { p.hostData = v }
func (p *Param) SetDeviceGrad(v *tensor.Vector) { p.deviceGrad = v }
func (p *Param) SetHostGrad(v *tensor.Vector)   { p.hostGrad = v }

// DeviceData exposes the slice the core rebound this param's device
// values onto, so tests can assert on what the protocol produced.
func (p *Param) DeviceData() *tensor.Vector { return p.deviceData }
func (p *Param) DeviceGrad() *tensor.Vector { return p.deviceGrad }

// Driver is a fake tensor.Driver: for each iteration, Step invokes
// OnStart, overwrites every param's device gradient slice with
// gradContrib, and invokes OnGradientsReady, the same shape a real
// forward/backward/callback loop would have.
type Driver struct {
	params      []tensor.Param
	cfg         *tensor.Config
	hooks       tensor.Hooks
	iter        int
	gradContrib float64
	dtype       tensor.DType
	reseedCalls []int
	OnStepGrad  func(iter int) float64 // optional per-iter override of gradContrib
}

func New(params []*Param, dtype tensor.DType, cfg *tensor.Config, gradContrib float64) *Driver {
	ps := make([]tensor.Param, len(params))
	for i, p := range params {
		ps[i] = p
	}
	return &Driver{params: ps, cfg: cfg, dtype: dtype, gradContrib: gradContrib}
}

func (d *Driver) LearnableParameters() []tensor.Param { return d.params }
func (d *Driver) Param() *tensor.Config               { return d.cfg }
func (d *Driver) AddCallback(h tensor.Hooks)          { d.hooks = h }
func (d *Driver) Iter() int                           { return d.iter }

// Reseed records the seed it was called with so tests can assert every
// non-root replica gets a distinct, device-modulated value.
func (d *Driver) Reseed(seed int) {
	d.reseedCalls = append(d.reseedCalls, seed)
}

func (d *Driver) ReseedCalls() []int { return d.reseedCalls }

// Step runs n training steps: each calls OnStart, writes a synthetic
// gradient into every param's rebound device grad slice, then calls
// OnGradientsReady.
func (d *Driver) Step(n int) error {
	for i := 0; i < n; i++ {
		d.hooks.OnStart()

		g := d.gradContrib
		if d.OnStepGrad != nil {
			g = d.OnStepGrad(d.iter)
		}
		for _, p := range d.params {
			fp := p.(*Param)
			set(fp.deviceGrad, g)
		}

		d.hooks.OnGradientsReady()
		d.iter++
	}
	return nil
}

func (d *Driver) Solve() error {
	return d.Step(d.cfg.MaxIter - d.iter)
}

func set(v *tensor.Vector, value float64) {
	switch v.Type {
	case tensor.F32:
		xs := v.AsF32()
		for i := range xs {
			xs[i] = float32(value)
		}
	case tensor.F64:
		xs := v.AsF64()
		for i := range xs {
			xs[i] = value
		}
	}
}
