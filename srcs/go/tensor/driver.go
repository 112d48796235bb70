package tensor

// Param is one learnable parameter tensor view exposed by a Driver,
// matching the spec's "ordered list of tensor views, each with .count,
// .device_storage, .host_storage, and the rebinding operations
// set_device_data(ptr)/set_host_data(ptr) for both values and gradients."
type Param interface {
	Count() int
	HostValues() *Vector // current host-side values, consumed by copy-mode init
	SetDeviceData(*Vector)
	SetHostData(*Vector)
	SetDeviceGrad(*Vector)
	SetHostGrad(*Vector)
}

// Config exposes the subset of a driver's run configuration this core
// reads or writes: the device it runs on, the total step budget, and an
// optional base random seed to decorrelate per-replica stochastic ops.
type Config struct {
	DeviceID   int
	MaxIter    int
	RandomSeed int // negative means "unset"
}

// Hooks is the two-callback interface a Driver invokes once per step:
// OnStart before the forward pass, OnGradientsReady after the backward
// pass. This is the Go equivalent of the virtual callback the original
// source registers with add_callback; dynamic dispatch through an
// interface is not performance-critical here, as the spec notes.
type Hooks interface {
	OnStart()
	OnGradientsReady()
}

// Driver is the training driver this core drives: everything it needs is
// forward/backward/optimizer internals this core never touches.
type Driver interface {
	LearnableParameters() []Param
	Param() *Config
	AddCallback(Hooks)
	Step(n int) error
	Solve() error
	Iter() int
}
