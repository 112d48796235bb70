// Package telemetry is the per-edge byte/rate counter set (C11), exposed
// over HTTP in the same text format the teacher's monitor package
// serves. It is grounded on monitor/counters.go and monitor/monitor.go,
// with plan.NetAddr labels replaced by the parent->child device edges
// this core actually moves bytes across.
package telemetry

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lsds/p2pcoord/srcs/go/accel"
	"github.com/lsds/p2pcoord/srcs/go/config"
	"github.com/lsds/p2pcoord/srcs/go/utils"
)

type accumulator struct {
	name  string
	value int64
}

func newAccumulator(name string) *accumulator {
	return &accumulator{name: name}
}

func (a *accumulator) Add(n int64) int64 {
	return atomic.AddInt64(&a.value, n)
}

func (a *accumulator) Get() int64 {
	return atomic.LoadInt64(&a.value)
}

func (a *accumulator) WriteTo(w io.Writer) {
	fmt.Fprintf(w, "%s %d\n", a.name, atomic.LoadInt64(&a.value))
}

type rate struct {
	sync.Mutex
	name   string
	prev   int64
	target *accumulator
	value  float64
}

func newRate(a *accumulator, name string) *rate {
	return &rate{name: name, target: a}
}

func (r *rate) update(p time.Duration) {
	now := r.target.Get()
	r.Lock()
	defer r.Unlock()
	r.value = float64(now-r.prev) / (float64(p) / float64(time.Second))
	r.prev = now
}

func (r *rate) WriteTo(w io.Writer) {
	r.Lock()
	defer r.Unlock()
	fmt.Fprintf(w, "%s %f\n", r.name, r.value)
}

type edgeCounter struct {
	bytes *accumulator
	rate  *rate
}

type edgeLabel struct {
	Parent accel.DeviceID
	Child  accel.DeviceID
}

func (l edgeLabel) String() string {
	return fmt.Sprintf(`{parent="%s",child="%s"}`, l.Parent, l.Child)
}

type edgeGroup struct {
	sync.Mutex
	prefix   string
	counters map[edgeLabel]*edgeCounter
}

func newEdgeGroup(prefix string) *edgeGroup {
	return &edgeGroup{prefix: prefix, counters: make(map[edgeLabel]*edgeCounter)}
}

func (g *edgeGroup) getOrCreate(l edgeLabel) *edgeCounter {
	g.Lock()
	defer g.Unlock()
	if c, ok := g.counters[l]; ok {
		return c
	}
	a := newAccumulator(g.prefix + "_total_bytes" + l.String())
	r := newRate(a, g.prefix+"_rate_bytes_per_sec"+l.String())
	c := &edgeCounter{bytes: a, rate: r}
	g.counters[l] = c
	return c
}

func (g *edgeGroup) update(p time.Duration) {
	g.Lock()
	defer g.Unlock()
	for _, c := range g.counters {
		c.rate.update(p)
	}
}

func (g *edgeGroup) WriteTo(w io.Writer) {
	g.Lock()
	defer g.Unlock()
	for _, c := range g.counters {
		c.bytes.WriteTo(w)
		c.rate.WriteTo(w)
	}
}

// Monitor records bytes moved across tree edges and serves them over
// HTTP. Use GetMonitor for the process-wide instance, gated by
// config.EnableMonitoring the same way the teacher gates its own network
// monitor.
type Monitor interface {
	http.Handler
	Scatter(bytes int64, parent, child accel.DeviceID)
	Gather(bytes int64, parent, child accel.DeviceID)
}

type noopMonitor struct{}

func (noopMonitor) Scatter(int64, accel.DeviceID, accel.DeviceID) {}
func (noopMonitor) Gather(int64, accel.DeviceID, accel.DeviceID)  {}
func (noopMonitor) ServeHTTP(http.ResponseWriter, *http.Request)  {}

type edgeMonitor struct {
	scatter *edgeGroup
	gather  *edgeGroup
}

func newMonitor(p time.Duration) Monitor {
	if !config.EnableMonitoring {
		return noopMonitor{}
	}
	m := &edgeMonitor{
		scatter: newEdgeGroup("scatter"),
		gather:  newEdgeGroup("gather"),
	}
	if p > 0 {
		go m.start(p)
	}
	return m
}

func (m *edgeMonitor) start(p time.Duration) {
	for range time.Tick(p) {
		m.scatter.update(p)
		m.gather.update(p)
	}
}

func (m *edgeMonitor) Scatter(n int64, parent, child accel.DeviceID) {
	m.scatter.getOrCreate(edgeLabel{Parent: parent, Child: child}).bytes.Add(n)
}

func (m *edgeMonitor) Gather(n int64, parent, child accel.DeviceID) {
	m.gather.getOrCreate(edgeLabel{Parent: parent, Child: child}).bytes.Add(n)
}

func (m *edgeMonitor) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	m.scatter.WriteTo(w)
	m.gather.WriteTo(w)
}

var defaultMonitor = newMonitor(config.MonitoringPeriod)

// GetMonitor returns the process-wide Monitor, a noop if
// config.EnableMonitoring is false.
func GetMonitor() Monitor {
	return defaultMonitor
}

var server *http.Server

// StartServer serves the monitor's counters at /metrics on port.
func StartServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", defaultMonitor)
	server = &http.Server{
		Addr:    net.JoinHostPort("0.0.0.0", strconv.Itoa(port)),
		Handler: mux,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.ExitErr(err)
		}
	}()
}

// StopServer shuts the telemetry HTTP server down.
func StopServer() {
	if server != nil {
		server.Close()
	}
}
