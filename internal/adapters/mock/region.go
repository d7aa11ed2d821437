package mock

import (
	"context"
	"errors"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/quentinrf/robot-controller/services/sensor-service/internal/domain"
	"github.com/quentinrf/robot-controller/services/sensor-service/internal/ports"
)

// ErrClosed is returned by a region that has been unmapped
var ErrClosed = errors.New("mock region closed")

// Generator produces the firmware bytes of a port for its configured mode
type Generator func(mode domain.SensorMode, rng *rand.Rand) [domain.RawSize]byte

// Region simulates the sensor hardware region for development and tests
// This implements the ports.HardwareRegion interface
type Region struct {
	mu       sync.Mutex
	rng      *rand.Rand
	generate Generator
	setups   [domain.NumPorts]ports.PortSetup
	data     [domain.NumPorts][domain.RawSize]byte
	commands [domain.NumPorts][][]byte
	configs  int
	closed   bool

	settle       bool
	yield        bool
	captureErr   error
	refreshes    atomic.Uint64
	captureCount atomic.Uint64
}

// Option configures a Region
type Option func(*Region)

// WithGenerator replaces the simulated sensor values
func WithGenerator(g Generator) Option {
	return func(r *Region) { r.generate = g }
}

// WithSettle makes Configure rewrite a port's bytes for its new mode at once,
// instead of waiting for the next refresh
func WithSettle() Option {
	return func(r *Region) { r.settle = true }
}

// WithCaptureYield makes Capture copy one byte at a time and yield between
// bytes, so that concurrent writers can interleave with a copy
func WithCaptureYield() Option {
	return func(r *Region) { r.yield = true }
}

// WithSeed makes the simulated values deterministic
func WithSeed(seed int64) Option {
	return func(r *Region) { r.rng = rand.New(rand.NewSource(seed)) }
}

// NewRegion creates a region with every port disconnected
func NewRegion(opts ...Option) *Region {
	r := &Region{
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		generate: Simulate,
	}
	for _, port := range domain.Ports() {
		r.setups[port] = ports.NewPortSetup(port, domain.ModeNone)
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Provider returns a RegionProvider that (re)maps this region
func (r *Region) Provider() ports.RegionProvider {
	return ports.RegionProviderFunc(func() (ports.HardwareRegion, error) {
		r.mu.Lock()
		r.closed = false
		r.mu.Unlock()
		return r, nil
	})
}

// FailingProvider returns a RegionProvider whose mapping always fails
func FailingProvider(err error) ports.RegionProvider {
	return ports.RegionProviderFunc(func() (ports.HardwareRegion, error) {
		return nil, err
	})
}

// Capture implements ports.HardwareRegion
func (r *Region) Capture(port domain.Port, bus domain.Bus, dst *[domain.RawSize]byte) error {
	r.captureCount.Inc()

	if !r.yield {
		r.mu.Lock()
		defer r.mu.Unlock()
		if err := r.checkLocked(port); err != nil {
			return err
		}
		*dst = r.data[port]
		return nil
	}

	for i := range dst {
		r.mu.Lock()
		if err := r.checkLocked(port); err != nil {
			r.mu.Unlock()
			return err
		}
		dst[i] = r.data[port][i]
		r.mu.Unlock()
		runtime.Gosched()
	}
	return nil
}

func (r *Region) checkLocked(port domain.Port) error {
	if r.closed {
		return ErrClosed
	}
	if r.captureErr != nil {
		return r.captureErr
	}
	if !port.Valid() {
		return domain.ErrInvalidPort
	}
	return nil
}

// Configure implements ports.HardwareRegion
func (r *Region) Configure(setups ...ports.PortSetup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	for _, s := range setups {
		if !s.Port.Valid() {
			return domain.ErrInvalidPort
		}
	}

	r.configs++
	for _, s := range setups {
		r.setups[s.Port] = s
		if !r.settle {
			continue
		}
		if r.yield {
			next := r.generate(s.Mode, r.rng)
			for i := range next {
				r.data[s.Port][i] = next[i]
				r.mu.Unlock()
				runtime.Gosched()
				r.mu.Lock()
			}
			continue
		}
		r.data[s.Port] = r.generate(s.Mode, r.rng)
	}
	return nil
}

// Command implements ports.HardwareRegion
func (r *Region) Command(port domain.Port, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	if !port.Valid() {
		return domain.ErrInvalidPort
	}
	r.commands[port] = append(r.commands[port], append([]byte(nil), data...))
	return nil
}

// Close implements ports.HardwareRegion
func (r *Region) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// Refresh rewrites every configured port with freshly simulated bytes,
// as the firmware does on each sensor update
func (r *Region) Refresh() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, port := range domain.Ports() {
		r.data[port] = r.generate(r.setups[port].Mode, r.rng)
	}
	r.refreshes.Inc()
}

// Run refreshes the region every interval until ctx is cancelled
func (r *Region) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Refresh()
		case <-ctx.Done():
			return nil
		}
	}
}

// SetRaw overwrites the bytes of port
func (r *Region) SetRaw(port domain.Port, raw []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var buf [domain.RawSize]byte
	copy(buf[:], raw)
	r.data[port] = buf
}

// SetCaptureError makes every capture fail with err until it is reset with nil
func (r *Region) SetCaptureError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.captureErr = err
}

// Setup returns the last control entry written for port
func (r *Region) Setup(port domain.Port) ports.PortSetup {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.setups[port]
}

// ConfigureCalls returns how many control-region writes were made
func (r *Region) ConfigureCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.configs
}

// Commands returns copies of the commands written to port
func (r *Region) Commands(port domain.Port) [][]byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([][]byte, len(r.commands[port]))
	for i, c := range r.commands[port] {
		out[i] = append([]byte(nil), c...)
	}
	return out
}

// Closed reports whether the region is unmapped
func (r *Region) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Refreshes returns how many firmware refreshes have run
func (r *Region) Refreshes() uint64 {
	return r.refreshes.Load()
}

// Captures returns how many captures were requested
func (r *Region) Captures() uint64 {
	return r.captureCount.Load()
}
