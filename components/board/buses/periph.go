package buses

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"
)

// PeriphI2C is an I2C bus backed by a periph.io host driver.
type PeriphI2C struct {
	mu   sync.Mutex
	bus  i2c.BusCloser
	open map[byte]struct{}
}

// OpenPeriphI2C initializes the periph.io host drivers and opens the named bus ("" picks the
// first available one). A non-zero speed is applied to the bus.
func OpenPeriphI2C(name string, speed physic.Frequency) (*PeriphI2C, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize periph host drivers")
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open I2C bus %q", name)
	}
	return newPeriphI2C(name, bus, speed)
}

// newPeriphI2C takes ownership of bus. It is closed if the speed can't be applied.
func newPeriphI2C(name string, bus i2c.BusCloser, speed physic.Frequency) (*PeriphI2C, error) {
	if speed != 0 {
		if err := bus.SetSpeed(speed); err != nil {
			return nil, multierr.Combine(
				errors.Wrapf(err, "can't set I2C bus %q speed to %s", name, speed),
				bus.Close(),
			)
		}
	}
	return &PeriphI2C{bus: bus, open: map[byte]struct{}{}}, nil
}

// OpenHandle returns a handle for the device at addr.
func (p *PeriphI2C) OpenHandle(addr byte) (I2CHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.open[addr]; ok {
		return nil, errors.Errorf("I2C address %#02x on bus %s is already open", addr, p.bus)
	}
	p.open[addr] = struct{}{}
	return &periphHandle{parent: p, dev: &i2c.Dev{Bus: p.bus, Addr: uint16(addr)}, addr: addr}, nil
}

// Close releases the underlying bus.
func (p *PeriphI2C) Close() error {
	return p.bus.Close()
}

type periphHandle struct {
	parent *PeriphI2C
	dev    *i2c.Dev
	addr   byte
}

func (h *periphHandle) Write(ctx context.Context, tx []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return h.dev.Tx(tx, nil)
}

func (h *periphHandle) Read(ctx context.Context, count int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	buf := make([]byte, count)
	if err := h.dev.Tx(nil, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (h *periphHandle) Close() error {
	h.parent.mu.Lock()
	defer h.parent.mu.Unlock()
	delete(h.parent.open, h.addr)
	return nil
}
