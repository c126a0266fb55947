package tda998x

import (
	"context"

	"github.com/saimusdev/bone-rt/components/board/buses"
	"github.com/saimusdev/bone-rt/logging"
)

// cecDevice is the unpaged CEC/control sub-device next to the transmitter.
type cecDevice struct {
	handle buses.I2CHandle
	addr   byte
	logger logging.Logger
}

func (c *cecDevice) register(reg byte) *buses.I2CRegister {
	return &buses.I2CRegister{Handle: c.handle, Register: reg}
}

func (c *cecDevice) read(ctx context.Context, reg byte) (byte, error) {
	val, err := c.register(reg).ReadByteData(ctx)
	if err != nil {
		err = &TransportError{Op: "cec read", Addr: c.addr, Reg: Reg(reg), Err: err}
		c.logger.Errorw("cec read failed", "error", err)
		return 0, err
	}
	return val, nil
}

func (c *cecDevice) write(ctx context.Context, reg, val byte) {
	if err := c.register(reg).WriteByteData(ctx, val); err != nil {
		err = &TransportError{Op: "cec write", Addr: c.addr, Reg: Reg(reg), Err: err}
		c.logger.Errorw("cec write failed", "error", err)
	}
}
