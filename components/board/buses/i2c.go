// Package buses offers the I2C bus transport used by the transmitter drivers.
package buses

import (
	"context"
)

// I2C represents a shareable I2C bus on the board.
type I2C interface {
	// OpenHandle returns a handle interface bound to one device address that MUST be closed
	// when done. You cannot have 2 open for the same addr.
	OpenHandle(addr byte) (I2CHandle, error)
}

// I2CHandle is similar to an io handle. Every call is one complete bus transaction with the
// device the handle was opened for. It MUST be closed to release the address.
type I2CHandle interface {
	// Write sends tx as a single write transaction.
	Write(ctx context.Context, tx []byte) error
	// Read receives count bytes in a single read transaction.
	Read(ctx context.Context, count int) ([]byte, error)

	// Close closes the handle and releases the address.
	Close() error
}

// An I2CRegister is a lightweight wrapper around a handle for a particular register of an
// unpaged device: the register address is sent first, then the data.
type I2CRegister struct {
	Handle   I2CHandle
	Register byte
}

// ReadByteData reads a byte from the register.
func (reg *I2CRegister) ReadByteData(ctx context.Context) (byte, error) {
	if err := reg.Handle.Write(ctx, []byte{reg.Register}); err != nil {
		return 0, err
	}
	data, err := reg.Handle.Read(ctx, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// WriteByteData writes a byte to the register.
func (reg *I2CRegister) WriteByteData(ctx context.Context, data byte) error {
	return reg.Handle.Write(ctx, []byte{reg.Register, data})
}
