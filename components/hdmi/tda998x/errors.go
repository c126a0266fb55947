package tda998x

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"

	"github.com/saimusdev/bone-rt/components/hdmi/edid"
)

var (
	// ErrTimeout is returned when the transmitter does not finish an EDID block read in time.
	ErrTimeout = errors.New("timed out waiting for EDID block read")
	// ErrInvalidBlock is returned when the EDID base block fails validation.
	ErrInvalidBlock = edid.ErrInvalidBlock
	// ErrUnsupportedDevice is returned by attach when the version register holds an unknown
	// revision.
	ErrUnsupportedDevice = errors.New("unsupported TDA998x device")
	// ErrUnsupportedFormat is reported when a mode has no TDA998x video format code.
	ErrUnsupportedFormat = errors.New("no video format for mode")
)

// TransportError is a failed bus transaction with the transmitter or its CEC sub-device.
type TransportError struct {
	Op   string
	Addr byte
	Reg  Reg
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("i2c %s at %#02x register %s: %v", e.Op, e.Addr, e.Reg, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MarshalLogObject logs the transaction as separate fields.
func (e *TransportError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("op", e.Op)
	enc.AddString("addr", fmt.Sprintf("%#02x", e.Addr))
	enc.AddString("register", e.Reg.String())
	if e.Err != nil {
		enc.AddString("cause", e.Err.Error())
	}
	return nil
}
