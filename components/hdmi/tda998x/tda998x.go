// Package tda998x drives the NXP TDA998x family of HDMI transmitters (TDA9989, TDA19989,
// TDA19988) over I2C.
//
// The transmitter answers on one I2C address with a paged register file: writing a page
// number to offset 0xff selects the page that every following access uses. A second address
// holds the CEC/control sub-device, which is not paged and reports the hot-plug level.
//
// Attaching resets the chip, programs a baseline PLL setup and identifies the revision. After
// that the driver can enable or disable the output ports, fetch the monitor's EDID through the
// transmitter's DDC master, and program a display timing. When the monitor's EDID carries an
// HDMI vendor block and the timing is a known CEA format, mode-set also turns on HDMI
// signalling with AVI and audio infoframes and a fixed 2-channel 48kHz I2S audio path.
package tda998x

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/multierr"

	"github.com/saimusdev/bone-rt/components/board/buses"
	"github.com/saimusdev/bone-rt/components/hdmi"
	"github.com/saimusdev/bone-rt/logging"
)

// Revision is the chip version with the HDCP and scaler feature bits masked off.
type Revision uint16

// Known revisions.
const (
	TDA9989N2  Revision = 0x0101
	TDA19989   Revision = 0x0201
	TDA19989N2 Revision = 0x0202
	TDA19988   Revision = 0x0301
)

// Version register bits that flag optional features rather than the revision.
const versionFeatureMask = 0x0030

var revisionNames = map[Revision]string{
	TDA9989N2:  "TDA9989N2",
	TDA19989:   "TDA19989",
	TDA19989N2: "TDA19989N2",
	TDA19988:   "TDA19988",
}

func (r Revision) String() string {
	if name, ok := revisionNames[r]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%#04x)", uint16(r))
}

// Delays of the attach and infoframe sequences.
const (
	resetDelay     = 50 * time.Millisecond
	infoframeDelay = 5 * time.Microsecond
)

// sleeper is the part of clock.Clock the driver waits with.
type sleeper interface {
	Sleep(d time.Duration)
}

// TDA998x is an attached transmitter. It is safe for concurrent use; all bus traffic to the
// device goes through it one operation at a time.
type TDA998x struct {
	mu         sync.Mutex
	regs       *session
	cec        *cecDevice
	clk        sleeper
	logger     logging.Logger
	edidLogger logging.Logger

	rev   Revision
	power hdmi.PowerState
}

var _ hdmi.Transmitter = (*TDA998x)(nil)

// NewTDA998x opens both device addresses on bus, resets the transmitter and identifies it.
func NewTDA998x(ctx context.Context, bus buses.I2C, conf *Config, logger logging.Logger) (*TDA998x, error) {
	return newTDA998x(ctx, bus, conf, clock.New(), logger)
}

func newTDA998x(
	ctx context.Context,
	bus buses.I2C,
	conf *Config,
	clk sleeper,
	logger logging.Logger,
) (*TDA998x, error) {
	if conf == nil {
		conf = &Config{}
	}
	addr, cecAddr := conf.address(), conf.cecAddress()

	handle, err := bus.OpenHandle(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "can't open transmitter at %#02x", addr)
	}
	cecHandle, err := bus.OpenHandle(cecAddr)
	if err != nil {
		return nil, multierr.Combine(errors.Wrapf(err, "can't open CEC sub-device at %#02x", cecAddr), handle.Close())
	}

	t := &TDA998x{
		regs:       newSession(handle, addr, logger.Sublogger("regs")),
		cec:        &cecDevice{handle: cecHandle, addr: cecAddr, logger: logger},
		clk:        clk,
		logger:     logger,
		edidLogger: logger.Sublogger("edid"),
		power:      hdmi.PowerOff,
	}
	if err := t.attach(ctx, conf.ddcClock()); err != nil {
		return nil, multierr.Combine(err, t.Close())
	}
	return t, nil
}

func (t *TDA998x) attach(ctx context.Context, ddcClock byte) error {
	t.cec.write(ctx, cecEnaMods, cecEnaModsEnRxSens|cecEnaModsEnHDMI)

	t.reset(ctx)

	rev, err := t.readRevision(ctx)
	if err != nil {
		return err
	}
	if !lo.HasKey(revisionNames, rev) {
		return errors.Wrapf(ErrUnsupportedDevice, "found revision %#04x", uint16(rev))
	}
	t.rev = rev
	t.logger.Infow("found transmitter", "revision", rev.String(), "address", t.regs.addr)

	// The DDC master is disabled by the reset.
	t.regs.write(ctx, regDDCDisable, 0x00)
	t.regs.write(ctx, regTX3, ddcClock)

	// The TDA19989 loses bus arbitration against other masters on the DDC lines.
	if rev == TDA19989 {
		t.regs.set(ctx, regI2CMaster, i2cMasterDisMM)
	}

	t.cec.write(ctx, cecFroImClkCtrl, cecFroImClkGhostDis|cecFroImClkImclkSel)
	return nil
}

func (t *TDA998x) reset(ctx context.Context) {
	// audio and DDC master
	t.regs.set(ctx, regSoftReset, softResetAudio|softResetI2CMaster)
	t.clk.Sleep(resetDelay)
	t.regs.clear(ctx, regSoftReset, softResetAudio|softResetI2CMaster)
	t.clk.Sleep(resetDelay)

	// transmitter
	t.regs.set(ctx, regMainCntrl0, mainCntrl0SR)
	t.regs.clear(ctx, regMainCntrl0, mainCntrl0SR)

	// The order matters: the later writes assume the clocks switched by the earlier ones.
	t.regs.write(ctx, regPLLSerial1, 0x00)
	t.regs.write(ctx, regPLLSerial2, pllSerial2(1, 0))
	t.regs.write(ctx, regPLLSerial3, 0x00)
	t.regs.write(ctx, regSerializer, 0x00)
	t.regs.write(ctx, regBufferOut, 0x00)
	t.regs.write(ctx, regPLLSCG1, 0x00)
	t.regs.write(ctx, regAudioDiv, 0x03)
	t.regs.write(ctx, regSelClk, selClkClk1|selClkEnaSCClk)
	t.regs.write(ctx, regPLLSCGN1, 0xfa)
	t.regs.write(ctx, regPLLSCGN2, 0x00)
	t.regs.write(ctx, regPLLSCGR1, 0x5b)
	t.regs.write(ctx, regPLLSCGR2, 0x00)
	t.regs.write(ctx, regPLLSCG2, 0x10)
}

func (t *TDA998x) readRevision(ctx context.Context) (Revision, error) {
	lsb, err := t.regs.read(ctx, regVersionLSB)
	if err != nil {
		return 0, errors.Wrap(err, "can't read version")
	}
	msb, err := t.regs.read(ctx, regVersionMSB)
	if err != nil {
		return 0, errors.Wrap(err, "can't read version")
	}
	return Revision((uint16(msb)<<8 | uint16(lsb)) &^ versionFeatureMask), nil
}

// Revision returns the identified chip revision.
func (t *TDA998x) Revision() Revision {
	return t.rev
}

// Diagnostics returns the counters of the register path.
func (t *TDA998x) Diagnostics() Diagnostics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.regs.diag
}

// DumpPage reads every register of page except the page select register.
func (t *TDA998x) DumpPage(ctx context.Context, page byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.regs.readRange(ctx, NewReg(page, 0x00), regCurPage)
}

// Close releases both bus addresses.
func (t *TDA998x) Close() error {
	return multierr.Combine(t.regs.handle.Close(), t.cec.handle.Close())
}
