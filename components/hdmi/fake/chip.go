// Package fake implements a simulated TDA998x transmitter that sits on a bus in place of the
// real chip.
package fake

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/saimusdev/bone-rt/components/board/buses"
)

// Default addresses of the simulated chip.
const (
	Address    = 0x70
	CECAddress = 0x34
)

// TDA19988 is the version register value of a TDA19988 with HDCP and scaler present.
const TDA19988 = 0x0331

// Registers the simulation acts on.
const (
	regCurPage = 0xff

	pageGeneral   = 0x00
	regVersionLSB = 0x00
	regVersionMSB = 0x02
	regIntFlags2  = 0x11
	flagEDIDBlkRd = 1 << 1

	pageEDID    = 0x09
	regEDIDCtrl = 0xfa
	regDDCOffs  = 0xfc
	regDDCSegm  = 0xfe

	cecRxShpdLev = 0xfe
	cecHPD       = 1 << 1

	edidBlockLength = 128
)

// Chip is a simulated transmitter and its CEC sub-device. It keeps a full paged register
// file, answers EDID block reads from EDID and reports the hot-plug level on the CEC side.
type Chip struct {
	mu sync.Mutex

	regs    [256][256]byte
	page    byte
	pointer byte
	cec     [256]byte
	cecPtr  byte
	reads   map[uint16]int
	open    map[byte]bool

	// EDID is served to block reads. Blocks past its end read as zeros.
	EDID []byte
	// NeverComplete keeps the EDID block read flag clear.
	NeverComplete bool
}

// NewChip returns a chip with the given version register value and monitor EDID. The hot
// plug level is high.
func NewChip(version uint16, edid []byte) *Chip {
	c := &Chip{
		reads: map[uint16]int{},
		open:  map[byte]bool{},
		EDID:  edid,
	}
	c.regs[pageGeneral][regVersionLSB] = byte(version)
	c.regs[pageGeneral][regVersionMSB] = byte(version >> 8)
	c.cec[cecRxShpdLev] = cecHPD
	return c
}

// SetHotPlug sets the hot-plug level reported by the CEC sub-device.
func (c *Chip) SetHotPlug(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if connected {
		c.cec[cecRxShpdLev] |= cecHPD
	} else {
		c.cec[cecRxShpdLev] &^= cecHPD
	}
}

// Register returns the current value of a paged register.
func (c *Chip) Register(page, offset byte) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regs[page][offset]
}

// CEC returns the current value of a CEC register.
func (c *Chip) CEC(reg byte) byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cec[reg]
}

// Page returns the latched page.
func (c *Chip) Page() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// Reads returns how many times a paged register has been read.
func (c *Chip) Reads(page, offset byte) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads[uint16(page)<<8|uint16(offset)]
}

// OpenHandle implements buses.I2C for the transmitter and CEC addresses.
func (c *Chip) OpenHandle(addr byte) (buses.I2CHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if addr != Address && addr != CECAddress {
		return nil, errors.Errorf("no device at %#02x", addr)
	}
	if c.open[addr] {
		return nil, errors.Errorf("I2C address %#02x is already open", addr)
	}
	c.open[addr] = true
	return &handle{chip: c, addr: addr}, nil
}

type handle struct {
	chip *Chip
	addr byte
}

func (h *handle) Write(ctx context.Context, tx []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(tx) == 0 {
		return errors.New("empty write")
	}
	c := h.chip
	c.mu.Lock()
	defer c.mu.Unlock()

	if h.addr == CECAddress {
		c.cecPtr = tx[0]
		for i, v := range tx[1:] {
			c.cec[tx[0]+byte(i)] = v
		}
		return nil
	}

	if tx[0] == regCurPage {
		if len(tx) != 2 {
			return errors.Errorf("page select takes one byte, got %d", len(tx)-1)
		}
		c.page = tx[1]
		return nil
	}
	c.pointer = tx[0]
	for i, v := range tx[1:] {
		c.store(tx[0]+byte(i), v)
	}
	return nil
}

// store writes one register of the current page, with the side effects of the EDID engine.
func (c *Chip) store(offset, val byte) {
	switch {
	case c.page == pageGeneral && offset == regIntFlags2:
		// write 1 to clear
		c.regs[pageGeneral][regIntFlags2] &^= val
		return
	case c.page == pageEDID && offset == regEDIDCtrl:
		prev := c.regs[pageEDID][regEDIDCtrl]
		c.regs[pageEDID][regEDIDCtrl] = val
		if prev&1 == 1 && val&1 == 0 {
			c.readEDIDBlock()
		}
		return
	}
	c.regs[c.page][offset] = val
}

func (c *Chip) readEDIDBlock() {
	block := int(c.regs[pageEDID][regDDCSegm])*2 + int(c.regs[pageEDID][regDDCOffs])/edidBlockLength
	dst := c.regs[pageEDID][:edidBlockLength]
	for i := range dst {
		dst[i] = 0
	}
	if start := block * edidBlockLength; start < len(c.EDID) {
		copy(dst, c.EDID[start:])
	}
	if !c.NeverComplete {
		c.regs[pageGeneral][regIntFlags2] |= flagEDIDBlkRd
	}
}

func (h *handle) Read(ctx context.Context, count int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := h.chip
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]byte, count)
	if h.addr == CECAddress {
		for i := range out {
			out[i] = c.cec[c.cecPtr+byte(i)]
		}
		return out, nil
	}
	for i := range out {
		offset := c.pointer + byte(i)
		out[i] = c.regs[c.page][offset]
		c.reads[uint16(c.page)<<8|uint16(offset)]++
	}
	return out, nil
}

func (h *handle) Close() error {
	h.chip.mu.Lock()
	defer h.chip.mu.Unlock()
	delete(h.chip.open, h.addr)
	return nil
}
