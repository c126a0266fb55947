package tda998x

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/saimusdev/bone-rt/components/hdmi/edid"
)

// The block read flag is polled this many times, edidPollInterval apart.
const (
	edidPollAttempts = 100
	edidPollInterval = time.Millisecond
)

// readBlock has the DDC master fetch EDID block index into buf, which must hold
// edid.BlockLength bytes.
func (t *TDA998x) readBlock(ctx context.Context, buf []byte, index int) error {
	// The flag is write-1-to-clear; setting it drops a stale completion.
	t.regs.set(ctx, regIntFlags2, intFlags2EDIDBlkRd)

	var offset byte
	if index&1 == 1 {
		offset = edid.BlockLength
	}
	t.regs.write(ctx, regDDCAddr, ddcEDIDAddr)
	t.regs.write(ctx, regDDCOffs, offset)
	t.regs.write(ctx, regDDCSegmAddr, ddcSegmentAddr)
	t.regs.write(ctx, regDDCSegm, byte(index/2))

	// The read starts on the falling edge.
	t.regs.write(ctx, regEDIDCtrl, 0x1)
	t.regs.write(ctx, regEDIDCtrl, 0x0)

	if !t.waitBlockRead(ctx) {
		return errors.Wrapf(ErrTimeout, "block %d", index)
	}

	data, err := t.regs.readRange(ctx, regEDIDData0, edid.BlockLength)
	if err != nil {
		return errors.Wrapf(err, "failed to read EDID block %d", index)
	}
	if len(data) != edid.BlockLength {
		return errors.Errorf("short read of EDID block %d: %d bytes", index, len(data))
	}
	copy(buf, data)

	t.regs.clear(ctx, regIntFlags2, intFlags2EDIDBlkRd)
	return nil
}

// waitBlockRead polls for the block read flag. A failed status read counts as not done.
func (t *TDA998x) waitBlockRead(ctx context.Context) bool {
	for i := 0; i < edidPollAttempts; i++ {
		val, err := t.regs.read(ctx, regIntFlags2)
		if err == nil && val&intFlags2EDIDBlkRd != 0 {
			return true
		}
		t.clk.Sleep(edidPollInterval)
	}
	return false
}

// readEDID fetches the base block and every extension it declares. Extensions that fail
// validation are left out and the base block is patched to count only the ones kept.
func (t *TDA998x) readEDID(ctx context.Context) ([]byte, error) {
	base := make([]byte, edid.BlockLength)
	if err := t.readBlock(ctx, base, 0); err != nil {
		return nil, err
	}
	if err := edid.ValidateBlock(base, 0); err != nil {
		return nil, err
	}

	declared := edid.Extensions(base)
	if declared == 0 {
		return base, nil
	}

	data := make([]byte, (declared+1)*edid.BlockLength)
	copy(data, base)
	valid := 0
	for index := 1; index <= declared; index++ {
		block := data[(valid+1)*edid.BlockLength : (valid+2)*edid.BlockLength]
		if err := t.readBlock(ctx, block, index); err != nil {
			return nil, err
		}
		if err := edid.ValidateBlock(block, index); err != nil {
			t.edidLogger.Warnw("skipping extension block", "block", index, "error", err)
			continue
		}
		valid++
	}

	if valid != declared {
		// The count drops by declared-valid, so the checksum rises by the same amount.
		data[edid.ChecksumOffset] += byte(declared - valid)
		data[edid.ExtensionCountOffset] = byte(valid)
		data = data[:(valid+1)*edid.BlockLength : (valid+1)*edid.BlockLength]
	}
	return data, nil
}

// EDID returns the monitor's EDID: the base block followed by its valid extensions.
func (t *TDA998x) EDID(ctx context.Context) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.readEDID(ctx)
}
