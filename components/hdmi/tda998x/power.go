package tda998x

import (
	"context"

	"github.com/saimusdev/bone-rt/components/hdmi"
)

// SetPower enables or disables the audio and video input ports. Anything other than PowerOn
// turns the ports off. Requesting the current state does nothing.
func (t *TDA998x) SetPower(ctx context.Context, state hdmi.PowerState) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if state != hdmi.PowerOn {
		state = hdmi.PowerOff
	}
	if state == t.power {
		return nil
	}

	switch state {
	case hdmi.PowerOn:
		t.regs.write(ctx, regEnaAP, 0x03)
		t.regs.write(ctx, regEnaVP0, 0xff)
		t.regs.write(ctx, regEnaVP1, 0xff)
		t.regs.write(ctx, regEnaVP2, 0xff)
		// muxing goes after enabling the ports
		t.regs.write(ctx, regVIPCntrl0, vipSwap(2, 3))
		t.regs.write(ctx, regVIPCntrl1, vipSwap(0, 1))
		t.regs.write(ctx, regVIPCntrl2, vipSwap(4, 5))
	case hdmi.PowerOff:
		t.regs.write(ctx, regEnaAP, 0x00)
		t.regs.write(ctx, regEnaVP0, 0x00)
		t.regs.write(ctx, regEnaVP1, 0x00)
		t.regs.write(ctx, regEnaVP2, 0x00)
	}
	t.power = state
	t.logger.Debugw("power", "state", state)
	return nil
}

// Power returns the last commanded power state.
func (t *TDA998x) Power() hdmi.PowerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.power
}

// Detect reads the hot-plug level from the CEC sub-device. A failed read reports the connector
// as disconnected along with the error.
func (t *TDA998x) Detect(ctx context.Context) (hdmi.ConnectorStatus, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	val, err := t.cec.read(ctx, cecRxShpdLev)
	if err != nil {
		return hdmi.Disconnected, err
	}
	if val&cecRxShpdLevHPD != 0 {
		return hdmi.Connected, nil
	}
	return hdmi.Disconnected, nil
}
