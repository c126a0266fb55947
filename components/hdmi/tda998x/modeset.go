package tda998x

import (
	"context"

	"github.com/pkg/errors"

	"github.com/saimusdev/bone-rt/components/hdmi"
	"github.com/saimusdev/bone-rt/components/hdmi/infoframe"
)

// pllClock is the pixel clock in kHz the serializer divider is relative to.
const pllClock = 148500

// pllDivisor returns the serializer divider for a pixel clock in kHz.
func pllDivisor(clock int) byte {
	return byte(pllClock / clock)
}

// timing holds the timing generator values derived from a mode.
type timing struct {
	hsStart, hsEnd     uint16
	lineStart, lineEnd uint16
	vwinStart, vwinEnd uint16
	deStart, deEnd     uint16
	refPix, refLine    uint16
	pixStart2          uint16
}

func newTiming(mode hdmi.Mode) timing {
	tm := timing{
		hsStart:   uint16(mode.HSyncStart - mode.HDisplay),
		hsEnd:     uint16(mode.HSyncEnd - mode.HDisplay),
		lineStart: 1,
		lineEnd:   uint16(1 + mode.VSyncEnd - mode.VSyncStart),
		vwinStart: uint16(mode.VTotal - mode.VSyncStart),
		deStart:   uint16(mode.HTotal - mode.HDisplay),
		deEnd:     uint16(mode.HTotal),
		// 2 for every format in the vendor tables.
		refLine: 2,
	}
	tm.vwinEnd = tm.vwinStart + uint16(mode.VDisplay)
	tm.refPix = 3 + tm.hsStart
	if mode.Interlaced() {
		tm.pixStart2 = uint16(mode.HTotal/2) + tm.hsStart
	}
	return tm
}

// ApplyMode programs the timing generator for mode. If the monitor takes HDMI and mode is a
// known CEA format, HDMI signalling, infoframes and audio are set up as well; otherwise the
// output stays DVI. Only an unusable mode is an error: write failures are logged and counted
// in Diagnostics.
func (t *TDA998x) ApplyMode(ctx context.Context, mode hdmi.Mode) error {
	if mode.Clock <= 0 {
		return errors.Errorf("mode %s has no pixel clock", mode)
	}
	if mode.HTotal <= 0 {
		return errors.Errorf("mode %s has no horizontal total", mode)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	tm := newTiming(mode)
	div := pllDivisor(mode.Clock)
	// no pixel repetition
	var rep byte

	t.logger.Debugw("mode set", "mode", mode.String(), "clock", mode.Clock, "div", div)
	t.logger.Debugw("timing",
		"hs_start", tm.hsStart, "hs_end", tm.hsEnd, "line_start", tm.lineStart, "line_end", tm.lineEnd,
		"vwin_start", tm.vwinStart, "vwin_end", tm.vwinEnd, "de_start", tm.deStart, "de_end", tm.deEnd,
		"ref_line", tm.refLine, "ref_pix", tm.refPix, "pix_start2", tm.pixStart2)

	r := t.regs

	// mute the audio FIFO
	r.set(ctx, regAIPCntrl0, aipCntrl0RstFIFO)

	// HDCP and HDMI off for now
	r.set(ctx, regTBGCntrl1, tbg1DWinDis)
	r.clear(ctx, regTX33, tx33HDMI)

	r.write(ctx, regEncCntrl, 0)
	// no pre-filter or interpolator
	r.write(ctx, regHVFCntrl0, 0)
	r.write(ctx, regVIPCntrl5, 0)
	r.write(ctx, regVIPCntrl4, 0)
	r.clear(ctx, regPLLSerial3, pllSerial3CCIR)

	r.clear(ctx, regPLLSerial1, pllSerial1ManIZ)
	r.clear(ctx, regPLLSerial3, pllSerial3DE)
	r.write(ctx, regSerializer, 0)
	r.write(ctx, regHVFCntrl1, 0)

	r.write(ctx, regRptCntrl, 0)
	r.write(ctx, regSelClk, selClkClk1|selClkEnaSCClk)

	r.write(ctx, regPLLSerial2, pllSerial2(div, rep))

	r.write16(ctx, regVSPixStrt2, tm.pixStart2)
	r.write16(ctx, regVSPixEnd2, tm.pixStart2)

	// color matrix bypass
	r.set(ctx, regMatContrl, matContrlMatBP)

	// TMDS bias
	r.write(ctx, regAnaGeneral, 0x09)

	r.clear(ctx, regTBGCntrl0, tbg0SyncMthd)

	r.write(ctx, regVIPCntrl3, 0)
	r.set(ctx, regVIPCntrl3, vip3SyncHS)
	if mode.NVSync() {
		r.set(ctx, regVIPCntrl3, vip3VTgl)
	}
	if mode.NHSync() {
		r.set(ctx, regVIPCntrl3, vip3HTgl)
	}

	r.write(ctx, regVidFormat, 0x00)
	r.write16(ctx, regNPixMSB, uint16(mode.HDisplay-1))
	r.write16(ctx, regNLineMSB, uint16(mode.VDisplay-1))
	r.write16(ctx, regVSLineStrt1, tm.lineStart)
	r.write16(ctx, regVSLineEnd1, tm.lineEnd)
	r.write16(ctx, regVSPixStrt1, tm.hsStart)
	r.write16(ctx, regVSPixEnd1, tm.hsStart)
	r.write16(ctx, regHSPixStart, tm.hsStart)
	r.write16(ctx, regHSPixStop, tm.hsEnd)
	r.write16(ctx, regVWinStart1, tm.vwinStart)
	r.write16(ctx, regVWinEnd1, tm.vwinEnd)
	r.write16(ctx, regDEStart, tm.deStart)
	r.write16(ctx, regDEStop, tm.deEnd)

	if t.rev == TDA19988 {
		// let incoming pixels fill the active space
		r.write(ctx, regEnableSpace, 0x01)
	}

	r.write16(ctx, regRefPixMSB, tm.refPix)
	r.write16(ctx, regRefLineMSB, tm.refLine)

	tbg := byte(tbg1VHXExtDE | tbg1VHXExtHS | tbg1VHXExtVS | tbg1DWinDis | tbg1VHTgl2)
	if mode.NVSync() || mode.NHSync() {
		tbg |= tbg1VHTgl0
	}
	r.set(ctx, regTBGCntrl1, tbg)

	if t.monitorKind(ctx) == hdmi.MonitorHDMI {
		t.enableHDMI(ctx, mode)
	}

	// Must be the last write: the timing generator takes the new settings on the next frame.
	r.clear(ctx, regTBGCntrl0, tbg0SyncOnce)
	return nil
}

// enableHDMI switches the output to HDMI signalling with infoframes and I2S audio. Modes
// without a format code are left as DVI.
func (t *TDA998x) enableHDMI(ctx context.Context, mode hdmi.Mode) {
	vic, code, ok := formatCode(mode)
	if !ok {
		t.logger.Warnw("leaving output as DVI", "mode", mode.String(), "vic", vic, "error", ErrUnsupportedFormat)
		return
	}
	t.logger.Infow("HDMI monitor connected", "vic", vic, "vidformat", code)

	r := t.regs
	r.write(ctx, regTBGCntrl1, 0)
	r.write(ctx, regVidFormat, code)

	t.writeInfoframe(ctx, regAVIIF, dipIFFlagsIF2, &infoframe.AVI{
		VideoCode:     byte(vic),
		PictureAspect: infoframe.PictureAspectNone,
		ActiveAspect:  infoframe.ActiveAspectPicture,
	})
	// The audio path below is fixed at 2 channel 24 bit 48kHz PCM.
	t.writeInfoframe(ctx, regAudioIF, dipIFFlagsIF4, &infoframe.Audio{
		Channels:        2,
		CodingType:      infoframe.AudioCodingPCM,
		SampleSize:      infoframe.AudioSampleSize24,
		SampleFrequency: infoframe.AudioSampleFrequency48000,
	})
	r.set(ctx, regTX33, tx33HDMI)

	// audio clock regeneration
	r.write(ctx, regACRCTS0, 0x00)
	r.write(ctx, regACRCTS1, 0x00)
	r.write(ctx, regACRCTS2, 0x00)

	r.write(ctx, regACRN0, 0x00)
	r.write(ctx, regACRN1, 0x18)
	r.write(ctx, regACRN2, 0x00)

	r.set(ctx, regDIPFlags, dipFlagsACR)

	r.write(ctx, regEncCntrl, 0x04)
	r.write(ctx, regCTSN, 0x33)
	// 2 channel I2S
	r.write(ctx, regEnaAP, 0x03)
	r.write(ctx, regAudioDiv, 0x02)

	r.write(ctx, regAIPClkSel, selAIPI2S)
	r.write(ctx, regMuxAP, muxAPSelectI2S)
	// I2S format and word size
	r.write(ctx, regI2SFormat, 0x0a)

	r.clear(ctx, regAIPCntrl0, aipCntrl0RstFIFO)

	// mute then unmute to start the audio
	r.write(ctx, regGCAVMute, gcAVMuteSet)
	r.write(ctx, regGCAVMute, gcAVMuteClr)
}

type packer interface {
	Pack(buf []byte) (int, error)
}

// writeInfoframe loads a packed infoframe and toggles its enable flag. The transmitter only
// picks up the new payload on a clear then set of the flag.
func (t *TDA998x) writeInfoframe(ctx context.Context, reg Reg, flag byte, frame packer) {
	var buf [20]byte
	n, err := frame.Pack(buf[:])
	if err != nil {
		t.logger.Errorw("failed to pack infoframe", "register", reg, "error", err)
		return
	}
	t.regs.writeRange(ctx, reg, buf[:n])

	t.regs.clear(ctx, regDIPIFFlags, flag)
	t.clk.Sleep(infoframeDelay)
	t.regs.set(ctx, regDIPIFFlags, flag)
}
