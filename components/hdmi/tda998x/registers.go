package tda998x

import "fmt"

// Reg is a paged register id: the page in the high byte and the offset within the page in the
// low byte. Offset 0xff of every page is the page select register and is never addressed
// through a Reg.
type Reg uint16

// NewReg packs page and offset into a register id.
func NewReg(page, offset byte) Reg {
	return Reg(uint16(page)<<8 | uint16(offset))
}

// Page returns the page of the register.
func (r Reg) Page() byte {
	return byte(r >> 8)
}

// Offset returns the offset of the register within its page.
func (r Reg) Offset() byte {
	return byte(r)
}

func (r Reg) String() string {
	return fmt.Sprintf("%02x:%02x", r.Page(), r.Offset())
}

// regCurPage selects the page used by all following transactions.
const regCurPage = 0xff

// Page 00h: general control.
var (
	regVersionLSB  = NewReg(0x00, 0x00)
	regMainCntrl0  = NewReg(0x00, 0x01)
	regVersionMSB  = NewReg(0x00, 0x02)
	regSoftReset   = NewReg(0x00, 0x0a)
	regDDCDisable  = NewReg(0x00, 0x0b)
	regI2CMaster   = NewReg(0x00, 0x0d)
	regIntFlags2   = NewReg(0x00, 0x11)
	regEnaVP0      = NewReg(0x00, 0x18)
	regEnaVP1      = NewReg(0x00, 0x19)
	regEnaVP2      = NewReg(0x00, 0x1a)
	regEnaAP       = NewReg(0x00, 0x1e)
	regVIPCntrl0   = NewReg(0x00, 0x20)
	regVIPCntrl1   = NewReg(0x00, 0x21)
	regVIPCntrl2   = NewReg(0x00, 0x22)
	regVIPCntrl3   = NewReg(0x00, 0x23)
	regVIPCntrl4   = NewReg(0x00, 0x24)
	regVIPCntrl5   = NewReg(0x00, 0x25)
	regMuxAP       = NewReg(0x00, 0x26)
	regMatContrl   = NewReg(0x00, 0x80)
	regVidFormat   = NewReg(0x00, 0xa0)
	regRefPixMSB   = NewReg(0x00, 0xa1)
	regRefLineMSB  = NewReg(0x00, 0xa3)
	regNPixMSB     = NewReg(0x00, 0xa5)
	regNLineMSB    = NewReg(0x00, 0xa7)
	regVSLineStrt1 = NewReg(0x00, 0xa9)
	regVSPixStrt1  = NewReg(0x00, 0xab)
	regVSLineEnd1  = NewReg(0x00, 0xad)
	regVSPixEnd1   = NewReg(0x00, 0xaf)
	regVSPixStrt2  = NewReg(0x00, 0xb3)
	regVSPixEnd2   = NewReg(0x00, 0xb7)
	regHSPixStart  = NewReg(0x00, 0xb9)
	regHSPixStop   = NewReg(0x00, 0xbb)
	regVWinStart1  = NewReg(0x00, 0xbd)
	regVWinEnd1    = NewReg(0x00, 0xbf)
	regDEStart     = NewReg(0x00, 0xc5)
	regDEStop      = NewReg(0x00, 0xc7)
	regTBGCntrl0   = NewReg(0x00, 0xca)
	regTBGCntrl1   = NewReg(0x00, 0xcb)
	regEnableSpace = NewReg(0x00, 0xd6)
	regHVFCntrl0   = NewReg(0x00, 0xe4)
	regHVFCntrl1   = NewReg(0x00, 0xe5)
	regRptCntrl    = NewReg(0x00, 0xf0)
	regI2SFormat   = NewReg(0x00, 0xfc)
	regAIPClkSel   = NewReg(0x00, 0xfd)
)

// Page 02h: PLL settings.
var (
	regPLLSerial1 = NewReg(0x02, 0x00)
	regPLLSerial2 = NewReg(0x02, 0x01)
	regPLLSerial3 = NewReg(0x02, 0x02)
	regSerializer = NewReg(0x02, 0x03)
	regBufferOut  = NewReg(0x02, 0x04)
	regPLLSCG1    = NewReg(0x02, 0x05)
	regPLLSCG2    = NewReg(0x02, 0x06)
	regPLLSCGN1   = NewReg(0x02, 0x07)
	regPLLSCGN2   = NewReg(0x02, 0x08)
	regPLLSCGR1   = NewReg(0x02, 0x09)
	regPLLSCGR2   = NewReg(0x02, 0x0a)
	regAudioDiv   = NewReg(0x02, 0x0e)
	regSelClk     = NewReg(0x02, 0x11)
	regAnaGeneral = NewReg(0x02, 0x12)
)

// Page 09h: EDID control. The 128 registers from regEDIDData0 hold the last block read.
var (
	regEDIDData0   = NewReg(0x09, 0x00)
	regEDIDCtrl    = NewReg(0x09, 0xfa)
	regDDCAddr     = NewReg(0x09, 0xfb)
	regDDCOffs     = NewReg(0x09, 0xfc)
	regDDCSegmAddr = NewReg(0x09, 0xfd)
	regDDCSegm     = NewReg(0x09, 0xfe)
)

// Page 10h: infoframes and packets.
var (
	regAVIIF   = NewReg(0x10, 0x40)
	regAudioIF = NewReg(0x10, 0x80)
)

// Page 11h: audio settings and content info packets.
var (
	regAIPCntrl0  = NewReg(0x11, 0x00)
	regACRCTS0    = NewReg(0x11, 0x05)
	regACRCTS1    = NewReg(0x11, 0x06)
	regACRCTS2    = NewReg(0x11, 0x07)
	regACRN0      = NewReg(0x11, 0x08)
	regACRN1      = NewReg(0x11, 0x09)
	regACRN2      = NewReg(0x11, 0x0a)
	regGCAVMute   = NewReg(0x11, 0x0b)
	regCTSN       = NewReg(0x11, 0x0c)
	regEncCntrl   = NewReg(0x11, 0x0d)
	regDIPFlags   = NewReg(0x11, 0x0e)
	regDIPIFFlags = NewReg(0x11, 0x0f)
)

// Page 12h: HDCP and OTP.
var (
	regTX3  = NewReg(0x12, 0x9a)
	regTX33 = NewReg(0x12, 0xb8)
)

// Bit fields.
const (
	mainCntrl0SR = 1 << 0

	softResetAudio     = 1 << 0
	softResetI2CMaster = 1 << 1

	i2cMasterDisMM = 1 << 0

	intFlags2EDIDBlkRd = 1 << 1

	vip3HTgl   = 1 << 1
	vip3VTgl   = 1 << 2
	vip3SyncHS = 1 << 5

	muxAPSelectI2S = 0x64

	matContrlMatBP = 1 << 2

	tbg0SyncMthd = 1 << 6
	tbg0SyncOnce = 1 << 7

	tbg1VHTgl0   = 1 << 0
	tbg1VHTgl2   = 1 << 2
	tbg1VHXExtDE = 1 << 3
	tbg1VHXExtHS = 1 << 4
	tbg1VHXExtVS = 1 << 5
	tbg1DWinDis  = 1 << 6

	selAIPI2S = 1 << 3

	pllSerial1ManIZ = 1 << 6
	pllSerial3CCIR  = 1 << 0
	pllSerial3DE    = 1 << 2

	selClkClk1     = 1 << 0
	selClkEnaSCClk = 1 << 3

	aipCntrl0RstFIFO = 1 << 0

	gcAVMuteClr = 1 << 0
	gcAVMuteSet = 1 << 1

	dipFlagsACR = 1 << 0

	dipIFFlagsIF2 = 1 << 2
	dipIFFlagsIF4 = 1 << 4

	tx33HDMI = 1 << 1
)

func vipSwap(hi, lo byte) byte {
	return (hi&7)<<4 | lo&7
}

func pllSerial2(nosc, pr byte) byte {
	return nosc&3 | (pr&0xf)<<4
}

// CEC sub-device registers. The sub-device is not paged.
const (
	cecFroImClkCtrl = 0xfb
	cecRxShpdLev    = 0xfe
	cecEnaMods      = 0xff

	cecFroImClkGhostDis = 1 << 7
	cecFroImClkImclkSel = 1 << 1

	cecRxShpdLevHPD = 1 << 1

	cecEnaModsEnRxSens = 1 << 2
	cecEnaModsEnHDMI   = 1 << 1
)

// Fixed DDC addressing of the monitor: EDID at 0xa0, segment pointer at 0x60.
const (
	ddcEDIDAddr    = 0xa0
	ddcSegmentAddr = 0x60
)
