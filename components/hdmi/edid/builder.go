package edid

// Builder synthesizes EDID data for simulated monitors.
type Builder struct {
	// Name is stored in the monitor name descriptor, at most 13 characters.
	Name string
	// HDMI adds an HDMI vendor-specific data block to the CEA extension.
	HDMI bool
	// BasicAudio sets the basic audio flag of the CEA extension.
	BasicAudio bool
	// VICs are listed as short video descriptors, the first one flagged native.
	VICs []int
	// Extensions is the number of extension blocks. The first one is the CEA extension; the
	// rest are video timing block extensions without content. Zero builds a DVI-only EDID.
	Extensions int
}

const (
	tagMonitorName  = 0xfc
	tagDummy        = 0x10
	tagVTBExtension = 0x10
)

// Build returns (Extensions+1)*128 bytes of structurally valid EDID.
func (b Builder) Build() []byte {
	data := make([]byte, (b.Extensions+1)*BlockLength)
	base := data[:BlockLength]
	copy(base, header[:])
	// Manufacturer "BRT", product 0x0998, serial 1, week 1 of 2013.
	base[8], base[9] = 0x0a, 0x54
	base[10], base[11] = 0x98, 0x09
	base[12] = 0x01
	base[16], base[17] = 1, 23
	base[0x12], base[0x13] = 1, 3
	// Digital input, 52x29cm, gamma 2.2, RGB, preferred timing in descriptor 1.
	base[0x14], base[0x15], base[0x16], base[0x17], base[0x18] = 0x80, 52, 29, 120, 0x0a
	// Standard timings unused.
	for i := 0x26; i < 0x36; i++ {
		base[i] = 0x01
	}
	writeDescriptors(base, b.Name)
	base[ExtensionCountOffset] = byte(b.Extensions)
	FixChecksum(base)

	if b.Extensions > 0 {
		b.writeCEA(data[BlockLength : 2*BlockLength])
	}
	for i := 2; i <= b.Extensions; i++ {
		ext := data[i*BlockLength : (i+1)*BlockLength]
		ext[0], ext[1] = tagVTBExtension, 1
		FixChecksum(ext)
	}
	return data
}

func writeDescriptors(base []byte, name string) {
	// Descriptor 1: 1280x720@60 detailed timing.
	dtd := base[0x36:0x48]
	copy(dtd, []byte{0x01, 0x1d, 0x00, 0x72, 0x51, 0xd0, 0x1e, 0x20, 0x6e, 0x28, 0x55, 0x00,
		0x08, 0x22, 0x21, 0x00, 0x00, 0x1e})

	// Descriptor 2: monitor name, newline terminated and space padded.
	nameDesc := base[0x48:0x5a]
	nameDesc[3] = tagMonitorName
	text := []byte(name)
	if len(text) > 13 {
		text = text[:13]
	}
	for i := 0; i < 13; i++ {
		switch {
		case i < len(text):
			nameDesc[5+i] = text[i]
		case i == len(text):
			nameDesc[5+i] = '\n'
		default:
			nameDesc[5+i] = ' '
		}
	}

	// Descriptors 3 and 4: dummies.
	base[0x5a+3] = tagDummy
	base[0x6c+3] = tagDummy
}

func (b Builder) writeCEA(ext []byte) {
	ext[0], ext[1] = CEAExtensionTag, 3
	if b.BasicAudio {
		ext[3] |= 1 << 6
	}
	i := 4
	if len(b.VICs) > 0 {
		ext[i] = byte(dataBlockVideo<<5 | len(b.VICs))
		i++
		for n, vic := range b.VICs {
			ext[i] = byte(vic)
			if n == 0 {
				ext[i] |= 0x80
			}
			i++
		}
	}
	if b.HDMI {
		ext[i] = dataBlockVendorSpecific<<5 | 5
		copy(ext[i+1:], []byte{0x03, 0x0c, 0x00, 0x10, 0x00})
		i += 6
	}
	ext[2] = byte(i)
	FixChecksum(ext)
}
