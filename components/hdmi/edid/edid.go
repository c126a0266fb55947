// Package edid validates the structure of EDID capability blocks and extracts the few facts
// a transmitter needs from them: whether the sink is HDMI, and which CEA modes it lists.
// Higher level parsing is left to consumers.
package edid

import (
	"github.com/pkg/errors"
)

const (
	// BlockLength is the size of every EDID block.
	BlockLength = 128
	// ExtensionCountOffset is where block 0 stores the number of extension blocks.
	ExtensionCountOffset = 0x7e
	// ChecksumOffset is the last byte of a block, chosen so the block sums to zero.
	ChecksumOffset = BlockLength - 1

	// CEAExtensionTag is the tag byte of a CEA-861 extension block.
	CEAExtensionTag = 0x02

	headerFixupThreshold = 6
	supportedVersion     = 1

	dataBlockVideo          = 2
	dataBlockVendorSpecific = 3

	hdmiIEEEOUI = 0x000c03
)

// ErrInvalidBlock is returned for blocks that fail structural validation.
var ErrInvalidBlock = errors.New("invalid EDID block")

var header = [8]byte{0x00, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00}

// ValidateBlock checks one block. index is the block's position; block 0 additionally needs a
// header and EDID version 1. A base block header with at most two wrong bytes is repaired in
// place. A CEA extension with a bad checksum is accepted, since KVM switches are known to
// rewrite those blocks without fixing the checksum.
func ValidateBlock(block []byte, index int) error {
	if len(block) != BlockLength {
		return errors.Wrapf(ErrInvalidBlock, "block %d has length %d", index, len(block))
	}

	if index == 0 {
		score := 0
		for i, b := range header {
			if block[i] == b {
				score++
			}
		}
		switch {
		case score == len(header):
		case score >= headerFixupThreshold:
			copy(block, header[:])
		default:
			return errors.Wrapf(ErrInvalidBlock, "block 0 header is wrong in %d bytes", len(header)-score)
		}
	}

	if sum := Checksum(block); sum != 0 {
		if block[0] != CEAExtensionTag {
			return errors.Wrapf(ErrInvalidBlock, "block %d checksum is off by %d", index, sum)
		}
	}

	if index == 0 && block[0x12] != supportedVersion {
		return errors.Wrapf(ErrInvalidBlock, "block 0 has EDID version %d", block[0x12])
	}

	allZero := true
	for _, b := range block {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return errors.Wrapf(ErrInvalidBlock, "block %d is all zeroes", index)
	}
	return nil
}

// Checksum returns the byte sum of block. A valid block sums to 0.
func Checksum(block []byte) byte {
	var sum byte
	for _, b := range block {
		sum += b
	}
	return sum
}

// FixChecksum rewrites the last byte of block so that it sums to zero.
func FixChecksum(block []byte) {
	block[ChecksumOffset] = 0
	block[ChecksumOffset] = -Checksum(block)
}

// Extensions returns the extension count declared by the base block.
func Extensions(data []byte) int {
	if len(data) < BlockLength {
		return 0
	}
	return int(data[ExtensionCountOffset])
}

// blocks splits data into 128 byte blocks, dropping a trailing partial block.
func blocks(data []byte) [][]byte {
	var out [][]byte
	for off := 0; off+BlockLength <= len(data); off += BlockLength {
		out = append(out, data[off:off+BlockLength])
	}
	return out
}

// firstCEA returns the first CEA extension block in data, or nil.
func firstCEA(data []byte) []byte {
	all := blocks(data)
	for i := 1; i < len(all); i++ {
		if all[i][0] == CEAExtensionTag {
			return all[i]
		}
	}
	return nil
}

// dataBlocks calls fn with the tag and payload of each entry of the CEA data block
// collection, stopping early when fn returns false.
func dataBlocks(cea []byte, fn func(tag int, payload []byte) bool) {
	// Byte 1 is the revision; revision 1 extensions carry no data block collection.
	if cea[1] < 3 {
		return
	}
	end := int(cea[2])
	if end < 4 || end > BlockLength {
		return
	}
	for i := 4; i < end; {
		tag := int(cea[i] >> 5)
		length := int(cea[i] & 0x1f)
		if i+1+length > end {
			return
		}
		if !fn(tag, cea[i+1:i+1+length]) {
			return
		}
		i += 1 + length
	}
}

// IsHDMI reports whether data (the base block plus its extensions) carries an HDMI
// vendor-specific data block in its first CEA extension.
func IsHDMI(data []byte) bool {
	cea := firstCEA(data)
	if cea == nil {
		return false
	}
	found := false
	dataBlocks(cea, func(tag int, payload []byte) bool {
		if tag != dataBlockVendorSpecific || len(payload) < 5 {
			return true
		}
		oui := int(payload[0]) | int(payload[1])<<8 | int(payload[2])<<16
		if oui == hdmiIEEEOUI {
			found = true
			return false
		}
		return true
	})
	return found
}

// HasBasicAudio reports whether the first CEA extension advertises basic audio support.
func HasBasicAudio(data []byte) bool {
	cea := firstCEA(data)
	if cea == nil || cea[1] < 2 {
		return false
	}
	return cea[3]&(1<<6) != 0
}

// VideoCodes returns the VICs of the short video descriptors of the first CEA extension, in
// descriptor order, with the native flag stripped.
func VideoCodes(data []byte) []int {
	cea := firstCEA(data)
	if cea == nil {
		return nil
	}
	var vics []int
	dataBlocks(cea, func(tag int, payload []byte) bool {
		if tag != dataBlockVideo {
			return true
		}
		for _, svd := range payload {
			vics = append(vics, int(svd&0x7f))
		}
		return true
	})
	return vics
}
