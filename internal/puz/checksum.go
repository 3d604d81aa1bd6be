package puz

// ChecksumByte folds one byte into a rolling 16-bit checksum. The rotate-then-add
// step has to match Across Lite bit for bit or existing files stop verifying.
func ChecksumByte(b byte, cksum uint16) uint16 {
	if cksum&0x1 != 0 {
		cksum = cksum>>1 + 0x8000
	} else {
		cksum >>= 1
	}
	return cksum + uint16(b)
}

// ChecksumRegion folds every byte of data into cksum.
func ChecksumRegion(data []byte, cksum uint16) uint16 {
	for _, b := range data {
		cksum = ChecksumByte(b, cksum)
	}
	return cksum
}

// ChecksumShort folds the low byte and then the high byte of v into cksum.
func ChecksumShort(v uint16, cksum uint16) uint16 {
	cksum = ChecksumByte(byte(v), cksum)
	return ChecksumByte(byte(v>>8), cksum)
}
