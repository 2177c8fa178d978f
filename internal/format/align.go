package format

// Align8 returns n rounded up to the next multiple of Alignment.
//
//	Align8(0)  = 0
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
func Align8(n int) int {
	return (n + AlignmentMask) &^ AlignmentMask
}

// Padding returns how many bytes follow n bytes of payload to reach alignment.
func Padding(n int) int {
	return Align8(n) - n
}

// IsAligned8 reports whether n is a multiple of Alignment.
func IsAligned8(n int) bool {
	return n&AlignmentMask == 0
}

// IsAligned8Addr is IsAligned8 for addresses.
func IsAligned8Addr(addr uintptr) bool {
	return addr&AlignmentMask == 0
}
