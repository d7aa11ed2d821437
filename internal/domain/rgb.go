package domain

// PackRGB packs three channels as 0xRRGGBB. Only the low 8 bits of each
// channel are kept.
func PackRGB(r, g, b int) int {
	return (r&0xFF)<<16 | (g&0xFF)<<8 | b&0xFF
}

// RedFromRGB extracts the red channel (0..255) of a packed color.
// Bits above the low 24, including the sign, are ignored, so every int is accepted.
func RedFromRGB(packed int) int {
	return (packed >> 16) & 0xFF
}

// GreenFromRGB extracts the green channel (0..255) of a packed color
func GreenFromRGB(packed int) int {
	return (packed >> 8) & 0xFF
}

// BlueFromRGB extracts the blue channel (0..255) of a packed color
func BlueFromRGB(packed int) int {
	return packed & 0xFF
}
