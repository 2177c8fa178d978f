// Package buf holds the bounds arithmetic and little-endian readers shared by
// the multiboot decoders. Every helper tolerates hostile lengths: arithmetic
// reports overflow instead of wrapping and reads past the end return zero.
package buf
