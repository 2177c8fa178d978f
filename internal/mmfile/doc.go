// Package mmfile exposes boot information dumps and kernel images as byte
// slices, memory-mapped where the platform allows it.
package mmfile
