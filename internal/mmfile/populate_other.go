//go:build !linux

package mmfile

func populate([]byte) error { return errPopulateUnsupported }
