//go:build linux

package mmfile

import (
	"errors"

	"golang.org/x/sys/unix"
)

// populate asks the kernel to fault the range in (Linux 5.14+). Unlike a
// plain read, an inaccessible page comes back as EFAULT.
func populate(data []byte) error {
	err := unix.Madvise(data, unix.MADV_POPULATE_READ)
	if errors.Is(err, unix.EINVAL) || errors.Is(err, unix.ENOSYS) {
		return errPopulateUnsupported
	}
	return err
}
