//go:build windows

package mmfile

import (
	"os"

	"github.com/joshuapare/mbkit/internal/buf"
)

// Map reads the file at path into an 8-byte aligned buffer.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, func() error { return nil }, err
	}
	return buf.AlignedCopy(data), func() error { return nil }, nil
}
