package mmfile

import (
	"errors"
	"fmt"
	"runtime/debug"
)

var errPopulateUnsupported = errors.New("mmfile: populate unsupported")

const pageSize = 4096

// Prefault makes every page of data resident so that a mapping over a file
// truncated underneath us fails here with an error instead of a SIGBUS
// during decoding.
func Prefault(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	err := populate(data)
	if err == nil {
		return nil
	}
	if !errors.Is(err, errPopulateUnsupported) {
		return fmt.Errorf("mmfile: populate: %w", err)
	}
	return touch(data)
}

// touch reads one byte per page with faults turned into panics.
func touch(data []byte) (err error) {
	old := debug.SetPanicOnFault(true)
	defer debug.SetPanicOnFault(old)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("mmfile: fault while touching mapped pages: %v", r)
		}
	}()

	var sink byte
	for i := 0; i < len(data); i += pageSize {
		sink ^= data[i]
	}
	sink ^= data[len(data)-1]
	_ = sink
	return nil
}
