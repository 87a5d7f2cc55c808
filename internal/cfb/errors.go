package cfb

import "errors"

var (
	ErrBadMagic     = errors.New("cfb: bad magic")
	ErrCorruptChain = errors.New("cfb: corrupt sector chain")
	ErrSizeMismatch = errors.New("cfb: stream size mismatch")
	ErrFormat       = errors.New("cfb: invalid structure")
	ErrNotFound     = errors.New("cfb: stream not found")
)
