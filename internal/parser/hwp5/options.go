package hwp5

import "go.uber.org/zap"

type readOptions struct {
	log         *zap.Logger
	loadBinData bool
}

// Option configures Read, ReadFile and Build.
type Option func(*readOptions)

// WithLogger routes debug and warning output to log.
func WithLogger(log *zap.Logger) Option {
	return func(o *readOptions) {
		if log != nil {
			o.log = log
		}
	}
}

// WithLoadBinData controls whether BinData streams are read into Document.BinData.
func WithLoadBinData(load bool) Option {
	return func(o *readOptions) {
		o.loadBinData = load
	}
}

func newReadOptions(opts []Option) readOptions {
	o := readOptions{log: zap.NewNop(), loadBinData: true}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
