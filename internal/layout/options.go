package layout

import "go.uber.org/zap"

// PartialPolicy decides what happens to a paragraph whose stored line segments
// cover only part of its text.
type PartialPolicy int

const (
	// PartialEstimateRemainder keeps the valid prefix and estimates the rest.
	PartialEstimateRemainder PartialPolicy = iota
	// PartialEstimateParagraph discards the stored lines and estimates the whole paragraph.
	PartialEstimateParagraph
)

func (p PartialPolicy) String() string {
	switch p {
	case PartialEstimateParagraph:
		return "paragraph"
	default:
		return "remainder"
	}
}

// ParsePartialPolicy maps a config value ("paragraph", "remainder") to a policy.
func ParsePartialPolicy(s string) (PartialPolicy, bool) {
	switch s {
	case "paragraph":
		return PartialEstimateParagraph, true
	case "remainder", "":
		return PartialEstimateRemainder, true
	}
	return PartialEstimateRemainder, false
}

// DefaultAdvanceRatio is the width of one display cell relative to the char height.
const DefaultAdvanceRatio = 0.5

type options struct {
	partial      PartialPolicy
	advanceRatio float64
	log          *zap.Logger
}

// Option configures Layout.
type Option func(*options)

// WithPartialPolicy selects the policy for partially stored paragraphs.
func WithPartialPolicy(p PartialPolicy) Option {
	return func(o *options) {
		o.partial = p
	}
}

// WithAdvanceRatio overrides the per-cell advance ratio. Non-positive values are ignored.
func WithAdvanceRatio(r float64) Option {
	return func(o *options) {
		if r > 0 {
			o.advanceRatio = r
		}
	}
}

// WithLogger receives layout warnings and debug output.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func newOptions(opts []Option) options {
	o := options{
		partial:      PartialEstimateRemainder,
		advanceRatio: DefaultAdvanceRatio,
		log:          zap.NewNop(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
