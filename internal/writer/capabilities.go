package writer

import (
	"fmt"

	"github.com/roboco-io/hwpkit/internal/parser/hwp5"
)

// Capabilities lists the document features the serializer is allowed to emit.
// A document using a disabled feature is rejected instead of written incompletely.
type Capabilities struct {
	BinData      bool `yaml:"bin_data" toml:"bin_data"`
	HeaderFooter bool `yaml:"header_footer" toml:"header_footer"`
	Equation     bool `yaml:"equation" toml:"equation"`
	Shape        bool `yaml:"shape" toml:"shape"`
	SummaryInfo  bool `yaml:"summary_info" toml:"summary_info"`
}

// 기능 이름 (설정 키와 같다)
const (
	FeatureBinData      = "bin_data"
	FeatureHeaderFooter = "header_footer"
	FeatureEquation     = "equation"
	FeatureShape        = "shape"
	FeatureSummaryInfo  = "summary_info"
)

// DefaultCapabilities enables equations and drawing objects only.
func DefaultCapabilities() Capabilities {
	return Capabilities{Equation: true, Shape: true}
}

// Enabled reports whether a feature is allowed. Unknown names are disabled.
func (c Capabilities) Enabled(feature string) bool {
	switch feature {
	case FeatureBinData:
		return c.BinData
	case FeatureHeaderFooter:
		return c.HeaderFooter
	case FeatureEquation:
		return c.Equation
	case FeatureShape:
		return c.Shape
	case FeatureSummaryInfo:
		return c.SummaryInfo
	}
	return false
}

// Set enables or disables a feature by name.
func (c *Capabilities) Set(feature string, on bool) error {
	switch feature {
	case FeatureBinData:
		c.BinData = on
	case FeatureHeaderFooter:
		c.HeaderFooter = on
	case FeatureEquation:
		c.Equation = on
	case FeatureShape:
		c.Shape = on
	case FeatureSummaryInfo:
		c.SummaryInfo = on
	default:
		return fmt.Errorf("unknown writer capability %q", feature)
	}
	return nil
}

// Features returns the features doc uses, in a fixed order.
func Features(doc *hwp5.Document) []string {
	used := map[string]bool{}
	if len(doc.BinData) > 0 {
		used[FeatureBinData] = true
	}
	for _, b := range doc.DocInfo.BinData {
		if b.Type() != hwp5.BinDataLink {
			used[FeatureBinData] = true
		}
	}
	if doc.Summary != nil {
		used[FeatureSummaryInfo] = true
	}
	doc.Walk(func(p *hwp5.Paragraph) {
		for _, c := range p.Controls {
			switch ctl := c.(type) {
			case *hwp5.SubListControl:
				if ctl.IsHeaderFooter() {
					used[FeatureHeaderFooter] = true
				}
			case *hwp5.EquationControl:
				used[FeatureEquation] = true
			case *hwp5.ShapeControl:
				used[FeatureShape] = true
			}
		}
	})

	var out []string
	for _, f := range []string{FeatureBinData, FeatureHeaderFooter, FeatureEquation, FeatureShape, FeatureSummaryInfo} {
		if used[f] {
			out = append(out, f)
		}
	}
	return out
}

// Check fails with hwp5.ErrUnsupportedFeature naming the first disabled feature doc uses.
func (c Capabilities) Check(doc *hwp5.Document) error {
	for _, f := range Features(doc) {
		if !c.Enabled(f) {
			return fmt.Errorf("%w: %s", hwp5.ErrUnsupportedFeature, f)
		}
	}
	return nil
}
