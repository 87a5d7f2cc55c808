// Package config manages application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/roboco-io/hwpkit/internal/layout"
	"github.com/roboco-io/hwpkit/internal/writer"
)

// Config represents the application configuration.
type Config struct {
	Log     LogConfig     `yaml:"log" toml:"log"`
	Layout  LayoutConfig  `yaml:"layout" toml:"layout"`
	Writer  WriterConfig  `yaml:"writer" toml:"writer"`
	Extract ExtractConfig `yaml:"extract" toml:"extract"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Debug bool   `yaml:"debug" toml:"debug"`
	Level string `yaml:"level" toml:"level"`
}

// LayoutConfig contains layout reconstruction options.
type LayoutConfig struct {
	PartialPolicy string  `yaml:"partial_policy" toml:"partial_policy"` // remainder | paragraph
	AdvanceRatio  float64 `yaml:"advance_ratio" toml:"advance_ratio"`
	DPI           float64 `yaml:"dpi" toml:"dpi"`
}

// WriterConfig contains serializer options.
type WriterConfig struct {
	Capabilities writer.Capabilities `yaml:"capabilities" toml:"capabilities"`
	Distribution bool                `yaml:"distribution" toml:"distribution"`
}

// ExtractConfig contains text and image extraction options.
type ExtractConfig struct {
	Images   bool   `yaml:"images" toml:"images"`
	ImageDir string `yaml:"image_dir,omitempty" toml:"image_dir,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "warn",
		},
		Layout: LayoutConfig{
			PartialPolicy: layout.PartialEstimateRemainder.String(),
			AdvanceRatio:  layout.DefaultAdvanceRatio,
			DPI:           96,
		},
		Writer: WriterConfig{
			Capabilities: writer.DefaultCapabilities(),
		},
	}
}

// Validate checks values that cannot be expressed by the YAML types alone.
func (c *Config) Validate() error {
	if _, ok := layout.ParsePartialPolicy(c.Layout.PartialPolicy); !ok {
		return fmt.Errorf("layout.partial_policy 값이 잘못되었습니다: %q", c.Layout.PartialPolicy)
	}
	if c.Layout.AdvanceRatio < 0 {
		return fmt.Errorf("layout.advance_ratio는 음수일 수 없습니다: %v", c.Layout.AdvanceRatio)
	}
	if c.Layout.DPI < 0 {
		return fmt.Errorf("layout.dpi는 음수일 수 없습니다: %v", c.Layout.DPI)
	}
	return nil
}

// LayoutOptions converts the layout section into layout.Layout options.
func (c *Config) LayoutOptions() []layout.Option {
	policy, _ := layout.ParsePartialPolicy(c.Layout.PartialPolicy)
	return []layout.Option{
		layout.WithPartialPolicy(policy),
		layout.WithAdvanceRatio(c.Layout.AdvanceRatio),
	}
}

// WriterOptions converts the writer section into writer options.
func (c *Config) WriterOptions() []writer.Option {
	return []writer.Option{
		writer.WithCapabilities(c.Writer.Capabilities),
		writer.WithDistribution(c.Writer.Distribution),
	}
}

// LogLevel returns the effective level name.
func (c *Config) LogLevel() string {
	if c.Log.Debug {
		return "debug"
	}
	if c.Log.Level == "" {
		return "warn"
	}
	return c.Log.Level
}

// Key describes one dotted key accepted by Set.
type Key struct {
	Name string
	Help string
}

// Keys lists the keys accepted by Set, in file order.
var Keys = []Key{
	{"log.debug", "디버그 로그 (true, false)"},
	{"log.level", "로그 수준 (debug, info, warn, error)"},
	{"layout.partial_policy", "일부만 저장된 줄 정보 처리 (remainder, paragraph)"},
	{"layout.advance_ratio", "글자 폭 추정 비율 (기본 0.5)"},
	{"layout.dpi", "요약 출력 해상도"},
	{"writer.distribution", "배포용 문서로 저장"},
	{"writer.capabilities.<기능>", "bin_data, header_footer, equation, shape, summary_info"},
	{"extract.images", "이미지 추출"},
	{"extract.image_dir", "이미지 저장 디렉토리"},
}

// Set assigns a value by dotted key, e.g. "layout.partial_policy" or
// "writer.capabilities.bin_data".
func (c *Config) Set(key, value string) error {
	switch key {
	case "log.debug":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Log.Debug = b
	case "log.level":
		c.Log.Level = value
	case "layout.partial_policy":
		if _, ok := layout.ParsePartialPolicy(value); !ok {
			return fmt.Errorf("알 수 없는 partial_policy: %s", value)
		}
		c.Layout.PartialPolicy = value
	case "layout.advance_ratio":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Layout.AdvanceRatio = f
	case "layout.dpi":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Layout.DPI = f
	case "writer.distribution":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Writer.Distribution = b
	case "extract.images":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.Extract.Images = b
	case "extract.image_dir":
		c.Extract.ImageDir = value
	default:
		feature, ok := strings.CutPrefix(key, "writer.capabilities.")
		if !ok {
			return fmt.Errorf("알 수 없는 설정 키: %s", key)
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		return c.Writer.Capabilities.Set(feature, b)
	}
	return c.Validate()
}

// 환경 변수 재정의
const (
	EnvDebug         = "HWPKIT_DEBUG"
	EnvPartialPolicy = "HWPKIT_PARTIAL_POLICY"
)

// ApplyEnv overrides values from HWPKIT_* environment variables. An unknown
// partial policy is ignored.
func (c *Config) ApplyEnv() {
	if envBool(EnvDebug) {
		c.Log.Debug = true
	}
	if v := os.Getenv(EnvPartialPolicy); v != "" {
		if _, ok := layout.ParsePartialPolicy(v); ok {
			c.Layout.PartialPolicy = v
		}
	}
}

// envBool accepts strconv.ParseBool values plus "yes".
func envBool(key string) bool {
	v := os.Getenv(key)
	if strings.EqualFold(v, "yes") {
		return true
	}
	b, _ := strconv.ParseBool(v)
	return b
}
