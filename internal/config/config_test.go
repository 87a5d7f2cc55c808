package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/roboco-io/hwpkit/internal/layout"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Layout.PartialPolicy != "remainder" {
		t.Errorf("expected partial policy 'remainder', got %s", cfg.Layout.PartialPolicy)
	}
	if cfg.Layout.AdvanceRatio != layout.DefaultAdvanceRatio {
		t.Errorf("expected advance ratio %v, got %v", layout.DefaultAdvanceRatio, cfg.Layout.AdvanceRatio)
	}
	if cfg.Writer.Capabilities.BinData {
		t.Error("expected bin_data capability to be disabled by default")
	}
	if !cfg.Writer.Capabilities.Equation {
		t.Error("expected equation capability to be enabled by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_Set(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Set("layout.partial_policy", "paragraph"); err != nil {
		t.Fatalf("set partial_policy: %v", err)
	}
	if cfg.Layout.PartialPolicy != "paragraph" {
		t.Errorf("expected 'paragraph', got %s", cfg.Layout.PartialPolicy)
	}

	if err := cfg.Set("writer.capabilities.bin_data", "true"); err != nil {
		t.Fatalf("set bin_data: %v", err)
	}
	if !cfg.Writer.Capabilities.BinData {
		t.Error("expected bin_data to be enabled")
	}

	if err := cfg.Set("layout.dpi", "300"); err != nil {
		t.Fatalf("set dpi: %v", err)
	}
	if cfg.Layout.DPI != 300 {
		t.Errorf("expected dpi 300, got %v", cfg.Layout.DPI)
	}

	if err := cfg.Set("layout.partial_policy", "guess"); err == nil {
		t.Error("expected error for unknown partial policy")
	}
	if err := cfg.Set("writer.capabilities.fonts", "true"); err == nil {
		t.Error("expected error for unknown capability")
	}
	if err := cfg.Set("nope", "1"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := cfg.Set("log.debug", "maybe"); err == nil {
		t.Error("expected error for invalid bool")
	}
}

func TestConfig_LogLevel(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LogLevel() != "warn" {
		t.Errorf("expected 'warn', got %s", cfg.LogLevel())
	}
	cfg.Log.Debug = true
	if cfg.LogLevel() != "debug" {
		t.Errorf("expected 'debug', got %s", cfg.LogLevel())
	}
}

func TestConfig_Options(t *testing.T) {
	cfg := DefaultConfig()
	if len(cfg.LayoutOptions()) != 2 {
		t.Error("expected two layout options")
	}
	if len(cfg.WriterOptions()) != 2 {
		t.Error("expected two writer options")
	}
}

func TestLoader_SaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	loader := mustLoader(t, configPath)

	cfg := DefaultConfig()
	cfg.Layout.PartialPolicy = "paragraph"
	cfg.Writer.Capabilities.SummaryInfo = true

	if err := loader.Save(cfg); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	if !loader.Exists() {
		t.Error("expected config file to exist after save")
	}

	loaded, err := loader.LoadRaw()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Layout.PartialPolicy != "paragraph" {
		t.Errorf("expected partial policy 'paragraph', got %s", loaded.Layout.PartialPolicy)
	}
	if !loaded.Writer.Capabilities.SummaryInfo {
		t.Error("expected summary_info capability to survive save/load")
	}
}

func TestLoader_LoadNonExistent(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nonexistent", "config.yaml")

	loader := mustLoader(t, configPath)

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("expected no error for non-existent file, got: %v", err)
	}

	if cfg.Layout.DPI != 96 {
		t.Errorf("expected default dpi 96, got %v", cfg.Layout.DPI)
	}
}

func TestLoader_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `layout:
  partial_policy: paragraph
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := mustLoader(t, configPath).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Layout.PartialPolicy != "paragraph" {
		t.Errorf("expected 'paragraph', got %s", cfg.Layout.PartialPolicy)
	}
	if cfg.Layout.AdvanceRatio != layout.DefaultAdvanceRatio {
		t.Errorf("expected default advance ratio, got %v", cfg.Layout.AdvanceRatio)
	}
	if !cfg.Writer.Capabilities.Shape {
		t.Error("expected default shape capability to be kept")
	}
}

func TestLoader_ExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_IMAGE_DIR", "/tmp/hwp-images")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `extract:
  images: true
  image_dir: ${TEST_IMAGE_DIR}
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := mustLoader(t, configPath).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Extract.ImageDir != "/tmp/hwp-images" {
		t.Errorf("expected image dir '/tmp/hwp-images', got %s", cfg.Extract.ImageDir)
	}
}

func TestExpandEnvVars_UnsetVar(t *testing.T) {
	os.Unsetenv("UNSET_VAR_FOR_TEST")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `extract:
  image_dir: ${UNSET_VAR_FOR_TEST}
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := mustLoader(t, configPath).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Extract.ImageDir != "" {
		t.Errorf("expected empty image dir for unset env var, got %s", cfg.Extract.ImageDir)
	}
}

func TestLoader_LoadEffective(t *testing.T) {
	t.Setenv("HWPKIT_DEBUG", "1")
	t.Setenv("HWPKIT_PARTIAL_POLICY", "paragraph")

	loader := mustLoader(t, filepath.Join(t.TempDir(), "config.yaml"))
	cfg, err := loader.LoadEffective()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if !cfg.Log.Debug {
		t.Error("expected HWPKIT_DEBUG to enable debug logging")
	}
	if cfg.Layout.PartialPolicy != "paragraph" {
		t.Errorf("expected env partial policy, got %s", cfg.Layout.PartialPolicy)
	}
}

func TestLoader_LoadInvalidPolicy(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("layout:\n  partial_policy: guess\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := mustLoader(t, configPath).Load(); err == nil {
		t.Error("expected validation error for unknown partial policy")
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value    string
		expected bool
	}{
		{"true", true},
		{"TRUE", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"", false},
		{"invalid", false},
	}

	for _, tc := range tests {
		t.Setenv("TEST_BOOL", tc.value)
		if got := envBool("TEST_BOOL"); got != tc.expected {
			t.Errorf("envBool(%q): expected %v, got %v", tc.value, tc.expected, got)
		}
	}
}

func TestApplyEnv_IgnoresUnknownPolicy(t *testing.T) {
	t.Setenv(EnvPartialPolicy, "guess")

	cfg := DefaultConfig()
	cfg.ApplyEnv()
	if cfg.Layout.PartialPolicy != "remainder" {
		t.Errorf("expected default policy to be kept, got %s", cfg.Layout.PartialPolicy)
	}
}

func TestDefaultPath(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath() error = %v", err)
	}
	if filepath.Base(path) != "config.yaml" || filepath.Base(filepath.Dir(path)) != ".hwpkit" {
		t.Errorf("unexpected default path %s", path)
	}

	custom := filepath.Join(t.TempDir(), "hwpkit.toml")
	t.Setenv(EnvConfigPath, custom)
	loader, err := NewLoader("")
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	if loader.ConfigPath() != custom || loader.Format() != "toml" {
		t.Errorf("expected %s as toml, got %s as %s", custom, loader.ConfigPath(), loader.Format())
	}
}

func TestLoader_Init(t *testing.T) {
	loader := mustLoader(t, filepath.Join(t.TempDir(), "config.yaml"))

	if err := loader.Init(false); err != nil {
		t.Fatalf("failed to init config: %v", err)
	}
	if !loader.Exists() {
		t.Error("expected config file to exist after init")
	}
	if err := loader.Init(false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("expected ErrConfigExists, got %v", err)
	}
	if err := loader.Init(true); err != nil {
		t.Errorf("forced init failed: %v", err)
	}

	// 임시 파일이 남지 않아야 한다
	entries, err := os.ReadDir(filepath.Dir(loader.ConfigPath()))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the config file, got %d entries", len(entries))
	}
}

func TestLoader_LoadInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("{{{{invalid yaml"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := mustLoader(t, configPath).Load(); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoader_TOML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `[layout]
partial_policy = "paragraph"
advance_ratio = 0.55

[writer.capabilities]
bin_data = true
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	loader := mustLoader(t, configPath)
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Layout.PartialPolicy != "paragraph" || cfg.Layout.AdvanceRatio != 0.55 {
		t.Errorf("unexpected layout config: %+v", cfg.Layout)
	}
	if !cfg.Writer.Capabilities.BinData || !cfg.Writer.Capabilities.Equation {
		t.Errorf("unexpected capabilities: %+v", cfg.Writer.Capabilities)
	}
	if cfg.Layout.DPI != 96 {
		t.Errorf("expected default dpi to survive, got %v", cfg.Layout.DPI)
	}

	cfg.Extract.ImageDir = "images"
	if err := loader.Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `image_dir = "images"`) {
		t.Errorf("expected TOML output, got:\n%s", data)
	}

	again, err := loader.Load()
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}
	if again.Extract.ImageDir != "images" || again.Layout.PartialPolicy != "paragraph" {
		t.Errorf("TOML round trip lost values: %+v", again)
	}
}

func mustLoader(t *testing.T, path string) *Loader {
	t.Helper()
	loader, err := NewLoader(path)
	if err != nil {
		t.Fatalf("NewLoader(%q) error = %v", path, err)
	}
	return loader
}
