package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath overrides the default configuration file location.
	EnvConfigPath = "HWPKIT_CONFIG"

	defaultDir  = ".hwpkit"
	defaultFile = "config.yaml"
)

// ErrConfigExists is returned by Init when the file is already there.
var ErrConfigExists = errors.New("설정 파일이 이미 존재합니다")

// ${NAME} 참조만 치환한다. $NAME 형태는 경로에 흔하므로 그대로 둔다.
var envRef = regexp.MustCompile(`\$\{(\w+)\}`)

// codec encodes one configuration file format.
type codec struct {
	name      string
	unmarshal func([]byte, any) error
	marshal   func(any) ([]byte, error)
}

var (
	yamlCodec = codec{name: "yaml", unmarshal: yaml.Unmarshal, marshal: yaml.Marshal}
	tomlCodec = codec{name: "toml", unmarshal: toml.Unmarshal, marshal: marshalTOML}
)

func marshalTOML(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func codecFor(path string) codec {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return tomlCodec
	}
	return yamlCodec
}

// DefaultPath returns $HWPKIT_CONFIG, or ~/.hwpkit/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("홈 디렉토리를 찾을 수 없습니다: %w", err)
	}
	return filepath.Join(home, defaultDir, defaultFile), nil
}

// Loader reads and writes one configuration file. The format follows the
// extension: .toml is TOML, anything else YAML.
type Loader struct {
	path  string
	codec codec
}

// NewLoader returns a loader for path, or for DefaultPath when path is empty.
func NewLoader(path string) (*Loader, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &Loader{path: path, codec: codecFor(path)}, nil
}

// ConfigPath returns the configuration file path.
func (l *Loader) ConfigPath() string {
	return l.path
}

// Format returns "yaml" or "toml".
func (l *Loader) Format() string {
	return l.codec.name
}

// Exists reports whether the configuration file is present.
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.path)
	return err == nil
}

// read decodes the file over the defaults. A missing file yields the defaults.
func (l *Loader) read(expand bool) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("설정 파일 읽기 실패: %w", err)
	}
	if expand {
		data = expandEnv(data)
	}
	if err := l.codec.unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s 설정 파싱 실패 (%s): %w", l.codec.name, l.path, err)
	}
	return cfg, nil
}

// Load reads the file with ${VAR} references expanded and validates it.
func (l *Loader) Load() (*Config, error) {
	cfg, err := l.read(true)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEffective is Load followed by HWPKIT_* environment overrides.
func (l *Loader) LoadEffective() (*Config, error) {
	cfg, err := l.Load()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadRaw reads the file as written, keeping ${VAR} references for Save.
func (l *Loader) LoadRaw() (*Config, error) {
	return l.read(false)
}

// Save writes cfg through a temporary file in the same directory.
func (l *Loader) Save(cfg *Config) error {
	data, err := l.codec.marshal(cfg)
	if err != nil {
		return fmt.Errorf("설정 인코딩 실패: %w", err)
	}

	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("설정 디렉토리 생성 실패: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".hwpkit-*")
	if err != nil {
		return fmt.Errorf("설정 파일 쓰기 실패: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("설정 파일 쓰기 실패: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("설정 파일 쓰기 실패: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("설정 파일 쓰기 실패: %w", err)
	}
	return os.Rename(tmp.Name(), l.path)
}

// Init writes the default configuration. An existing file is kept unless force is set.
func (l *Loader) Init(force bool) error {
	if l.Exists() && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, l.path)
	}
	return l.Save(DefaultConfig())
}

// expandEnv replaces ${NAME} with the variable's value; unset names become empty.
func expandEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		return []byte(os.Getenv(string(ref[2 : len(ref)-1])))
	})
}
