// Package cli implements the hwpkit command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roboco-io/hwpkit/internal/cfb"
	"github.com/roboco-io/hwpkit/internal/config"
	"github.com/roboco-io/hwpkit/internal/extract"
	"github.com/roboco-io/hwpkit/internal/logger"
	"github.com/roboco-io/hwpkit/internal/parser"
	"github.com/roboco-io/hwpkit/internal/parser/hwp5"
)

var version = "dev"

var (
	configFile string
	debugFlag  bool

	settings = config.DefaultConfig()
	log      = zap.NewNop()
)

// 상태 출력 색상, 터미널이 아니면 fatih/color가 끈다
var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
)

var rootCmd = &cobra.Command{
	Use:   "hwpkit",
	Short: "HWP 5.x 문서 읽기, 레이아웃 복원, 쓰기 도구",
	Long: `hwpkit은 HWP 5.x 바이너리 문서를 읽고 분석하고 다시 씁니다.

복합 파일(CFB) 컨테이너, 압축, 레코드 스트림을 해석하여 문서 모델을 만들고
줄 배치를 복원하거나 HWP 파일로 다시 저장합니다. HWPX 문서는 텍스트 추출만 지원합니다.

예시:
  hwpkit inspect report.hwp
  hwpkit text report.hwp
  hwpkit layout report.hwp -o layout.json
  hwpkit rewrite report.hwp copy.hwp`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "버전 정보 표시",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "hwpkit %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "설정 파일 경로 (기본: ~/.hwpkit/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "디버그 로그 출력")

	rootCmd.AddCommand(versionCmd)
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

func newLoader() (*config.Loader, error) {
	return config.NewLoader(configFile)
}

func loadSettings(cmd *cobra.Command, args []string) error {
	loader, err := newLoader()
	if err != nil {
		return err
	}
	cfg, err := loader.LoadEffective()
	if err != nil {
		return fmt.Errorf("설정 로드 실패: %w", err)
	}
	if debugFlag {
		cfg.Log.Debug = true
	}
	settings = cfg
	log = logger.NewLoggerLevel(cfg.LogLevel())
	log.Debug("settings loaded", zap.String("config", loader.ConfigPath()))
	return nil
}

// Execute runs the root command and returns the process exit code. Failures are
// printed to stderr prefixed by their error kind.
func Execute() int {
	return run(rootCmd, nil)
}

func run(cmd *cobra.Command, stderr io.Writer) int {
	err := cmd.Execute()
	_ = log.Sync()
	if err == nil {
		return 0
	}
	if stderr == nil {
		stderr = cmd.ErrOrStderr()
	}
	fmt.Fprintf(stderr, "%s: %v\n", errColor.Sprint(errorKind(err)), err)
	return 1
}

// errorKind names err for the stderr report.
func errorKind(err error) string {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, parser.ErrUnknownFormat):
		return "UnknownFormat"
	case errors.Is(err, extract.ErrTextTooShort):
		return "TextTooShort"
	case errors.Is(err, cfb.ErrVerifyMismatch):
		return "VerifyMismatch"
	case errors.As(err, &pathErr):
		return "IOError"
	}
	if kind := hwp5.ErrorKind(err); kind != "IOError" {
		return kind
	}
	return "Error"
}
