package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roboco-io/hwpkit/internal/extract"
)

var (
	textOutput    string
	textRetrieval bool
)

var textCmd = &cobra.Command{
	Use:   "text <file>",
	Short: "정규화된 본문 텍스트 출력",
	Long: `HWP/HWPX 문서의 텍스트를 추출하여 정규화(NFC, 줄 앞뒤 공백 제거, 빈 줄 제거)한 뒤 출력합니다.

--retrieval을 지정하면 정규화된 텍스트가 50자 미만인 문서를 오류로 처리합니다.

예시:
  hwpkit text report.hwp
  hwpkit text report.hwpx -o report.txt
  hwpkit text report.hwp --retrieval`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

func init() {
	textCmd.Flags().StringVarP(&textOutput, "output", "o", "", "출력 파일 경로 (기본: stdout)")
	textCmd.Flags().BoolVar(&textRetrieval, "retrieval", false, "검색 색인용: 짧은 문서 거부")

	rootCmd.AddCommand(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	fn := extract.File
	if textRetrieval {
		fn = extract.ForRetrieval
	}
	text, err := fn(args[0], extract.WithLogger(log))
	if err != nil {
		return fmt.Errorf("텍스트 추출 실패: %w", err)
	}
	return writeOutput(cmd, textOutput, text, "텍스트 저장 완료")
}
