package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roboco-io/hwpkit/internal/layout"
	"github.com/roboco-io/hwpkit/internal/parser/hwp5"
)

var (
	layoutOutput  string
	layoutPolicy  string
	layoutRatio   float64
	layoutSummary bool
)

var layoutCmd = &cobra.Command{
	Use:   "layout <file>",
	Short: "문단 줄 배치 복원",
	Long: `HWP 5.x 문서의 각 문단에 대해 줄 상자(위치, 크기, 글자 모양 구간)를 계산합니다.

저장된 줄 정보(PARA_LINE_SEG)가 본문과 맞으면 그대로 쓰고, 없거나 맞지 않으면
글자 모양과 문단 모양으로 추정합니다. 좌표 단위는 HWPUNIT(1/7200 인치)입니다.

예시:
  hwpkit layout report.hwp
  hwpkit layout report.hwp --partial-policy paragraph -o layout.json
  hwpkit layout report.hwp --summary`,
	Args: cobra.ExactArgs(1),
	RunE: runLayout,
}

func init() {
	layoutCmd.Flags().StringVarP(&layoutOutput, "output", "o", "", "출력 파일 경로 (기본: stdout)")
	layoutCmd.Flags().StringVar(&layoutPolicy, "partial-policy", "", "일부만 저장된 줄 정보 처리 (remainder, paragraph)")
	layoutCmd.Flags().Float64Var(&layoutRatio, "advance-ratio", 0, "글자 폭 추정 비율 (기본: 설정값)")
	layoutCmd.Flags().BoolVar(&layoutSummary, "summary", false, "JSON 대신 문단별 요약 표 출력")

	rootCmd.AddCommand(layoutCmd)
}

func runLayout(cmd *cobra.Command, args []string) error {
	opts := append(settings.LayoutOptions(), layout.WithLogger(log))
	if layoutPolicy != "" {
		p, ok := layout.ParsePartialPolicy(layoutPolicy)
		if !ok {
			return fmt.Errorf("알 수 없는 partial-policy: %s", layoutPolicy)
		}
		opts = append(opts, layout.WithPartialPolicy(p))
	}
	if layoutRatio > 0 {
		opts = append(opts, layout.WithAdvanceRatio(layoutRatio))
	}

	doc, err := hwp5.ReadFile(args[0], hwp5.WithLogger(log))
	if err != nil {
		return fmt.Errorf("문서 파싱 실패: %w", err)
	}
	res, err := layout.Layout(doc, opts...)
	if err != nil {
		return fmt.Errorf("레이아웃 실패: %w", err)
	}
	for _, w := range res.Warnings {
		log.Warn("layout", zap.String("paragraph", string(w.Paragraph)), zap.String("message", w.Message))
	}

	if layoutSummary {
		renderLayoutSummary(cmd, res)
		return nil
	}
	output, err := marshalJSON(res)
	if err != nil {
		return fmt.Errorf("출력 포맷팅 실패: %w", err)
	}
	return writeOutput(cmd, layoutOutput, output, "레이아웃 저장 완료")
}

func renderLayoutSummary(cmd *cobra.Command, res *layout.Result) {
	dpi := settings.Layout.DPI
	if dpi <= 0 {
		dpi = 96
	}
	tw := newTable(cmd.OutOrStdout(), fmt.Sprintf("레이아웃 (%.0f dpi)", dpi))
	tw.AppendHeader(table.Row{"문단", "종류", "줄", "추정", "위(px)", "아래(px)", "쪽"})
	estimated := 0
	for _, p := range res.Paragraphs {
		est, page := 0, 0
		for _, l := range p.Lines {
			if l.Source == layout.SourceEstimated {
				est++
			}
			page = l.Page
		}
		estimated += est
		tw.AppendRow(table.Row{
			p.ID, p.Kind, len(p.Lines), est,
			fmt.Sprintf("%.1f", layout.ToPixels(p.Top(), dpi)),
			fmt.Sprintf("%.1f", layout.ToPixels(p.Bottom(), dpi)),
			page + 1,
		})
	}
	tw.AppendFooter(table.Row{"합계", "", len(res.Paragraphs), estimated, "", "", ""})
	tw.Render()
	if len(res.Warnings) > 0 {
		warnColor.Fprintf(cmd.OutOrStdout(), "경고 %d건\n", len(res.Warnings))
	}
}
