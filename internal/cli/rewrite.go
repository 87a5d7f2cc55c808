package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roboco-io/hwpkit/internal/parser/hwp5"
	"github.com/roboco-io/hwpkit/internal/writer"
)

var (
	rewriteAllow        []string
	rewriteDistribution bool
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite <input> <output>",
	Short: "HWP 문서를 읽어 다시 저장",
	Long: `HWP 5.x 문서를 문서 모델로 읽은 뒤 새 복합 파일로 직렬화합니다.

설정의 writer.capabilities에서 꺼진 기능(bin_data, header_footer, equation,
shape, summary_info)을 쓰는 문서는 불완전하게 저장하지 않고 오류로 거부합니다.
--allow로 이번 실행에만 기능을 켤 수 있습니다.

예시:
  hwpkit rewrite report.hwp copy.hwp
  hwpkit rewrite report.hwp copy.hwp --allow bin_data,header_footer
  hwpkit rewrite report.hwp dist.hwp --distribution`,
	Args: cobra.ExactArgs(2),
	RunE: runRewrite,
}

func init() {
	rewriteCmd.Flags().StringSliceVar(&rewriteAllow, "allow", nil, "추가로 허용할 기능 (쉼표 구분)")
	rewriteCmd.Flags().BoolVar(&rewriteDistribution, "distribution", false, "배포용 문서로 저장 (ViewText 암호화)")

	rootCmd.AddCommand(rewriteCmd)
}

func runRewrite(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]

	caps := settings.Writer.Capabilities
	for _, f := range rewriteAllow {
		if err := caps.Set(strings.TrimSpace(f), true); err != nil {
			return err
		}
	}

	doc, err := hwp5.ReadFile(in, hwp5.WithLogger(log), hwp5.WithLoadBinData(caps.BinData))
	if err != nil {
		return fmt.Errorf("문서 파싱 실패: %w", err)
	}
	log.Debug("rewrite", zap.Strings("features", writer.Features(doc)))

	err = writer.Write(out, doc,
		writer.WithCapabilities(caps),
		writer.WithDistribution(rewriteDistribution || settings.Writer.Distribution),
		writer.WithLogger(log),
	)
	if err != nil {
		return fmt.Errorf("문서 저장 실패: %w", err)
	}
	okColor.Fprintf(cmd.ErrOrStderr(), "저장 완료: %s\n", out)
	return nil
}
