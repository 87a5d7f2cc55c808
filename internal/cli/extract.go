package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roboco-io/hwpkit/internal/extract"
	"github.com/roboco-io/hwpkit/internal/ir"
	"github.com/roboco-io/hwpkit/internal/parser"
)

var (
	extractOutput      string
	extractFormat      string
	extractImagesFlag  bool
	extractImagesDir   string
	extractPrettyPrint bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "HWP/HWPX 문서에서 IR(중간 표현) 추출",
	Long: `HWP/HWPX 문서를 파싱하여 IR(Intermediate Representation)을 추출합니다.

형식은 확장자가 아니라 파일 앞부분의 매직 바이트로 판별합니다.
출력 형식은 JSON 또는 텍스트(요약)를 지원합니다.

예시:
  hwpkit extract report.hwp
  hwpkit extract report.hwpx -o output.json
  hwpkit extract report.hwp --format text
  hwpkit extract report.hwp --extract-images --images-dir ./images`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "출력 파일 경로 (기본: stdout)")
	extractCmd.Flags().StringVarP(&extractFormat, "format", "f", "json", "출력 형식 (json, text)")
	extractCmd.Flags().BoolVar(&extractImagesFlag, "extract-images", false, "이미지 추출 활성화")
	extractCmd.Flags().StringVar(&extractImagesDir, "images-dir", "", "추출된 이미지 저장 디렉토리")
	extractCmd.Flags().BoolVar(&extractPrettyPrint, "pretty", true, "JSON 들여쓰기 적용")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	opts := parser.Options{
		ExtractImages: extractImagesFlag || settings.Extract.Images,
		ImageDir:      extractImagesDir,
	}
	if opts.ImageDir == "" {
		opts.ImageDir = settings.Extract.ImageDir
	}

	doc, err := extract.Document(args[0], extract.WithLogger(log), extract.WithParserOptions(opts))
	if err != nil {
		return fmt.Errorf("문서 파싱 실패: %w", err)
	}

	output, err := formatOutput(doc, extractFormat)
	if err != nil {
		return fmt.Errorf("출력 포맷팅 실패: %w", err)
	}
	return writeOutput(cmd, extractOutput, output, "IR 추출 완료")
}

// writeOutput prints to stdout or writes the file and reports it on stderr.
func writeOutput(cmd *cobra.Command, path, output, done string) error {
	if path == "" {
		fmt.Fprintln(cmd.OutOrStdout(), output)
		return nil
	}
	if err := os.WriteFile(path, []byte(output), 0644); err != nil {
		return fmt.Errorf("파일 저장 실패: %w", err)
	}
	okColor.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", done, path)
	return nil
}

func marshalJSON(v any) (string, error) {
	var data []byte
	var err error
	if extractPrettyPrint {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func formatOutput(doc *ir.Document, format string) (string, error) {
	switch format {
	case "json":
		return marshalJSON(doc)
	case "text":
		return formatAsText(doc), nil
	default:
		return "", fmt.Errorf("지원하지 않는 출력 형식: %s", format)
	}
}

func formatAsText(doc *ir.Document) string {
	var b strings.Builder

	if doc.Metadata.Title != "" {
		fmt.Fprintf(&b, "제목: %s\n", doc.Metadata.Title)
	}
	if doc.Metadata.Author != "" {
		fmt.Fprintf(&b, "작성자: %s\n", doc.Metadata.Author)
	}
	if b.Len() > 0 {
		b.WriteString("\n---\n\n")
	}

	section := 0
	for _, block := range doc.Content {
		if block.Section != section {
			section = block.Section
			fmt.Fprintf(&b, "=== 구역 %d ===\n\n", section+1)
		}
		switch block.Type {
		case ir.BlockTypeParagraph:
			p := block.Paragraph
			if p.Style.HeadingLevel > 0 {
				b.WriteString(strings.Repeat("#", p.Style.HeadingLevel) + " ")
			}
			b.WriteString(p.Text + "\n\n")
		case ir.BlockTypeTable:
			b.WriteString(formatTableAsText(block.Table) + "\n")
		case ir.BlockTypeImage:
			alt := block.Image.Alt
			if alt == "" {
				alt = block.Image.ID
			}
			fmt.Fprintf(&b, "[이미지: %s]\n\n", alt)
		}
	}
	return b.String()
}

func formatTableAsText(t *ir.TableBlock) string {
	var b strings.Builder
	if t.Caption != "" {
		fmt.Fprintf(&b, "표: %s\n", t.Caption)
	}
	for i, row := range t.Cells {
		for j, cell := range row {
			if j > 0 {
				b.WriteString(" | ")
			}
			if !cell.Covered {
				b.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
			}
		}
		b.WriteString("\n")
		if i == 0 && t.HasHeader {
			for j := range row {
				if j > 0 {
					b.WriteString(" | ")
				}
				b.WriteString("---")
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}
