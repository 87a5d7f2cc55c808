package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/roboco-io/hwpkit/internal/cfb"
	"github.com/roboco-io/hwpkit/internal/parser/hwp5"
)

var inspectVerify bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "HWP 문서 구조 요약",
	Long: `HWP 5.x 문서의 컨테이너 스트림, DocInfo 표, 구역과 문단 수를 표시합니다.

--verify를 지정하면 별도의 CFB 구현(mscfb)으로 모든 스트림을 다시 읽어
내용이 일치하는지 확인합니다.

예시:
  hwpkit inspect report.hwp
  hwpkit inspect report.hwp --verify`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectVerify, "verify", false, "mscfb로 컨테이너 교차 검증")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	c, err := cfb.Open(data)
	if err != nil {
		return fmt.Errorf("컨테이너 해석 실패: %w", err)
	}
	doc, err := hwp5.ReadContainer(c, hwp5.WithLogger(log))
	if err != nil {
		return fmt.Errorf("문서 파싱 실패: %w", err)
	}

	out := cmd.OutOrStdout()
	renderSummary(out, doc)
	renderStreams(out, c)
	renderDocInfo(out, doc.DocInfo)
	renderControls(out, doc)

	if inspectVerify {
		mismatches, err := cfb.Verify(data)
		for _, m := range mismatches {
			warnColor.Fprintf(out, "불일치 %s: %s\n", m.Path, m.Reason)
		}
		if err != nil {
			return err
		}
		okColor.Fprintf(out, "검증 완료: 스트림 %d개 일치\n", len(c.Streams()))
	}
	return nil
}

func newTable(out io.Writer, title string) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetTitle(title)
	tw.SetStyle(table.StyleLight)
	return tw
}

func renderSummary(out io.Writer, doc *hwp5.Document) {
	body, all := 0, 0
	for _, sec := range doc.Sections {
		body += len(sec.Paragraphs)
	}
	doc.Walk(func(*hwp5.Paragraph) { all++ })

	tw := newTable(out, "문서")
	tw.AppendRow(table.Row{"버전", doc.Header.Version.String()})
	tw.AppendRow(table.Row{"속성", strings.Join(doc.Header.FlagNames(), ", ")})
	tw.AppendRow(table.Row{"구역", len(doc.Sections)})
	tw.AppendRow(table.Row{"본문 문단", body})
	tw.AppendRow(table.Row{"전체 문단", all})
	tw.AppendRow(table.Row{"BinData", len(doc.BinData)})
	if s := doc.Summary; s != nil {
		tw.AppendRow(table.Row{"제목", s.Title()})
		tw.AppendRow(table.Row{"작성자", s.Author()})
	}
	tw.Render()
	log.Debug("inspect", zap.Int("sections", len(doc.Sections)), zap.Int("paragraphs", all))
}

func renderStreams(out io.Writer, c *cfb.Container) {
	tw := newTable(out, "스트림")
	tw.AppendHeader(table.Row{"경로", "종류", "크기"})
	var total uint64
	for _, e := range c.Entries() {
		if e.Type == cfb.TypeRoot {
			continue
		}
		tw.AppendRow(table.Row{e.Path, e.Type.String(), e.Size})
		total += e.Size
	}
	tw.AppendFooter(table.Row{"합계", fmt.Sprintf("섹터 %d", c.SectorSize()), total})
	tw.Render()
}

func renderDocInfo(out io.Writer, info *hwp5.DocInfo) {
	tw := newTable(out, "DocInfo")
	tw.AppendHeader(table.Row{"표", "개수"})
	tw.AppendRows([]table.Row{
		{"BinData", len(info.BinData)},
		{"글꼴", len(info.FaceNames)},
		{"테두리/배경", len(info.BorderFills)},
		{"글자 모양", len(info.CharShapes)},
		{"탭 정의", len(info.TabDefs)},
		{"문단 번호", len(info.Numberings)},
		{"글머리표", len(info.Bullets)},
		{"문단 모양", len(info.ParaShapes)},
		{"스타일", len(info.Styles)},
	})
	tw.Render()
}

func renderControls(out io.Writer, doc *hwp5.Document) {
	counts := map[string]int{}
	doc.Walk(func(p *hwp5.Paragraph) {
		for _, c := range p.Controls {
			counts[hwp5.CtrlIDString(c.CtrlID())]++
		}
	})
	if len(counts) == 0 {
		return
	}
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	tw := newTable(out, "컨트롤")
	tw.AppendHeader(table.Row{"ID", "개수"})
	for _, id := range ids {
		tw.AppendRow(table.Row{id, counts[id]})
	}
	tw.Render()
}
