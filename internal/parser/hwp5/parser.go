// Package hwp5 decodes and encodes HWP 5.x binary documents: the record streams
// inside the compound file, the DocInfo formatting tables and the body paragraphs
// with their controls.
package hwp5

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/roboco-io/hwpkit/internal/ir"
	"github.com/roboco-io/hwpkit/internal/parser"
)

// Parser converts an HWP 5.x document into the extraction IR.
type Parser struct {
	path    string
	doc     *Document
	options parser.Options
	log     *zap.Logger
}

// New reads the document at path.
func New(path string, opts parser.Options, log *zap.Logger) (*Parser, error) {
	if log == nil {
		log = zap.NewNop()
	}
	doc, err := ReadFile(path, WithLogger(log), WithLoadBinData(opts.ExtractImages))
	if err != nil {
		return nil, fmt.Errorf("HWP 문서를 읽을 수 없습니다: %w", err)
	}
	return &Parser{path: path, doc: doc, options: opts, log: log}, nil
}

// Document returns the decoded document.
func (p *Parser) Document() *Document {
	return p.doc
}

// Parse implements the parser.Parser interface.
func (p *Parser) Parse() (*ir.Document, error) {
	out := ir.NewDocument("hwp")
	out.Metadata = p.buildMetadata()

	for _, sec := range p.doc.Sections {
		out.BeginSection()
		for _, para := range sec.Paragraphs {
			p.convertParagraph(out, para)
		}
	}
	return out, nil
}

// Close releases resources. The file is already closed after New.
func (p *Parser) Close() error {
	return nil
}

func (p *Parser) convertParagraph(out *ir.Document, para *Paragraph) {
	if text := strings.TrimSpace(para.Text()); text != "" {
		irPara := ir.NewParagraph(text)
		p.addRuns(irPara, para)
		if ps := p.paraShape(para); ps != nil {
			irPara.Style.Alignment = alignmentName(ps.Alignment())
		}
		if id := int(para.Header.StyleID); id < len(p.doc.DocInfo.Styles) {
			irPara.Style.Name = p.doc.DocInfo.Styles[id].Name
			irPara.SetHeading(headingLevel(irPara.Style.Name))
		}
		out.AddParagraph(irPara)
	}

	for _, c := range para.Controls {
		switch c := c.(type) {
		case *TableControl:
			out.AddTable(p.convertTable(c))
		case *ShapeControl:
			c.Component.Walk(func(sc *ShapeComponent) {
				if sc.Kind == ShapePicture && p.options.ExtractImages {
					if img := p.convertPicture(sc, c); img != nil {
						out.AddImage(img)
					}
				}
				if sc.TextBox != nil {
					for _, tp := range sc.TextBox.Paragraphs {
						p.convertParagraph(out, tp)
					}
				}
			})
		}
	}
}

func (p *Parser) addRuns(irPara *ir.Paragraph, para *Paragraph) {
	for i, run := range para.CharRuns {
		end := para.RunEnd(i)
		text := VisibleText(para.Chars[run.Pos:end])
		if text == "" {
			continue
		}
		var style ir.TextStyle
		if int(run.ShapeID) < len(p.doc.DocInfo.CharShapes) {
			cs := p.doc.DocInfo.CharShapes[run.ShapeID]
			style = ir.TextStyle{
				Bold:          cs.IsBold(),
				Italic:        cs.IsItalic(),
				Underline:     cs.IsUnderline(),
				Strikethrough: cs.IsStrikeout(),
				Superscript:   cs.IsSuperscript(),
				Subscript:     cs.IsSubscript(),
				SizePt:        cs.FontSizePt(),
			}
		}
		irPara.AddRun(text, int(run.ShapeID), style)
	}
}

func (p *Parser) paraShape(para *Paragraph) *ParaShape {
	id := int(para.Header.ParaShapeID)
	if id < len(p.doc.DocInfo.ParaShapes) {
		return p.doc.DocInfo.ParaShapes[id]
	}
	return nil
}

// headingLevel maps outline style names ("개요 1", "Outline 2") to a level.
func headingLevel(name string) int {
	for _, prefix := range []string{"개요 ", "Outline "} {
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			if n, err := strconv.Atoi(rest); err == nil {
				return n
			}
		}
	}
	return 0
}

func alignmentName(a int) string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	}
	return "justify"
}

// convertTable converts a table control to an IR table block.
func (p *Parser) convertTable(t *TableControl) *ir.TableBlock {
	irTable := ir.NewTable(int(t.Rows), int(t.Cols))
	for _, cell := range t.Cells {
		var cellText strings.Builder
		for i, para := range cell.Paragraphs {
			if i > 0 {
				cellText.WriteString("\n")
			}
			cellText.WriteString(para.Text())
		}
		irTable.Place(int(cell.Row), int(cell.Col), ir.Cell{
			Text:    strings.TrimSpace(cellText.String()),
			RowSpan: int(cell.RowSpan),
			ColSpan: int(cell.ColSpan),
		})
	}
	if t.Caption != nil {
		var caption []string
		for _, para := range t.Caption.Paragraphs {
			caption = append(caption, strings.TrimSpace(para.Text()))
		}
		irTable.Caption = strings.Join(caption, " ")
	}

	// 첫 행을 헤더로 설정
	if t.Rows > 1 {
		irTable.SetHeaderRow()
	}
	return irTable
}

// convertPicture resolves a picture's BinData and optionally saves it under ImageDir.
func (p *Parser) convertPicture(sc *ShapeComponent, owner *ShapeControl) *ir.ImageBlock {
	id := int(sc.BinDataID())
	if id == 0 || id > len(p.doc.DocInfo.BinData) {
		return nil
	}
	info := p.doc.DocInfo.BinData[id-1]
	name := info.StreamName()

	img := ir.NewImage(strings.TrimSuffix(name, filepath.Ext(name)))
	img.OrigName = name
	img.Format = strings.ToLower(info.Extension)
	img.Alt = owner.Common.Description
	// HWPUNIT (1/7200 inch) → 96 dpi 픽셀
	img.SetDimensions(int(owner.Common.Width)*96/7200, int(owner.Common.Height)*96/7200)
	img.SetData(p.doc.BinData[name])

	if p.options.ImageDir != "" {
		if err := img.Save(p.options.ImageDir, name); err != nil {
			p.log.Warn("image write failed", zap.String("name", name), zap.Error(err))
		}
	}
	return img
}

// buildMetadata builds IR metadata from the summary information and file header.
func (p *Parser) buildMetadata() ir.Metadata {
	meta := ir.Metadata{}

	if s := p.doc.Summary; s != nil {
		meta.Title = s.Title()
		meta.Author = s.Author()
		meta.Subject = s.Get("Subject")
		meta.Keywords = s.Get("Keywords")
	}
	if meta.Title == "" {
		// 파일명에서 제목 추출
		base := filepath.Base(p.path)
		meta.Title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	meta.Creator = fmt.Sprintf("HWP %s", p.doc.Header.Version.String())
	return meta
}
