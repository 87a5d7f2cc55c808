// Package hwpx reads HWPX (OWPML) documents into the extraction IR. An HWPX file is
// a ZIP package holding a content.hpf manifest and one XML file per section.
package hwpx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zip"
	"go.uber.org/zap"

	"github.com/roboco-io/hwpkit/internal/ir"
	"github.com/roboco-io/hwpkit/internal/parser"
)

// manifest 위치 후보
var manifestPaths = []string{"Contents/content.hpf", "content.hpf"}

// Parser parses HWPX documents.
type Parser struct {
	path    string
	reader  *zip.ReadCloser
	files   map[string]*zip.File
	options parser.Options
	log     *zap.Logger

	manifest *Manifest
	sections []string
	binData  map[string]string // binItem id -> 패키지 경로
}

// New opens the package at path and resolves its sections.
func New(path string, opts parser.Options, log *zap.Logger) (*Parser, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("HWPX 파일을 열 수 없습니다: %w", err)
	}

	p := &Parser{
		path:    path,
		reader:  r,
		files:   make(map[string]*zip.File, len(r.File)),
		options: opts,
		log:     log,
		binData: make(map[string]string),
	}
	for _, f := range r.File {
		p.files[strings.ToLower(f.Name)] = f
	}

	if err := p.parseManifest(); err != nil {
		r.Close()
		return nil, err
	}
	if len(p.sections) == 0 {
		r.Close()
		return nil, errors.New("HWPX 패키지에 구역 파일이 없습니다")
	}
	return p, nil
}

// Parse implements the parser.Parser interface.
func (p *Parser) Parse() (*ir.Document, error) {
	doc := ir.NewDocument("hwpx")
	if p.manifest != nil {
		doc.Metadata = p.manifest.ToMetadata()
	}

	for _, name := range p.sections {
		doc.BeginSection()
		if err := p.parseSection(doc, name); err != nil {
			return nil, fmt.Errorf("구역 %s: %w", name, err)
		}
	}
	p.log.Debug("hwpx parsed", zap.Int("sections", len(p.sections)), zap.Int("blocks", len(doc.Content)))
	return doc, nil
}

// Close releases resources.
func (p *Parser) Close() error {
	if p.reader != nil {
		return p.reader.Close()
	}
	return nil
}

// Sections returns the resolved section file names in reading order.
func (p *Parser) Sections() []string {
	return p.sections
}

func (p *Parser) file(name string) *zip.File {
	return p.files[strings.ToLower(strings.TrimPrefix(name, "/"))]
}

// resolve finds a manifest href in the package. Hrefs are relative to the package
// root or to Contents/.
func (p *Parser) resolve(href string) (string, bool) {
	for _, name := range []string{href, path.Join("Contents", href)} {
		if f := p.file(name); f != nil {
			return f.Name, true
		}
	}
	return "", false
}

func (p *Parser) parseManifest() error {
	var mf *zip.File
	for _, name := range manifestPaths {
		if mf = p.file(name); mf != nil {
			break
		}
	}
	if mf == nil {
		p.scanSections()
		return nil
	}

	data, err := readAll(mf)
	if err != nil {
		return fmt.Errorf("manifest 읽기 실패: %w", err)
	}
	m, err := ParseManifest(data)
	if err != nil {
		return fmt.Errorf("manifest 파싱 실패: %w", err)
	}
	p.manifest = m

	for _, href := range m.GetSectionPaths() {
		if name, ok := p.resolve(href); ok {
			p.sections = append(p.sections, name)
		} else {
			p.log.Warn("manifest section missing", zap.String("href", href))
		}
	}
	for id, href := range m.binItems() {
		if name, ok := p.resolve(href); ok {
			p.binData[id] = name
		}
	}
	if len(p.sections) == 0 {
		p.scanSections()
	}
	return nil
}

// scanSections falls back to the archive listing when there is no usable manifest.
func (p *Parser) scanSections() {
	p.sections = p.sections[:0]
	for _, f := range p.reader.File {
		if sectionNumber(f.Name) >= 0 {
			p.sections = append(p.sections, f.Name)
		}
		if dir, base := path.Split(f.Name); path.Base(dir) == "BinData" {
			id := strings.TrimSuffix(base, path.Ext(base))
			p.binData[id] = f.Name
		}
	}
	sortSections(p.sections)
}

func (p *Parser) parseSection(doc *ir.Document, name string) error {
	f := p.file(name)
	if f == nil {
		return fmt.Errorf("section file not found: %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	s := &sectionState{p: p, doc: doc}
	return s.run(xml.NewDecoder(rc))
}

// paraCtx is an open <p>; blocks nested in it are emitted after its text.
type paraCtx struct {
	para    *ir.Paragraph
	pending []any
}

type cellCtx struct {
	text             strings.Builder
	row, col         int
	rowSpan, colSpan int
}

type tableCtx struct {
	rows, cols int
	paraDepth  int
	row, col   int
	cells      []*cellCtx
	cur        *cellCtx
}

type sectionState struct {
	p      *Parser
	doc    *ir.Document
	paras  []*paraCtx
	tables []*tableCtx
	pic    *ir.ImageBlock
	shape  int
	inText bool
}

func (s *sectionState) run(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("XML parse error: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			s.start(t)
		case xml.EndElement:
			s.end(t.Name.Local)
		case xml.CharData:
			if s.inText {
				s.text(string(t))
			}
		}
	}
}

func (s *sectionState) start(t xml.StartElement) {
	switch t.Name.Local {
	case "p":
		s.paras = append(s.paras, &paraCtx{para: ir.NewParagraph("")})
	case "run":
		s.shape = attrInt(t, "charPrIDRef", 0)
	case "t":
		s.inText = true
	case "tab":
		s.text("\t")
	case "lineBreak":
		s.text("\n")
	case "br":
		if attr(t, "type") == "" || attr(t, "type") == "line" {
			s.text("\n")
		}
	case "tbl":
		s.tables = append(s.tables, &tableCtx{
			rows:      attrInt(t, "rowCnt", 0),
			cols:      attrInt(t, "colCnt", 0),
			paraDepth: len(s.paras),
			row:       -1,
		})
	case "tr":
		if tc := s.table(); tc != nil {
			tc.row++
			tc.col = 0
		}
	case "tc":
		if tc := s.table(); tc != nil {
			tc.cur = &cellCtx{
				row:     max(tc.row, 0),
				col:     tc.col,
				rowSpan: attrInt(t, "rowSpan", 1),
				colSpan: attrInt(t, "gridSpan", 1),
			}
		}
	case "cellAddr":
		if tc := s.table(); tc != nil && tc.cur != nil {
			tc.cur.col = attrInt(t, "colAddr", tc.cur.col)
			tc.cur.row = attrInt(t, "rowAddr", tc.cur.row)
		}
	case "cellSpan":
		if tc := s.table(); tc != nil && tc.cur != nil {
			tc.cur.colSpan = attrInt(t, "colSpan", tc.cur.colSpan)
			tc.cur.rowSpan = attrInt(t, "rowSpan", tc.cur.rowSpan)
		}
	case "pic":
		s.pic = ir.NewImage("")
	case "img", "image":
		id := attr(t, "binaryItemIDRef")
		if id == "" {
			id = attr(t, "binItemIDRef")
		}
		if s.pic != nil {
			s.pic.ID = id
		} else if id != "" {
			s.emit(s.p.image(id, ir.NewImage(id)))
		}
	case "sz", "curSz":
		if s.pic != nil && s.pic.Width == 0 {
			// HWPUNIT → 96 dpi 픽셀
			s.pic.Width = attrInt(t, "width", 0) * 96 / 7200
			s.pic.Height = attrInt(t, "height", 0) * 96 / 7200
		}
	}
}

func (s *sectionState) end(local string) {
	switch local {
	case "t":
		s.inText = false
	case "tc":
		if tc := s.table(); tc != nil && tc.cur != nil {
			tc.cells = append(tc.cells, tc.cur)
			tc.col = tc.cur.col + max(tc.cur.colSpan, 1)
			tc.cur = nil
		}
	case "tbl":
		if n := len(s.tables); n > 0 {
			tc := s.tables[n-1]
			s.tables = s.tables[:n-1]
			s.emit(tc.build())
		}
	case "pic":
		if s.pic != nil {
			img := s.pic
			s.pic = nil
			if img.ID != "" {
				s.emit(s.p.image(img.ID, img))
			}
		}
	case "p":
		s.closeParagraph()
	}
}

func (s *sectionState) table() *tableCtx {
	if n := len(s.tables); n > 0 {
		return s.tables[n-1]
	}
	return nil
}

func (s *sectionState) text(v string) {
	if n := len(s.paras); n > 0 {
		s.paras[n-1].para.Append(v, s.shape)
	}
}

// emit attaches a finished block to the enclosing paragraph, or the document at top level.
func (s *sectionState) emit(block any) {
	switch b := block.(type) {
	case *ir.TableBlock:
		if b == nil {
			return
		}
	case *ir.ImageBlock:
		if b == nil {
			return
		}
	}
	if n := len(s.paras); n > 0 {
		s.paras[n-1].pending = append(s.paras[n-1].pending, block)
		return
	}
	s.add(block)
}

func (s *sectionState) add(block any) {
	switch b := block.(type) {
	case *ir.Paragraph:
		s.doc.AddParagraph(b)
	case *ir.TableBlock:
		s.doc.AddTable(b)
	case *ir.ImageBlock:
		s.doc.AddImage(b)
	}
}

func (s *sectionState) closeParagraph() {
	n := len(s.paras)
	if n == 0 {
		return
	}
	pc := s.paras[n-1]
	s.paras = s.paras[:n-1]
	pc.para.Text = strings.TrimRight(pc.para.Text, " ")

	// 표 셀 안의 문단은 셀 텍스트로 합친다
	if tc := s.table(); tc != nil && tc.cur != nil && len(s.paras) >= tc.paraDepth {
		if !pc.para.IsEmpty() {
			if tc.cur.text.Len() > 0 {
				tc.cur.text.WriteString("\n")
			}
			tc.cur.text.WriteString(pc.para.Text)
		}
		for _, b := range pc.pending {
			if t, ok := b.(*ir.TableBlock); ok {
				if tc.cur.text.Len() > 0 {
					tc.cur.text.WriteString("\n")
				}
				tc.cur.text.WriteString(t.Text())
			}
		}
		return
	}

	blocks := pc.pending
	if !pc.para.IsEmpty() {
		blocks = append([]any{pc.para}, blocks...)
	}
	for _, b := range blocks {
		if len(s.paras) > 0 {
			s.paras[len(s.paras)-1].pending = append(s.paras[len(s.paras)-1].pending, b)
		} else {
			s.add(b)
		}
	}
}

// build lays the collected cells onto a grid sized from rowCnt/colCnt or the
// cell addresses, whichever is larger.
func (tc *tableCtx) build() *ir.TableBlock {
	if len(tc.cells) == 0 {
		return nil
	}
	rows, cols := tc.rows, tc.cols
	for _, c := range tc.cells {
		rows = max(rows, c.row+max(c.rowSpan, 1))
		cols = max(cols, c.col+max(c.colSpan, 1))
	}
	table := ir.NewTable(rows, cols)
	for _, c := range tc.cells {
		table.Place(c.row, c.col, ir.Cell{
			Text:    strings.TrimSpace(c.text.String()),
			RowSpan: c.rowSpan,
			ColSpan: c.colSpan,
		})
	}
	if rows > 1 {
		table.SetHeaderRow()
	}
	return table
}

// image resolves a binItem id to its package entry and loads the payload when
// image extraction is on. Without extraction pictures are dropped.
func (p *Parser) image(id string, img *ir.ImageBlock) *ir.ImageBlock {
	if !p.options.ExtractImages {
		return nil
	}
	name, ok := p.binData[id]
	if !ok {
		p.log.Warn("unknown binItem", zap.String("id", id))
		return img
	}
	img.OrigName = path.Base(name)
	img.Format = strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))

	data, err := p.extractBinData(name)
	if err != nil {
		p.log.Warn("bin data", zap.String("name", name), zap.Error(err))
		return img
	}
	img.SetData(data)
	if p.options.ImageDir != "" {
		if err := img.Save(p.options.ImageDir, img.OrigName); err != nil {
			p.log.Warn("image write failed", zap.String("name", name), zap.Error(err))
		}
	}
	return img
}

// extractBinData reads binary data from the HWPX archive.
func (p *Parser) extractBinData(name string) ([]byte, error) {
	f := p.file(name)
	if f == nil {
		return nil, fmt.Errorf("binary data not found: %s", name)
	}
	return readAll(f)
}

func readAll(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func attrInt(t xml.StartElement, name string, def int) int {
	v, err := strconv.Atoi(attr(t, name))
	if err != nil {
		return def
	}
	return v
}
