package hwp5

import (
	"encoding/binary"
	"fmt"

	"go.uber.org/zap"
)

// scopeKind는 열려 있는 레코드 범위의 종류
type scopeKind int

const (
	scopeRoot scopeKind = iota
	scopePara
	scopeTable
	scopeShape
	scopeComponent
	scopeEquation
	scopeSectionDef
	scopeSubList
	scopeRaw  // 하위 레코드를 그대로 보관
	scopeSkip // 하위 레코드를 버림
)

// scope는 레벨로 식별되는 열린 범위. 레벨이 이 값 이하인 레코드가 오면 닫힌다.
type scope struct {
	kind  scopeKind
	level int

	para *Paragraph
	list *List // 자식 레벨의 PARA_HEADER가 들어갈 리스트

	table    *TableControl
	sawTable bool
	shape    *ShapeControl
	comp     *ShapeComponent
	eq       *EquationControl
	secd     *SectionDefControl
	sub      *SubListControl

	raw  *[]*Record // scopeRaw: 보관 대상
	base int        // scopeRaw: 상대 레벨 기준
}

// SectionParser parses BodyText section streams with an explicit scope stack.
type SectionParser struct {
	log   *zap.Logger
	stack []*scope
	sec   *Section
}

// NewSectionParser creates a new section parser.
func NewSectionParser(log *zap.Logger) *SectionParser {
	if log == nil {
		log = zap.NewNop()
	}
	return &SectionParser{log: log}
}

// Parse parses a decompressed section stream.
func (sp *SectionParser) Parse(data []byte) (*Section, error) {
	records, err := DecodeRecords(data)
	if err != nil {
		return nil, err
	}
	return sp.ParseRecords(records)
}

// ParseRecords builds a section from its flat record sequence.
func (sp *SectionParser) ParseRecords(records []*Record) (*Section, error) {
	sp.sec = &Section{}
	sp.stack = []*scope{{kind: scopeRoot, level: -1}}

	for i, rec := range records {
		level := int(rec.Level)
		for sp.top().level >= level {
			if err := sp.pop(); err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
		}
		if err := sp.dispatch(rec); err != nil {
			return nil, fmt.Errorf("record %d (%s, level %d): %w", i, TagName(rec.TagID), rec.Level, err)
		}
	}
	for len(sp.stack) > 1 {
		if err := sp.pop(); err != nil {
			return nil, err
		}
	}
	return sp.sec, nil
}

func (sp *SectionParser) top() *scope {
	return sp.stack[len(sp.stack)-1]
}

func (sp *SectionParser) push(s *scope) {
	sp.stack = append(sp.stack, s)
}

func (sp *SectionParser) pop() error {
	s := sp.top()
	sp.stack = sp.stack[:len(sp.stack)-1]
	if s.kind == scopePara {
		return s.para.finish()
	}
	return nil
}

func (sp *SectionParser) dispatch(rec *Record) error {
	s := sp.top()
	level := int(rec.Level)

	switch s.kind {
	case scopeRaw:
		*s.raw = append(*s.raw, NewRecord(rec.TagID, uint16(level-s.base), clone(rec.Data)))
		return nil
	case scopeSkip:
		return nil
	}

	if rec.TagID == TagParaHeader {
		return sp.openParagraph(s, rec)
	}

	switch s.kind {
	case scopePara:
		return sp.paraChild(s, rec)
	case scopeTable:
		switch rec.TagID {
		case TagTable:
			s.sawTable = true
			return s.table.parseTable(rec.Data)
		case TagListHeader:
			l, rest, err := parseListHeader(rec.Data)
			if err != nil {
				return err
			}
			if !s.sawTable {
				// TABLE 레코드 앞의 리스트는 캡션
				s.table.Caption = l
				s.list = l
				return nil
			}
			cell, err := parseCell(l, rest)
			if err != nil {
				return err
			}
			s.table.Cells = append(s.table.Cells, cell)
			s.list = &cell.List
			return nil
		}
		sp.keep(&s.table.Extra, s.level, rec)
	case scopeShape:
		switch rec.TagID {
		case TagShapeComponent:
			comp := &ShapeComponent{Raw: clone(rec.Data)}
			s.shape.Component = comp
			sp.push(&scope{kind: scopeComponent, level: level, comp: comp})
			return nil
		case TagListHeader:
			l, _, err := parseListHeader(rec.Data)
			if err != nil {
				return err
			}
			s.shape.Caption = l
			s.list = l
			return nil
		}
		sp.keep(&s.shape.Extra, s.level, rec)
	case scopeComponent:
		if kind, ok := shapeKindTags[rec.TagID]; ok && s.comp.Tag == 0 {
			s.comp.Kind = kind
			s.comp.Tag = rec.TagID
			s.comp.Data = clone(rec.Data)
			return nil
		}
		switch rec.TagID {
		case TagShapeComponent:
			child := &ShapeComponent{Raw: clone(rec.Data)}
			s.comp.Children = append(s.comp.Children, child)
			sp.push(&scope{kind: scopeComponent, level: level, comp: child})
			return nil
		case TagListHeader:
			l, _, err := parseListHeader(rec.Data)
			if err != nil {
				return err
			}
			s.comp.TextBox = l
			s.list = l
			return nil
		}
		sp.keep(&s.comp.Extra, s.level, rec)
	case scopeEquation:
		switch rec.TagID {
		case TagEqEdit:
			return s.eq.parseEqEdit(rec.Data)
		case TagListHeader:
			l, _, err := parseListHeader(rec.Data)
			if err != nil {
				return err
			}
			s.eq.Caption = l
			s.list = l
			return nil
		}
		sp.keep(&s.eq.Extra, s.level, rec)
	case scopeSectionDef:
		if rec.TagID == TagPageDef && s.secd.PageDef == nil {
			pd, err := parsePageDef(rec.Data)
			if err != nil {
				return err
			}
			s.secd.PageDef = pd
			return nil
		}
		sp.keep(&s.secd.Extra, s.level, rec)
	case scopeSubList:
		if rec.TagID == TagListHeader && s.sub.List == nil {
			l, _, err := parseListHeader(rec.Data)
			if err != nil {
				return err
			}
			s.sub.List = l
			s.list = l
			return nil
		}
		sp.keep(&s.sub.Extra, s.level, rec)
	case scopeRoot:
		sp.skip(rec)
	}
	return nil
}

// keep stores rec and its descendants verbatim with levels relative to base.
func (sp *SectionParser) keep(target *[]*Record, base int, rec *Record) {
	*target = append(*target, NewRecord(rec.TagID, rec.Level-uint16(base), clone(rec.Data)))
	sp.push(&scope{kind: scopeRaw, level: int(rec.Level), raw: target, base: base})
}

func (sp *SectionParser) skip(rec *Record) {
	sp.log.Debug("skipping record",
		zap.String("tag", TagName(rec.TagID)),
		zap.Uint16("level", rec.Level),
		zap.Uint32("size", rec.Size))
	sp.push(&scope{kind: scopeSkip, level: int(rec.Level)})
}

func (sp *SectionParser) openParagraph(s *scope, rec *Record) error {
	level := int(rec.Level)
	hdr, err := parseParaHeader(rec.Data)
	if err != nil {
		return err
	}
	para := &Paragraph{Header: hdr}

	switch {
	case s.kind == scopeRoot && level == 0:
		sp.sec.Paragraphs = append(sp.sec.Paragraphs, para)
	case s.kind != scopeRoot && s.kind != scopePara && level == s.level+1:
		if s.list == nil {
			return fmt.Errorf("%w: paragraph before LIST_HEADER", ErrMalformedRecord)
		}
		s.list.Paragraphs = append(s.list.Paragraphs, para)
	default:
		return fmt.Errorf("%w: paragraph at level %d inside %d", ErrMalformedRecord, level, s.level)
	}

	sp.push(&scope{kind: scopePara, level: level, para: para})
	return nil
}

func (sp *SectionParser) paraChild(s *scope, rec *Record) error {
	p := s.para
	switch rec.TagID {
	case TagParaText:
		p.Chars = BytesToUnits(rec.Data)
	case TagParaCharShape:
		p.CharRuns = parseCharRuns(rec.Data)
	case TagParaLineSeg:
		p.LineSegs = parseLineSegs(rec.Data)
	case TagParaRangeTag:
		p.RangeTags = parseRangeTags(rec.Data)
	case TagCtrlHeader:
		return sp.openControl(p, rec)
	default:
		sp.skip(rec)
	}
	return nil
}

func (sp *SectionParser) openControl(p *Paragraph, rec *Record) error {
	if len(rec.Data) < 4 {
		return fmt.Errorf("%w: CTRL_HEADER %d bytes", ErrMalformedRecord, len(rec.Data))
	}
	id := binary.LittleEndian.Uint32(rec.Data)
	body := rec.Data[4:]
	level := int(rec.Level)
	base := ControlBase{ID: id}

	switch {
	case id == CtrlTable:
		common, err := parseObjectCommon(body)
		if err != nil {
			return err
		}
		t := &TableControl{ControlBase: base, Common: common}
		p.Controls = append(p.Controls, t)
		sp.push(&scope{kind: scopeTable, level: level, table: t})
	case id == CtrlGSO:
		common, err := parseObjectCommon(body)
		if err != nil {
			return err
		}
		sc := &ShapeControl{ControlBase: base, Common: common}
		p.Controls = append(p.Controls, sc)
		sp.push(&scope{kind: scopeShape, level: level, shape: sc})
	case id == CtrlEquation:
		common, err := parseObjectCommon(body)
		if err != nil {
			return err
		}
		eq := &EquationControl{ControlBase: base, Common: common}
		p.Controls = append(p.Controls, eq)
		sp.push(&scope{kind: scopeEquation, level: level, eq: eq})
	case id == CtrlSection:
		sd := &SectionDefControl{ControlBase: base, Data: clone(body)}
		p.Controls = append(p.Controls, sd)
		sp.push(&scope{kind: scopeSectionDef, level: level, secd: sd})
	case isSubListCtrl(id):
		sub := &SubListControl{ControlBase: base, Data: clone(body)}
		p.Controls = append(p.Controls, sub)
		sp.push(&scope{kind: scopeSubList, level: level, sub: sub})
	default:
		g := &GenericControl{ControlBase: base, Data: clone(body)}
		p.Controls = append(p.Controls, g)
		sp.push(&scope{kind: scopeRaw, level: level, raw: &g.Children, base: level})
	}
	return nil
}
