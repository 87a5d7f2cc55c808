package hwp5

import (
	"fmt"

	"go.uber.org/zap"
)

// Build assembles a document from already decompressed FileHeader, DocInfo and
// section streams. Every formatting reference is checked against its table.
func Build(header, docInfo []byte, sections [][]byte, opts ...Option) (*Document, error) {
	o := newReadOptions(opts)

	fh, err := ParseFileHeader(header)
	if err != nil {
		return nil, err
	}
	if err := fh.Validate(); err != nil {
		return nil, err
	}

	info, err := ParseDocInfo(docInfo, o.log)
	if err != nil {
		return nil, err
	}

	doc := &Document{Header: fh, DocInfo: info}
	for i, data := range sections {
		sec, err := NewSectionParser(o.log).Parse(data)
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}
		doc.Sections = append(doc.Sections, sec)
	}

	if err := Resolve(doc); err != nil {
		return nil, err
	}
	o.log.Debug("document built",
		zap.String("version", fh.Version.String()),
		zap.Int("sections", len(doc.Sections)))
	return doc, nil
}

// Resolve checks every id reference of the document against the DocInfo tables.
// Char shape, para shape and style ids are 0-based; border fill and BinData ids
// are 1-based with 0 meaning none.
func Resolve(doc *Document) error {
	r := resolver{info: doc.DocInfo}
	if r.info == nil {
		r.info = &DocInfo{}
	}
	if err := r.docInfo(); err != nil {
		return err
	}
	for si, sec := range doc.Sections {
		for pi, p := range sec.Paragraphs {
			if err := r.paragraph(p); err != nil {
				return fmt.Errorf("section %d paragraph %d: %w", si, pi, err)
			}
		}
	}
	return nil
}

type resolver struct {
	info *DocInfo
}

func dangling(table string, id, n int) error {
	return fmt.Errorf("%w: %s id %d (table has %d entries)", ErrDanglingReference, table, id, n)
}

func (r *resolver) zeroBased(table string, id, n int) error {
	if id < 0 || id >= n {
		return dangling(table, id, n)
	}
	return nil
}

func (r *resolver) oneBased(table string, id, n int) error {
	if id != 0 && id > n {
		return dangling(table, id, n)
	}
	return nil
}

func (r *resolver) docInfo() error {
	info := r.info
	for i, cs := range info.CharShapes {
		for lang := range LangCount {
			if n := len(info.FaceGroup(lang)); int(cs.FaceID[lang]) >= n {
				return fmt.Errorf("char shape %d: %w", i, dangling("face name", int(cs.FaceID[lang]), n))
			}
		}
		if err := r.oneBased("border fill", int(cs.BorderFillID), len(info.BorderFills)); err != nil {
			return fmt.Errorf("char shape %d: %w", i, err)
		}
	}
	for i, ps := range info.ParaShapes {
		if err := r.oneBased("border fill", int(ps.BorderFillID), len(info.BorderFills)); err != nil {
			return fmt.Errorf("para shape %d: %w", i, err)
		}
	}
	for i, s := range info.Styles {
		if err := r.zeroBased("para shape", int(s.ParaShapeID), len(info.ParaShapes)); err != nil {
			return fmt.Errorf("style %d: %w", i, err)
		}
		if err := r.zeroBased("char shape", int(s.CharShapeID), len(info.CharShapes)); err != nil {
			return fmt.Errorf("style %d: %w", i, err)
		}
	}
	return nil
}

func (r *resolver) paragraph(p *Paragraph) error {
	info := r.info
	if err := r.zeroBased("para shape", int(p.Header.ParaShapeID), len(info.ParaShapes)); err != nil {
		return err
	}
	if err := r.zeroBased("style", int(p.Header.StyleID), len(info.Styles)); err != nil {
		return err
	}
	for _, run := range p.CharRuns {
		if err := r.zeroBased("char shape", int(run.ShapeID), len(info.CharShapes)); err != nil {
			return err
		}
	}
	for _, c := range p.Controls {
		if err := r.control(c); err != nil {
			return fmt.Errorf("control %q at %d: %w", CtrlIDString(c.CtrlID()), c.Anchor(), err)
		}
	}
	return nil
}

func (r *resolver) list(l *List) error {
	if l == nil {
		return nil
	}
	for i, p := range l.Paragraphs {
		if err := r.paragraph(p); err != nil {
			return fmt.Errorf("list paragraph %d: %w", i, err)
		}
	}
	return nil
}

func (r *resolver) control(c Control) error {
	fills := len(r.info.BorderFills)
	switch c := c.(type) {
	case *TableControl:
		if err := r.oneBased("border fill", int(c.BorderFillID), fills); err != nil {
			return err
		}
		if err := r.list(c.Caption); err != nil {
			return err
		}
		for i, cell := range c.Cells {
			if err := r.oneBased("border fill", int(cell.BorderFillID), fills); err != nil {
				return fmt.Errorf("cell %d: %w", i, err)
			}
			if err := r.list(&cell.List); err != nil {
				return fmt.Errorf("cell %d: %w", i, err)
			}
		}
	case *ShapeControl:
		if err := r.list(c.Caption); err != nil {
			return err
		}
		var err error
		c.Component.Walk(func(sc *ShapeComponent) {
			if err != nil {
				return
			}
			if err = r.oneBased("bin data", int(sc.BinDataID()), len(r.info.BinData)); err != nil {
				return
			}
			err = r.list(sc.TextBox)
		})
		return err
	case *EquationControl:
		return r.list(c.Caption)
	case *SubListControl:
		return r.list(c.List)
	}
	return nil
}
