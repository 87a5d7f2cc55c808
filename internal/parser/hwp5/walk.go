package hwp5

// Lists returns the paragraph lists owned by a control: caption first, then cells,
// text boxes or the sub list body.
func Lists(c Control) []*List {
	var out []*List
	switch ctl := c.(type) {
	case *TableControl:
		if ctl.Caption != nil {
			out = append(out, ctl.Caption)
		}
		for _, cell := range ctl.Cells {
			out = append(out, &cell.List)
		}
	case *ShapeControl:
		if ctl.Caption != nil {
			out = append(out, ctl.Caption)
		}
		if ctl.Component != nil {
			ctl.Component.Walk(func(sc *ShapeComponent) {
				if sc.TextBox != nil {
					out = append(out, sc.TextBox)
				}
			})
		}
	case *EquationControl:
		if ctl.Caption != nil {
			out = append(out, ctl.Caption)
		}
	case *SubListControl:
		if ctl.List != nil {
			out = append(out, ctl.List)
		}
	}
	return out
}

// Walk calls fn for every paragraph of the section, nested lists included, owners
// before the paragraphs they contain.
func (s *Section) Walk(fn func(*Paragraph)) {
	walkParagraphs(s.Paragraphs, fn)
}

// Walk calls fn for every paragraph of every section.
func (d *Document) Walk(fn func(*Paragraph)) {
	for _, s := range d.Sections {
		s.Walk(fn)
	}
}

func walkParagraphs(ps []*Paragraph, fn func(*Paragraph)) {
	for _, p := range ps {
		fn(p)
		for _, c := range p.Controls {
			for _, l := range Lists(c) {
				walkParagraphs(l.Paragraphs, fn)
			}
		}
	}
}
