// Package layout reconstructs line boxes for HWP paragraphs.
//
// Stored PARA_LINE_SEG records are used when they are consistent with the text.
// Otherwise lines are estimated from char shapes and para shapes. All lengths are
// HWPUNIT (1/7200 inch) measured from the top-left corner of the section's first page.
package layout

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/roboco-io/hwpkit/internal/parser/hwp5"
)

// ErrNilDocument is returned when Layout is called without a document.
var ErrNilDocument = errors.New("layout: nil document")

// ParagraphID locates a paragraph: "s0/p3" for body paragraphs, with nested lists
// appended as "/c0/cell2/p1", "/c0/caption/p0", "/c0/textbox0/p0" or "/c0/list/p0".
type ParagraphID string

// Kind tells which list a paragraph belongs to.
type Kind string

const (
	KindBody    Kind = "body"
	KindCell    Kind = "cell"
	KindCaption Kind = "caption"
	KindTextBox Kind = "textbox"
	KindSubList Kind = "sublist"
)

// LineSource tells whether a line came from the file or from estimation.
type LineSource string

const (
	SourceStored    LineSource = "stored"
	SourceEstimated LineSource = "estimated"
)

// RunBox is a span of one char shape on a line.
type RunBox struct {
	Start       int    `json:"start"`
	End         int    `json:"end"`
	CharShapeID uint32 `json:"char_shape_id"`
	X           int32  `json:"x"`
	Width       int32  `json:"width"`
	Height      int32  `json:"height"`
}

// LineBox is one laid out line of a paragraph. Start and End are code unit offsets.
type LineBox struct {
	Start    int        `json:"start"`
	End      int        `json:"end"`
	X        int32      `json:"x"`
	Y        int32      `json:"y"`
	Width    int32      `json:"width"`
	Height   int32      `json:"height"`
	Baseline int32      `json:"baseline"`
	Page     int        `json:"page"`
	Source   LineSource `json:"source"`
	Runs     []RunBox   `json:"runs,omitempty"`
}

// ControlBox is the placement of an object control (table, picture, equation, ...).
type ControlBox struct {
	Paragraph ParagraphID `json:"paragraph"`
	Index     int         `json:"index"`
	CtrlID    string      `json:"ctrl_id"`
	Anchor    int         `json:"anchor"`
	X         int32       `json:"x"`
	Y         int32       `json:"y"`
	Width     int32       `json:"width"`
	Height    int32       `json:"height"`
	InLine    bool        `json:"in_line"`
}

// ParagraphBox is the layout of one paragraph.
type ParagraphBox struct {
	ID       ParagraphID  `json:"id"`
	Kind     Kind         `json:"kind"`
	Section  int          `json:"section"`
	Lines    []LineBox    `json:"lines"`
	Controls []ControlBox `json:"controls,omitempty"`
}

// Top returns the Y of the first line.
func (b *ParagraphBox) Top() int32 {
	if len(b.Lines) == 0 {
		return 0
	}
	return b.Lines[0].Y
}

// Bottom returns the lower edge of the last line.
func (b *ParagraphBox) Bottom() int32 {
	if len(b.Lines) == 0 {
		return 0
	}
	last := b.Lines[len(b.Lines)-1]
	return last.Y + last.Height
}

// Warning records a layout anomaly. Layout never fails on bad line segments.
type Warning struct {
	Paragraph ParagraphID `json:"paragraph"`
	Message   string      `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Paragraph, w.Message)
}

// Result holds every laid out paragraph in document order.
type Result struct {
	Paragraphs []*ParagraphBox `json:"paragraphs"`
	Warnings   []Warning       `json:"warnings,omitempty"`

	index map[ParagraphID]*ParagraphBox
}

// Lookup returns the paragraph with the given id.
func (r *Result) Lookup(id ParagraphID) (*ParagraphBox, bool) {
	b, ok := r.index[id]
	return b, ok
}

// ToPixels converts HWPUNIT to pixels at dpi.
func ToPixels(v int32, dpi float64) float64 {
	return float64(v) * dpi / 7200
}

// Layout lays out every section of doc.
func Layout(doc *hwp5.Document, opts ...Option) (*Result, error) {
	if doc == nil || doc.DocInfo == nil {
		return nil, ErrNilDocument
	}
	o := newOptions(opts)
	e := &engine{
		info: doc.DocInfo,
		opts: o,
		log:  o.log,
		res:  &Result{index: map[ParagraphID]*ParagraphBox{}},
	}
	for i, sec := range doc.Sections {
		e.section(i, sec)
	}
	e.log.Debug("layout done",
		zap.Int("sections", len(doc.Sections)),
		zap.Int("paragraphs", len(e.res.Paragraphs)),
		zap.Int("warnings", len(e.res.Warnings)))
	return e.res, nil
}

type engine struct {
	info *hwp5.DocInfo
	opts options
	log  *zap.Logger
	res  *Result

	page     hwp5.PageDef
	secIndex int
}

func (e *engine) warn(id ParagraphID, format string, args ...any) {
	w := Warning{Paragraph: id, Message: fmt.Sprintf(format, args...)}
	e.res.Warnings = append(e.res.Warnings, w)
	e.log.Warn("layout", zap.String("paragraph", string(id)), zap.String("reason", w.Message))
}

func (e *engine) add(b *ParagraphBox) {
	e.res.Paragraphs = append(e.res.Paragraphs, b)
	e.res.index[b.ID] = b
}

func (e *engine) section(si int, sec *hwp5.Section) {
	e.secIndex = si
	e.page = hwp5.DefaultPageDef
	if pd := sec.PageDef(); pd != nil && pd.PaperWidth > 0 && pd.PaperHeight > 0 {
		e.page = *pd
	}

	paperH := int32(e.page.PaperHeight)
	if e.page.Landscape() {
		paperH = int32(e.page.PaperWidth)
	}
	f := newFlow(int32(e.page.LeftMargin)+int32(e.page.GutterMargin), e.page.ContentTop(), e.page.ContentWidth())
	f.pageH = paperH
	for pi, p := range sec.Paragraphs {
		id := ParagraphID(fmt.Sprintf("s%d/p%d", si, pi))
		e.paragraph(id, KindBody, p, f)
	}
}
