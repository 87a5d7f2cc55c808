package ir

// Paragraph represents a text paragraph with style information.
type Paragraph struct {
	Text  string         `json:"text"`
	Runs  []Run          `json:"runs,omitempty"`
	Style ParagraphStyle `json:"style"`
}

// Run is a span of text sharing one character shape.
type Run struct {
	Text        string    `json:"text"`
	CharShapeID int       `json:"char_shape_id"`
	Style       TextStyle `json:"style,omitempty"`
}

// ParagraphStyle contains paragraph-level styling hints.
type ParagraphStyle struct {
	Name         string `json:"name,omitempty"`          // 스타일 이름
	HeadingLevel int    `json:"heading_level,omitempty"` // 0 = 본문, 1-7 = 개요 수준
	Alignment    string `json:"alignment,omitempty"`     // left, center, right, justify
}

// TextStyle contains character-level styling hints.
type TextStyle struct {
	Bold          bool    `json:"bold,omitempty"`
	Italic        bool    `json:"italic,omitempty"`
	Underline     bool    `json:"underline,omitempty"`
	Strikethrough bool    `json:"strikethrough,omitempty"`
	Superscript   bool    `json:"superscript,omitempty"`
	Subscript     bool    `json:"subscript,omitempty"`
	SizePt        float64 `json:"size_pt,omitempty"`
}

// MaxHeadingLevel is the deepest outline level.
const MaxHeadingLevel = 7

// NewParagraph creates a new paragraph with the given text.
func NewParagraph(text string) *Paragraph {
	return &Paragraph{
		Text: text,
		Runs: make([]Run, 0),
	}
}

// AddRun adds a styled text run to the paragraph.
func (p *Paragraph) AddRun(text string, shapeID int, style TextStyle) {
	p.Runs = append(p.Runs, Run{
		Text:        text,
		CharShapeID: shapeID,
		Style:       style,
	})
}

// Append extends the paragraph text and, when shapeID matches, the last run.
func (p *Paragraph) Append(text string, shapeID int) {
	p.Text += text
	if n := len(p.Runs); n > 0 && p.Runs[n-1].CharShapeID == shapeID {
		p.Runs[n-1].Text += text
		return
	}
	p.Runs = append(p.Runs, Run{Text: text, CharShapeID: shapeID})
}

// SetHeading sets the outline level, clamped to 0..MaxHeadingLevel.
func (p *Paragraph) SetHeading(level int) {
	p.Style.HeadingLevel = min(max(level, 0), MaxHeadingLevel)
}

// IsEmpty returns true if the paragraph has no text content.
func (p *Paragraph) IsEmpty() bool {
	return p.Text == ""
}
