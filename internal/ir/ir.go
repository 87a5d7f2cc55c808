// Package ir defines the format-neutral extraction output shared by the HWP 5.x and
// HWPX readers. It is what the extract command serializes to JSON.
package ir

import "strings"

// Version of the IR JSON layout.
const Version = "1.1"

// Document represents the extracted content of one document.
type Document struct {
	Version  string   `json:"version"`
	Format   string   `json:"format"` // hwp, hwpx
	Metadata Metadata `json:"metadata"`
	Sections int      `json:"sections"`
	Content  []Block  `json:"content"`
}

// Metadata contains document metadata.
type Metadata struct {
	Title       string `json:"title,omitempty"`
	Author      string `json:"author,omitempty"`
	Subject     string `json:"subject,omitempty"`
	Keywords    string `json:"keywords,omitempty"`
	Description string `json:"description,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Created     string `json:"created,omitempty"`
	Modified    string `json:"modified,omitempty"`
}

// BlockType represents the type of content block.
type BlockType string

const (
	BlockTypeParagraph BlockType = "paragraph"
	BlockTypeTable     BlockType = "table"
	BlockTypeImage     BlockType = "image"
)

// Block represents a content block in the document.
type Block struct {
	Type      BlockType   `json:"type"`
	Section   int         `json:"section"`
	Paragraph *Paragraph  `json:"paragraph,omitempty"`
	Table     *TableBlock `json:"table,omitempty"`
	Image     *ImageBlock `json:"image,omitempty"`
}

// NewDocument creates an empty IR document for the given source format.
func NewDocument(format string) *Document {
	return &Document{
		Version: Version,
		Format:  format,
		Content: make([]Block, 0),
	}
}

// BeginSection starts a new section; blocks added afterwards belong to it.
func (d *Document) BeginSection() {
	d.Sections++
}

func (d *Document) current() int {
	if d.Sections == 0 {
		return 0
	}
	return d.Sections - 1
}

// AddParagraph adds a paragraph block to the current section.
func (d *Document) AddParagraph(p *Paragraph) {
	d.Content = append(d.Content, Block{Type: BlockTypeParagraph, Section: d.current(), Paragraph: p})
}

// AddTable adds a table block to the current section.
func (d *Document) AddTable(t *TableBlock) {
	if t == nil {
		return
	}
	d.Content = append(d.Content, Block{Type: BlockTypeTable, Section: d.current(), Table: t})
}

// AddImage adds an image block to the current section.
func (d *Document) AddImage(img *ImageBlock) {
	d.Content = append(d.Content, Block{Type: BlockTypeImage, Section: d.current(), Image: img})
}

// Stats counts blocks by type.
func (d *Document) Stats() map[BlockType]int {
	out := map[BlockType]int{}
	for _, b := range d.Content {
		out[b.Type]++
	}
	return out
}

// Text returns the plain text of paragraphs and tables in document order, one
// block per line. Table rows are tab separated.
func (d *Document) Text() string {
	var lines []string
	for _, b := range d.Content {
		switch b.Type {
		case BlockTypeParagraph:
			lines = append(lines, b.Paragraph.Text)
		case BlockTypeTable:
			lines = append(lines, b.Table.Text())
		}
	}
	return strings.Join(lines, "\n")
}
