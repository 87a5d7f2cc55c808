package ir

import (
	"encoding/json"
	"testing"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument("hwp")

	if doc.Version != Version {
		t.Errorf("expected version %s, got %s", Version, doc.Version)
	}
	if doc.Format != "hwp" {
		t.Errorf("expected format hwp, got %s", doc.Format)
	}
	if len(doc.Content) != 0 {
		t.Errorf("expected empty content, got %d blocks", len(doc.Content))
	}
}

func TestDocument_Sections(t *testing.T) {
	doc := NewDocument("hwp")
	doc.BeginSection()
	doc.AddParagraph(NewParagraph("첫 구역"))
	doc.BeginSection()
	doc.AddParagraph(NewParagraph("둘째 구역"))

	if doc.Sections != 2 {
		t.Fatalf("expected 2 sections, got %d", doc.Sections)
	}
	if doc.Content[0].Section != 0 || doc.Content[1].Section != 1 {
		t.Errorf("unexpected section indexes: %d, %d", doc.Content[0].Section, doc.Content[1].Section)
	}
}

func TestDocument_AddTable(t *testing.T) {
	doc := NewDocument("hwpx")
	table := NewTable(2, 3)
	table.Place(0, 0, Cell{Text: "Header 1"})
	table.Place(0, 1, Cell{Text: "Header 2"})
	table.Place(0, 2, Cell{Text: "Header 3"})

	doc.AddTable(table)
	doc.AddTable(nil)

	if len(doc.Content) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Content))
	}
	if doc.Content[0].Type != BlockTypeTable {
		t.Errorf("expected table type, got %s", doc.Content[0].Type)
	}
	if doc.Content[0].Table.Rows != 2 {
		t.Errorf("expected 2 rows, got %d", doc.Content[0].Table.Rows)
	}
}

func TestTable_PlaceSpan(t *testing.T) {
	table := NewTable(2, 2)
	table.Place(0, 0, Cell{Text: "병합", ColSpan: 2})
	table.Place(1, 0, Cell{Text: "a"})
	table.Place(1, 1, Cell{Text: "b"})
	table.Place(5, 5, Cell{Text: "out of range"})

	if !table.Cells[0][1].Covered {
		t.Error("expected (0,1) to be covered by the span")
	}
	if got := table.Text(); got != "병합\na\tb" {
		t.Errorf("unexpected table text %q", got)
	}
	if table.GetCell(2, 0) != nil {
		t.Error("expected nil for out of range cell")
	}

	table.SetHeaderRow()
	if !table.Cells[0][0].IsHeader || table.Cells[1][0].IsHeader {
		t.Error("only the first row should be a header")
	}
}

func TestDocument_AddImage(t *testing.T) {
	doc := NewDocument("hwp")
	img := NewImage("BIN0001")
	img.Alt = "Test image"
	img.SetData([]byte{1, 2, 3})
	img.SetDimensions(320, 240)

	doc.AddImage(img)

	if len(doc.Content) != 1 {
		t.Fatalf("expected 1 block, got %d", len(doc.Content))
	}
	if doc.Content[0].Image.Size != 3 || !doc.Content[0].Image.HasData() {
		t.Errorf("expected 3 bytes of data, got %d", doc.Content[0].Image.Size)
	}
	if got := doc.Content[0].Image; got.Width != 320 || got.Height != 240 {
		t.Errorf("expected 320x240, got %dx%d", got.Width, got.Height)
	}
}

func TestParagraph_Append(t *testing.T) {
	p := NewParagraph("")
	p.Append("가나", 0)
	p.Append("다", 0)
	p.Append("라", 2)

	if p.Text != "가나다라" {
		t.Errorf("unexpected text %q", p.Text)
	}
	if len(p.Runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(p.Runs))
	}
	if p.Runs[0].Text != "가나다" || p.Runs[1].CharShapeID != 2 {
		t.Errorf("unexpected runs %+v", p.Runs)
	}
}

func TestParagraph_SetHeading(t *testing.T) {
	p := NewParagraph("제목")
	p.SetHeading(9)
	if p.Style.HeadingLevel != MaxHeadingLevel {
		t.Errorf("expected clamp to %d, got %d", MaxHeadingLevel, p.Style.HeadingLevel)
	}
	p.SetHeading(-1)
	if p.Style.HeadingLevel != 0 {
		t.Errorf("expected 0, got %d", p.Style.HeadingLevel)
	}
}

func TestDocument_TextAndStats(t *testing.T) {
	doc := NewDocument("hwp")
	doc.BeginSection()
	doc.AddParagraph(NewParagraph("본문"))
	table := NewTable(1, 2)
	table.Place(0, 0, Cell{Text: "a"})
	table.Place(0, 1, Cell{Text: "b"})
	doc.AddTable(table)
	doc.AddImage(NewImage("BIN0001"))

	if got := doc.Text(); got != "본문\na\tb" {
		t.Errorf("unexpected text %q", got)
	}
	stats := doc.Stats()
	if stats[BlockTypeParagraph] != 1 || stats[BlockTypeTable] != 1 || stats[BlockTypeImage] != 1 {
		t.Errorf("unexpected stats %v", stats)
	}
}

func TestDocument_JSONSerialization(t *testing.T) {
	doc := NewDocument("hwp")
	doc.Metadata.Title = "Test Document"
	doc.Metadata.Author = "Test Author"

	p := NewParagraph("Test paragraph")
	p.SetHeading(1)
	doc.AddParagraph(p)

	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var restored Document
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if restored.Format != "hwp" {
		t.Errorf("format mismatch: got %s", restored.Format)
	}
	if restored.Content[0].Paragraph.Style.HeadingLevel != 1 {
		t.Errorf("heading level lost in JSON: %+v", restored.Content[0].Paragraph.Style)
	}
}
