package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboco-io/hwpkit/internal/ir"
	"github.com/roboco-io/hwpkit/internal/parser"
	"github.com/roboco-io/hwpkit/internal/parser/hwp5"
	"github.com/roboco-io/hwpkit/internal/writer"
)

func writeHWP(t *testing.T, name string, paragraphs ...string) string {
	t.Helper()
	doc := hwp5.NewDocument()
	for _, text := range paragraphs {
		doc.Sections[0].AddParagraph(text, 0, 0)
	}
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, writer.Write(path, doc))
	return path
}

func writeHWPX(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.hwpx")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	entry, err := w.Create("Contents/section0.xml")
	require.NoError(t, err)
	_, err = entry.Write([]byte(`<hs:sec xmlns:hs="s" xmlns:hp="p">` + body + `</hs:sec>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"trim and drop empty", "  첫 줄  \n\n\t\n둘째 줄\r\n", "첫 줄\n둘째 줄"},
		{"empty", "\n \n", ""},
		// 첫가끝 조합형 "한" → 완성형
		{"nfc", "\u1112\u1161\u11ab글", "한글"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestText_NestedLists(t *testing.T) {
	doc := hwp5.NewDocument()
	doc.Sections[0].AddParagraph("본문", 0, 0)

	cell := &hwp5.Cell{}
	cell.Paragraphs = []*hwp5.Paragraph{{Chars: []uint16{'셀'}}}
	holder := doc.Sections[0].AddParagraph("", 0, 0)
	holder.Controls = append(holder.Controls, &hwp5.TableControl{Cells: []*hwp5.Cell{cell}})

	got := Normalize(Text(doc))
	assert.Equal(t, "본문\n셀", got)
}

func TestFile_HWP(t *testing.T) {
	// 확장자가 아니라 매직 바이트로 판별한다
	path := writeHWP(t, "misnamed.hwpx", "  첫째 문단 ", "", "둘째 문단")

	text, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, "첫째 문단\n둘째 문단", text)
}

func TestFile_HWPX(t *testing.T) {
	path := writeHWPX(t, `<hp:p><hp:run><hp:t> 하나 </hp:t></hp:run></hp:p><hp:p><hp:run><hp:t>둘</hp:t></hp:run></hp:p>`)

	text, err := File(path)
	require.NoError(t, err)
	assert.Equal(t, "하나\n둘", text)

	doc, err := Document(path)
	require.NoError(t, err)
	assert.Equal(t, "hwpx", doc.Format)
	assert.Equal(t, 2, doc.Stats()[ir.BlockTypeParagraph])
}

func TestFile_UnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "note.hwp")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a document"), 0644))

	_, err := File(path)
	assert.ErrorIs(t, err, parser.ErrUnknownFormat)

	_, err = File(filepath.Join(t.TempDir(), "missing.hwp"))
	assert.Error(t, err)
}

func TestForRetrieval(t *testing.T) {
	short := writeHWP(t, "short.hwp", "짧은 문서")
	_, err := ForRetrieval(short)
	assert.ErrorIs(t, err, ErrTextTooShort)

	long := writeHWP(t, "long.hwp", strings.Repeat("충분히 긴 문단입니다. ", 6))
	text, err := ForRetrieval(long)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len([]rune(text)), MinRetrievalRunes)
}

func TestDocument_HWP(t *testing.T) {
	path := writeHWP(t, "doc.hwp", "가", "나")

	doc, err := Document(path, WithParserOptions(parser.Options{}))
	require.NoError(t, err)
	assert.Equal(t, "hwp", doc.Format)
	assert.Equal(t, 1, doc.Sections)
	assert.Equal(t, "가\n나", doc.Text())
}
