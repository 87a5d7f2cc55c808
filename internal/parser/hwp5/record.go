package hwp5

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Record는 HWP 5.x 레코드 구조체
// 참조: HWP 5.0 명세서 4.1 레코드 구조
type Record struct {
	TagID uint16 // 레코드 종류 (10비트)
	Level uint16 // 논리적 계층 (10비트)
	Size  uint32 // 데이터 크기
	Data  []byte // 레코드 데이터
}

// RecordHeader는 4바이트 레코드 헤더
// 구조: [TagID:10비트][Level:10비트][Size:12비트]
type RecordHeader uint32

const (
	maxTagID       = 0x3FF
	maxLevel       = 0x3FF
	extendedSize   = 0xFFF
	recordHdrSize  = 4
	extendedHdrLen = 8
)

// ParseRecordHeader parses the 4-byte record header.
func ParseRecordHeader(data []byte) RecordHeader {
	return RecordHeader(binary.LittleEndian.Uint32(data))
}

// MakeRecordHeader packs tag, level and inline size into a header word.
func MakeRecordHeader(tagID, level uint16, size uint32) RecordHeader {
	return RecordHeader(uint32(tagID&maxTagID) | uint32(level&maxLevel)<<10 | (size&0xFFF)<<20)
}

// TagID returns the tag ID (10 bits).
func (h RecordHeader) TagID() uint16 {
	return uint16(h & 0x3FF)
}

// Level returns the nesting level (10 bits).
func (h RecordHeader) Level() uint16 {
	return uint16((h >> 10) & 0x3FF)
}

// Size returns the data size (12 bits).
// If size is 0xFFF (4095), the actual size follows in the next 4 bytes.
func (h RecordHeader) Size() uint16 {
	return uint16((h >> 20) & 0xFFF)
}

// RecordReader reads records from a stream.
type RecordReader struct {
	data   []byte
	offset int
}

// NewRecordReader creates a new record reader from raw stream data.
func NewRecordReader(data []byte) *RecordReader {
	return &RecordReader{data: data}
}

// Offset returns the position of the next record header.
func (r *RecordReader) Offset() int {
	return r.offset
}

// Read reads the next record. It returns io.EOF at the end of the stream and
// ErrTruncatedRecord when a header or payload runs past it.
func (r *RecordReader) Read() (*Record, error) {
	if r.offset >= len(r.data) {
		return nil, io.EOF
	}

	start := r.offset
	if start+recordHdrSize > len(r.data) {
		return nil, fmt.Errorf("%w: incomplete header at offset %d", ErrTruncatedRecord, start)
	}

	header := ParseRecordHeader(r.data[start:])
	pos := start + recordHdrSize

	size := uint32(header.Size())
	if size == extendedSize {
		// 확장 크기: 다음 4바이트에서 실제 크기 읽기
		if pos+4 > len(r.data) {
			return nil, fmt.Errorf("%w: incomplete extended size at offset %d", ErrTruncatedRecord, pos)
		}
		size = binary.LittleEndian.Uint32(r.data[pos:])
		pos += 4
	}

	if uint64(pos)+uint64(size) > uint64(len(r.data)) {
		return nil, fmt.Errorf("%w: record %s at offset %d needs %d bytes, have %d",
			ErrTruncatedRecord, TagName(header.TagID()), start, size, len(r.data)-pos)
	}

	rec := &Record{
		TagID: header.TagID(),
		Level: header.Level(),
		Size:  size,
		Data:  r.data[pos : pos+int(size)],
	}
	r.offset = pos + int(size)
	return rec, nil
}

// ReadAll reads all records from the stream.
func (r *RecordReader) ReadAll() ([]*Record, error) {
	var records []*Record
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// DecodeRecords splits a decompressed stream into its flat record sequence.
// Payloads alias data.
func DecodeRecords(data []byte) ([]*Record, error) {
	return NewRecordReader(data).ReadAll()
}

// EncodeRecords frames records back into a stream. Sizes are taken from the
// payload length; payloads of 0xFFF bytes or more use the extended form.
func EncodeRecords(records []*Record) []byte {
	var buf bytes.Buffer
	for _, rec := range records {
		writeRecord(&buf, rec.TagID, rec.Level, rec.Data)
	}
	return buf.Bytes()
}

func writeRecord(buf *bytes.Buffer, tagID, level uint16, data []byte) {
	var hdr [extendedHdrLen]byte
	size := uint32(len(data))
	if size < extendedSize {
		binary.LittleEndian.PutUint32(hdr[:], uint32(MakeRecordHeader(tagID, level, size)))
		buf.Write(hdr[:recordHdrSize])
	} else {
		binary.LittleEndian.PutUint32(hdr[:], uint32(MakeRecordHeader(tagID, level, extendedSize)))
		binary.LittleEndian.PutUint32(hdr[4:], size)
		buf.Write(hdr[:])
	}
	buf.Write(data)
}

// NewRecord returns a record whose Size matches data.
func NewRecord(tagID, level uint16, data []byte) *Record {
	return &Record{TagID: tagID, Level: level, Size: uint32(len(data)), Data: data}
}

var tagNames = map[uint16]string{
	TagDocumentProperties: "DOCUMENT_PROPERTIES",
	TagIDMappings:         "ID_MAPPINGS",
	TagBinData:            "BIN_DATA",
	TagFaceName:           "FACE_NAME",
	TagBorderFill:         "BORDER_FILL",
	TagCharShape:          "CHAR_SHAPE",
	TagTabDef:             "TAB_DEF",
	TagNumbering:          "NUMBERING",
	TagBullet:             "BULLET",
	TagParaShape:          "PARA_SHAPE",
	TagStyle:              "STYLE",
	TagDocData:            "DOC_DATA",
	TagDistributeDocData:  "DISTRIBUTE_DOC_DATA",
	TagCompatibleDocument: "COMPATIBLE_DOCUMENT",
	TagLayoutCompatible:   "LAYOUT_COMPATIBILITY",
	TagTrackChange:        "TRACK_CHANGE",
	TagMemoShape:          "MEMO_SHAPE",
	TagForbiddenChar:      "FORBIDDEN_CHAR",
	TagTrackChange2:       "TRACK_CHANGE_CONTENT",
	TagTrackChangeAuthor:  "TRACK_CHANGE_AUTHOR",
	TagParaHeader:         "PARA_HEADER",
	TagParaText:           "PARA_TEXT",
	TagParaCharShape:      "PARA_CHAR_SHAPE",
	TagParaLineSeg:        "PARA_LINE_SEG",
	TagParaRangeTag:       "PARA_RANGE_TAG",
	TagCtrlHeader:         "CTRL_HEADER",
	TagListHeader:         "LIST_HEADER",
	TagPageDef:            "PAGE_DEF",
	TagFootnoteShape:      "FOOTNOTE_SHAPE",
	TagPageBorderFill:     "PAGE_BORDER_FILL",
	TagShapeComponent:     "SHAPE_COMPONENT",
	TagTable:              "TABLE",
	TagShapeLine:          "SHAPE_COMPONENT_LINE",
	TagShapeRectangle:     "SHAPE_COMPONENT_RECTANGLE",
	TagShapeEllipse:       "SHAPE_COMPONENT_ELLIPSE",
	TagShapeArc:           "SHAPE_COMPONENT_ARC",
	TagShapePolygon:       "SHAPE_COMPONENT_POLYGON",
	TagShapeCurve:         "SHAPE_COMPONENT_CURVE",
	TagShapeOLE:           "SHAPE_COMPONENT_OLE",
	TagShapePicture:       "SHAPE_COMPONENT_PICTURE",
	TagShapeContainer:     "SHAPE_COMPONENT_CONTAINER",
	TagCtrlData:           "CTRL_DATA",
	TagEqEdit:             "EQEDIT",
	TagShapeTextArt:       "SHAPE_COMPONENT_TEXTART",
	TagCtrlFormField:      "FORM_OBJECT",
	TagMemoList:           "MEMO_LIST",
	TagChartData:          "CHART_DATA",
	TagVideoData:          "VIDEO_DATA",
}

// TagName returns the human-readable name for a tag ID.
func TagName(tagID uint16) string {
	if name, ok := tagNames[tagID]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(0x%04X)", tagID)
}
