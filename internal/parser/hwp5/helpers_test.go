package hwp5

import (
	"encoding/binary"
)

var le = binary.LittleEndian

// paraHeaderRec builds a 24-byte PARA_HEADER.
func paraHeaderRec(level uint16, nchars uint32, paraShape uint16, style uint8) *Record {
	b := le.AppendUint32(nil, nchars)
	b = le.AppendUint32(b, 0)
	b = le.AppendUint16(b, paraShape)
	b = append(b, style, 0)
	b = le.AppendUint16(b, 1)
	b = le.AppendUint16(b, 0)
	b = le.AppendUint16(b, 0)
	b = le.AppendUint32(b, 0)
	b = le.AppendUint16(b, 0)
	return NewRecord(TagParaHeader, level, b)
}

func charShapeRec(level uint16, runs ...uint32) *Record {
	var b []byte
	for _, v := range runs {
		b = le.AppendUint32(b, v)
	}
	return NewRecord(TagParaCharShape, level, b)
}

// textUnitsRec encodes units as PARA_TEXT.
func textUnitsRec(level uint16, units []uint16) *Record {
	return NewRecord(TagParaText, level, UnitsToBytes(units))
}

// plainPara returns the records of a one-run text paragraph at level.
func plainPara(level uint16, text string, charShape uint32) []*Record {
	units := textUnits(text)
	return []*Record{
		paraHeaderRec(level, uint32(len(units)), 0, 0),
		textUnitsRec(level+1, units),
		charShapeRec(level+1, 0, charShape),
	}
}

func ctrlHeaderRec(level uint16, id uint32, body []byte) *Record {
	return NewRecord(TagCtrlHeader, level, append(le.AppendUint32(nil, id), body...))
}

// objectBody is a zeroed 36-byte object common header.
func objectBody() []byte {
	return make([]byte, objectCommonFixed)
}

func tableRec(level uint16, rows, cols uint16, borderFill uint16) *Record {
	b := le.AppendUint32(nil, 0)
	b = le.AppendUint16(b, rows)
	b = le.AppendUint16(b, cols)
	b = le.AppendUint16(b, 0)
	b = append(b, make([]byte, 8)...)
	for range rows {
		b = le.AppendUint16(b, cols)
	}
	b = le.AppendUint16(b, borderFill)
	return NewRecord(TagTable, level, b)
}

func cellRec(level uint16, paras, row, col uint16, borderFill uint16) *Record {
	b := le.AppendUint16(nil, paras)
	b = le.AppendUint16(b, 0)
	b = le.AppendUint32(b, 0)
	b = le.AppendUint16(b, col)
	b = le.AppendUint16(b, row)
	b = le.AppendUint16(b, 1)
	b = le.AppendUint16(b, 1)
	b = le.AppendUint32(b, 1000)
	b = le.AppendUint32(b, 500)
	b = append(b, make([]byte, 8)...)
	b = le.AppendUint16(b, borderFill)
	return NewRecord(TagListHeader, level, b)
}

// tableChars is a paragraph holding one table control character.
func tableChars() []uint16 {
	return append(ctrlChar(CharDrawingObj, CtrlTable), CharParaBreak)
}

// testDocInfo returns a DocInfo with n char shapes and one of everything else.
func testDocInfo(charShapes int) *DocInfo {
	info := NewDocument().DocInfo
	for len(info.CharShapes) < charShapes {
		cs := *info.CharShapes[0]
		info.CharShapes = append(info.CharShapes, &cs)
	}
	return info
}

// sectionBytes frames records into a section stream.
func sectionBytes(groups ...[]*Record) []byte {
	var all []*Record
	for _, g := range groups {
		all = append(all, g...)
	}
	return EncodeRecords(all)
}
