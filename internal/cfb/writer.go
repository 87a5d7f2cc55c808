package cfb

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"
	"unicode/utf16"
)

const sectorSize = 512

type node struct {
	name     string
	path     string
	typ      EntryType
	data     []byte
	children []*node

	id    uint32
	left  uint32
	right uint32
	child uint32
	start uint32
	size  uint64
}

// Build encodes a version 3 compound file holding the given streams. Keys are
// slash-separated paths; intermediate storages are created as needed.
func Build(streams map[string][]byte) ([]byte, error) {
	root, err := buildTree(streams)
	if err != nil {
		return nil, err
	}

	var order []*node
	var number func(n *node)
	number = func(n *node) {
		n.id = uint32(len(order))
		order = append(order, n)
		for _, ch := range n.children {
			number(ch)
		}
	}
	number(root)
	for _, n := range order {
		n.left, n.right, n.child = noStream, noStream, noStream
	}
	for _, n := range order {
		n.child = linkSiblings(n.children)
	}

	// 미니 스트림 배치
	var miniStream []byte
	var miniFAT []uint32
	var large []*node
	for _, n := range order {
		if n.typ != TypeStream {
			continue
		}
		n.size = uint64(len(n.data))
		switch {
		case len(n.data) == 0:
			n.start = endOfChain
		case len(n.data) < miniStreamCutoff:
			n.start = uint32(len(miniFAT))
			cnt := ceilDiv(len(n.data), miniSectorSize)
			miniFAT = appendChain(miniFAT, n.start, cnt)
			miniStream = append(miniStream, n.data...)
			miniStream = append(miniStream, make([]byte, cnt*miniSectorSize-len(n.data))...)
		default:
			large = append(large, n)
		}
	}

	perSector := sectorSize / 4
	dirSectors := ceilDiv(len(order)*dirEntrySize, sectorSize)
	miniFATSectors := ceilDiv(len(miniFAT)*4, sectorSize)
	miniStreamSectors := ceilDiv(len(miniStream), sectorSize)
	base := dirSectors + miniFATSectors + miniStreamSectors
	for _, n := range large {
		base += ceilDiv(len(n.data), sectorSize)
	}

	numFAT, numDIFAT := 0, 0
	for {
		total := base + numFAT + numDIFAT
		f := ceilDiv(total, perSector)
		d := 0
		if f > difatInHeader {
			d = ceilDiv(f-difatInHeader, perSector-1)
		}
		if f == numFAT && d == numDIFAT {
			break
		}
		numFAT, numDIFAT = f, d
	}
	total := base + numFAT + numDIFAT

	fat := make([]uint32, 0, numFAT*perSector)
	next := uint32(0)
	alloc := func(count int) uint32 {
		if count == 0 {
			return endOfChain
		}
		start := next
		fat = appendChain(fat, start, count)
		next += uint32(count)
		return start
	}

	dirStart := alloc(dirSectors)
	miniFATStart := alloc(miniFATSectors)
	miniStreamStart := alloc(miniStreamSectors)
	for _, n := range large {
		n.start = alloc(ceilDiv(len(n.data), sectorSize))
	}
	fatStart := next
	for range numFAT {
		fat = append(fat, fatSect)
	}
	difatStart := fatStart + uint32(numFAT)
	for range numDIFAT {
		fat = append(fat, difSect)
	}
	for len(fat) < numFAT*perSector {
		fat = append(fat, freeSect)
	}

	root.start = miniStreamStart
	root.size = uint64(len(miniStream))

	out := make([]byte, headerSize+total*sectorSize)
	le := binary.LittleEndian

	// 헤더
	copy(out, signature[:])
	le.PutUint16(out[24:], 0x003E)
	le.PutUint16(out[26:], 3)
	le.PutUint16(out[28:], 0xFFFE)
	le.PutUint16(out[30:], 9)
	le.PutUint16(out[32:], 6)
	le.PutUint32(out[44:], uint32(numFAT))
	le.PutUint32(out[48:], dirStart)
	le.PutUint32(out[56:], miniStreamCutoff)
	le.PutUint32(out[60:], miniFATStart)
	le.PutUint32(out[64:], uint32(miniFATSectors))
	if numDIFAT > 0 {
		le.PutUint32(out[68:], difatStart)
	} else {
		le.PutUint32(out[68:], endOfChain)
	}
	le.PutUint32(out[72:], uint32(numDIFAT))
	for i := range difatInHeader {
		v := freeSect
		if i < numFAT {
			v = fatStart + uint32(i)
		}
		le.PutUint32(out[76+i*4:], v)
	}

	sectorAt := func(n uint32) []byte {
		off := headerSize + int(n)*sectorSize
		return out[off : off+sectorSize]
	}
	writeRun := func(start uint32, data []byte) {
		if start == endOfChain {
			return
		}
		copy(out[headerSize+int(start)*sectorSize:], data)
	}

	// 디렉터리
	dir := make([]byte, dirSectors*sectorSize)
	for i := range dirSectors * sectorSize / dirEntrySize {
		b := dir[i*dirEntrySize : (i+1)*dirEntrySize]
		if i < len(order) {
			encodeDirEntry(b, order[i])
			continue
		}
		le.PutUint32(b[68:], noStream)
		le.PutUint32(b[72:], noStream)
		le.PutUint32(b[76:], noStream)
	}
	writeRun(dirStart, dir)

	mf := make([]byte, miniFATSectors*sectorSize)
	for i := range len(mf) / 4 {
		v := freeSect
		if i < len(miniFAT) {
			v = miniFAT[i]
		}
		le.PutUint32(mf[i*4:], v)
	}
	writeRun(miniFATStart, mf)
	writeRun(miniStreamStart, miniStream)
	for _, n := range large {
		writeRun(n.start, n.data)
	}

	for i := range numFAT {
		s := sectorAt(fatStart + uint32(i))
		for j := range perSector {
			le.PutUint32(s[j*4:], fat[i*perSector+j])
		}
	}

	// 헤더에 들어가지 않은 FAT 섹터 목록
	rest := numFAT - min(numFAT, difatInHeader)
	for i := range numDIFAT {
		s := sectorAt(difatStart + uint32(i))
		for j := range perSector - 1 {
			v := freeSect
			k := i*(perSector-1) + j
			if k < rest {
				v = fatStart + uint32(difatInHeader+k)
			}
			le.PutUint32(s[j*4:], v)
		}
		link := endOfChain
		if i+1 < numDIFAT {
			link = difatStart + uint32(i+1)
		}
		le.PutUint32(s[(perSector-1)*4:], link)
	}

	return out, nil
}

func buildTree(streams map[string][]byte) (*node, error) {
	root := &node{name: "Root Entry", typ: TypeRoot}
	index := map[string]*node{"": root}

	paths := make([]string, 0, len(streams))
	for p := range streams {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	for _, raw := range paths {
		p := cleanPath(raw)
		parts := strings.Split(p, "/")
		parent := root
		for i, part := range parts {
			if part == "" {
				return nil, fmt.Errorf("%w: empty name in %q", ErrFormat, raw)
			}
			if len(utf16.Encode([]rune(part))) > maxNameUnits {
				return nil, fmt.Errorf("%w: name %q exceeds %d UTF-16 units", ErrFormat, part, maxNameUnits)
			}
			full := strings.Join(parts[:i+1], "/")
			leaf := i == len(parts)-1
			n, ok := index[full]
			if ok {
				if leaf || n.typ == TypeStream {
					return nil, fmt.Errorf("%w: %q is both storage and stream", ErrFormat, full)
				}
				parent = n
				continue
			}
			n = &node{name: part, path: full, typ: TypeStorage}
			if leaf {
				n.typ = TypeStream
				n.data = streams[raw]
			}
			index[full] = n
			parent.children = append(parent.children, n)
			parent = n
		}
	}

	var sortChildren func(n *node)
	sortChildren = func(n *node) {
		slices.SortFunc(n.children, func(a, b *node) int { return compareNames(a.name, b.name) })
		for _, ch := range n.children {
			sortChildren(ch)
		}
	}
	sortChildren(root)
	return root, nil
}

// linkSiblings arranges sorted siblings as a balanced binary search tree and returns
// the id of its root.
func linkSiblings(sibs []*node) uint32 {
	if len(sibs) == 0 {
		return noStream
	}
	mid := len(sibs) / 2
	n := sibs[mid]
	n.left = linkSiblings(sibs[:mid])
	n.right = linkSiblings(sibs[mid+1:])
	return n.id
}

func appendChain(table []uint32, start uint32, count int) []uint32 {
	for i := range count {
		if i == count-1 {
			table = append(table, endOfChain)
		} else {
			table = append(table, start+uint32(i)+1)
		}
	}
	return table
}

func encodeDirEntry(b []byte, n *node) {
	le := binary.LittleEndian
	units := utf16.Encode([]rune(n.name))
	for i, u := range units {
		le.PutUint16(b[i*2:], u)
	}
	le.PutUint16(b[64:], uint16((len(units)+1)*2))
	b[66] = byte(n.typ)
	b[67] = 1
	le.PutUint32(b[68:], n.left)
	le.PutUint32(b[72:], n.right)
	le.PutUint32(b[76:], n.child)
	if n.typ != TypeStorage {
		le.PutUint32(b[116:], n.start)
		le.PutUint64(b[120:], n.size)
	}
}
