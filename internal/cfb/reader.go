package cfb

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// Container is a decoded compound file: its directory tree and the bytes of every stream.
type Container struct {
	sectorSize int
	numSectors int
	data       []byte

	fat        []uint32
	miniFAT    []uint32
	miniStream []byte

	entries []Entry
	streams map[string][]byte
}

type header struct {
	byteOrder       uint16
	majorVersion    uint16
	sectorShift     uint16
	miniSectorShift uint16
	numFATSectors   uint32
	firstDirSector  uint32
	miniCutoff      uint32
	firstMiniFAT    uint32
	numMiniFAT      uint32
	firstDIFAT      uint32
	numDIFAT        uint32
	difat           [difatInHeader]uint32
}

type dirEntry struct {
	name  string
	typ   EntryType
	left  uint32
	right uint32
	child uint32
	start uint32
	size  uint64
}

// Open decodes a compound file. Every stream chain is resolved eagerly so a corrupt
// container is rejected here rather than on first access.
func Open(data []byte) (*Container, error) {
	if len(data) < headerSize || !bytes.Equal(data[:8], signature[:]) {
		return nil, ErrBadMagic
	}

	h := parseHeader(data)
	if h.byteOrder != 0xFFFE {
		return nil, fmt.Errorf("%w: byte order 0x%04X", ErrFormat, h.byteOrder)
	}
	if h.sectorShift != 9 && h.sectorShift != 12 {
		return nil, fmt.Errorf("%w: sector shift %d", ErrFormat, h.sectorShift)
	}
	if h.miniSectorShift != 6 {
		return nil, fmt.Errorf("%w: mini sector shift %d", ErrFormat, h.miniSectorShift)
	}

	c := &Container{
		sectorSize: 1 << h.sectorShift,
		data:       data,
		streams:    make(map[string][]byte),
	}
	c.numSectors = ceilDiv(len(data), c.sectorSize) - 1
	if c.numSectors < 0 {
		c.numSectors = 0
	}

	if err := c.loadFAT(&h); err != nil {
		return nil, err
	}

	dirBytes, err := c.readRegularChain(h.firstDirSector, -1)
	if err != nil {
		return nil, fmt.Errorf("directory: %w", err)
	}
	dir := parseDirectory(dirBytes)
	if len(dir) == 0 || dir[0].typ != TypeRoot {
		return nil, fmt.Errorf("%w: missing root entry", ErrFormat)
	}

	if h.numMiniFAT > 0 && h.firstMiniFAT != endOfChain {
		raw, err := c.readRegularChain(h.firstMiniFAT, -1)
		if err != nil {
			return nil, fmt.Errorf("mini FAT: %w", err)
		}
		c.miniFAT = bytesToUint32s(raw)
	}
	if dir[0].size > 0 {
		root := dir[0]
		c.miniStream, err = c.readRegularChain(root.start, int64(root.size))
		if err != nil {
			return nil, fmt.Errorf("mini stream: %w", err)
		}
	}

	if err := c.walk(dir, h.sectorShift); err != nil {
		return nil, err
	}

	return c, nil
}

func parseHeader(data []byte) header {
	var h header
	le := binary.LittleEndian
	h.majorVersion = le.Uint16(data[26:28])
	h.byteOrder = le.Uint16(data[28:30])
	h.sectorShift = le.Uint16(data[30:32])
	h.miniSectorShift = le.Uint16(data[32:34])
	h.numFATSectors = le.Uint32(data[44:48])
	h.firstDirSector = le.Uint32(data[48:52])
	h.miniCutoff = le.Uint32(data[56:60])
	h.firstMiniFAT = le.Uint32(data[60:64])
	h.numMiniFAT = le.Uint32(data[64:68])
	h.firstDIFAT = le.Uint32(data[68:72])
	h.numDIFAT = le.Uint32(data[72:76])
	for i := range difatInHeader {
		h.difat[i] = le.Uint32(data[76+i*4:])
	}
	return h
}

// loadFAT collects the FAT sector list from the header DIFAT and the DIFAT chain,
// then concatenates the FAT sectors.
func (c *Container) loadFAT(h *header) error {
	// FAT 섹터 수는 파일의 섹터 수를 넘을 수 없다
	if int64(h.numFATSectors) > int64(c.numSectors) {
		return fmt.Errorf("%w: %d FAT sectors in a %d sector file", ErrCorruptChain, h.numFATSectors, c.numSectors)
	}
	fatSectors := make([]uint32, 0, h.numFATSectors)
	for _, s := range h.difat {
		if uint32(len(fatSectors)) == h.numFATSectors {
			break
		}
		if s == freeSect {
			continue
		}
		fatSectors = append(fatSectors, s)
	}

	perSector := c.sectorSize/4 - 1
	seen := make(map[uint32]bool)
	next := h.firstDIFAT
	for i := uint32(0); i < h.numDIFAT && next != endOfChain && next != freeSect; i++ {
		if int(next) >= c.numSectors || seen[next] {
			return fmt.Errorf("%w: DIFAT sector %d", ErrCorruptChain, next)
		}
		seen[next] = true
		vals := bytesToUint32s(c.sector(next))
		for _, s := range vals[:perSector] {
			if uint32(len(fatSectors)) == h.numFATSectors {
				break
			}
			if s != freeSect {
				fatSectors = append(fatSectors, s)
			}
		}
		next = vals[perSector]
	}

	if uint32(len(fatSectors)) < h.numFATSectors {
		return fmt.Errorf("%w: %d of %d FAT sectors listed", ErrCorruptChain, len(fatSectors), h.numFATSectors)
	}

	c.fat = make([]uint32, 0, len(fatSectors)*c.sectorSize/4)
	for _, s := range fatSectors {
		if int(s) >= c.numSectors {
			return fmt.Errorf("%w: FAT sector %d out of range", ErrCorruptChain, s)
		}
		c.fat = append(c.fat, bytesToUint32s(c.sector(s))...)
	}
	return nil
}

// sector returns a copy of sector n, zero padded if the file ends inside it.
func (c *Container) sector(n uint32) []byte {
	buf := make([]byte, c.sectorSize)
	off := (int(n) + 1) * c.sectorSize
	if off < len(c.data) {
		copy(buf, c.data[off:])
	}
	return buf
}

// follow walks a sector chain through table, rejecting cycles and out-of-range indexes.
func follow(start uint32, table []uint32, limit int) ([]uint32, error) {
	var chain []uint32
	seen := make(map[uint32]struct{})
	for cur := start; cur != endOfChain; cur = table[cur] {
		if cur > maxRegSect || int(cur) >= len(table) || int(cur) >= limit {
			return nil, fmt.Errorf("%w: sector index %d out of range", ErrCorruptChain, cur)
		}
		if _, ok := seen[cur]; ok {
			return nil, fmt.Errorf("%w: sector %d revisited", ErrCorruptChain, cur)
		}
		seen[cur] = struct{}{}
		chain = append(chain, cur)
	}
	return chain, nil
}

// readRegularChain reads a FAT chain. A negative size reads the whole chain.
func (c *Container) readRegularChain(start uint32, size int64) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	chain, err := follow(start, c.fat, c.numSectors)
	if err != nil {
		return nil, err
	}
	if size > 0 && len(chain) != ceilDiv(int(size), c.sectorSize) {
		return nil, fmt.Errorf("%w: %d sectors for %d bytes", ErrSizeMismatch, len(chain), size)
	}
	buf := make([]byte, 0, len(chain)*c.sectorSize)
	for _, s := range chain {
		buf = append(buf, c.sector(s)...)
	}
	if size > 0 {
		buf = buf[:size]
	}
	return buf, nil
}

func (c *Container) readMiniChain(start uint32, size int64) ([]byte, error) {
	limit := ceilDiv(len(c.miniStream), miniSectorSize)
	chain, err := follow(start, c.miniFAT, limit)
	if err != nil {
		return nil, err
	}
	if len(chain) != ceilDiv(int(size), miniSectorSize) {
		return nil, fmt.Errorf("%w: %d mini sectors for %d bytes", ErrSizeMismatch, len(chain), size)
	}
	buf := make([]byte, 0, len(chain)*miniSectorSize)
	for _, s := range chain {
		off := int(s) * miniSectorSize
		end := min(off+miniSectorSize, len(c.miniStream))
		buf = append(buf, c.miniStream[off:end]...)
	}
	if int64(len(buf)) < size {
		return nil, fmt.Errorf("%w: mini chain holds %d of %d bytes", ErrSizeMismatch, len(buf), size)
	}
	return buf[:size], nil
}

func parseDirectory(raw []byte) []dirEntry {
	le := binary.LittleEndian
	n := len(raw) / dirEntrySize
	out := make([]dirEntry, n)
	for i := range n {
		b := raw[i*dirEntrySize : (i+1)*dirEntrySize]
		nameLen := int(le.Uint16(b[64:66]))
		if nameLen > 64 {
			nameLen = 64
		}
		units := make([]uint16, 0, 32)
		for j := 0; j+1 < nameLen; j += 2 {
			u := le.Uint16(b[j:])
			if u == 0 {
				break
			}
			units = append(units, u)
		}
		out[i] = dirEntry{
			name:  string(utf16.Decode(units)),
			typ:   EntryType(b[66]),
			left:  le.Uint32(b[68:72]),
			right: le.Uint32(b[72:76]),
			child: le.Uint32(b[76:80]),
			start: le.Uint32(b[116:120]),
			size:  le.Uint64(b[120:128]),
		}
	}
	return out
}

// walk visits the directory tree depth-first, siblings in tree order, and resolves
// every stream.
func (c *Container) walk(dir []dirEntry, sectorShift uint16) error {
	visited := make(map[uint32]bool)
	c.entries = append(c.entries, Entry{Type: TypeRoot, Name: dir[0].name, Size: dir[0].size, StartSector: dir[0].start})
	visited[0] = true

	var visitTree func(id uint32, parent string) error
	visitTree = func(id uint32, parent string) error {
		if id == noStream {
			return nil
		}
		if int(id) >= len(dir) || visited[id] {
			return fmt.Errorf("%w: directory entry %d", ErrFormat, id)
		}
		visited[id] = true
		d := dir[id]

		if err := visitTree(d.left, parent); err != nil {
			return err
		}

		path := d.name
		if parent != "" {
			path = parent + "/" + d.name
		}
		size := d.size
		if sectorShift == 9 {
			size &= 0xFFFFFFFF
		}
		e := Entry{Path: path, Name: d.name, Type: d.typ, Size: size, StartSector: d.start}

		switch d.typ {
		case TypeStream:
			data, err := c.readStreamData(d.start, size)
			if err != nil {
				return fmt.Errorf("stream %s: %w", path, err)
			}
			c.streams[path] = data
			c.entries = append(c.entries, e)
		case TypeStorage:
			c.entries = append(c.entries, e)
			if err := visitTree(d.child, path); err != nil {
				return err
			}
		}

		return visitTree(d.right, parent)
	}

	return visitTree(dir[0].child, "")
}

func (c *Container) readStreamData(start uint32, size uint64) ([]byte, error) {
	if size == 0 {
		return []byte{}, nil
	}
	if size > uint64(len(c.data)) {
		return nil, fmt.Errorf("%w: declared %d bytes in a %d byte file", ErrSizeMismatch, size, len(c.data))
	}
	if size < miniStreamCutoff {
		return c.readMiniChain(start, int64(size))
	}
	return c.readRegularChain(start, int64(size))
}

// ReadStream returns the bytes of the stream at path ("BodyText/Section0").
// The returned slice must not be modified.
func (c *Container) ReadStream(path string) ([]byte, error) {
	data, ok := c.streams[cleanPath(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	return data, nil
}

// Exists reports whether a stream exists at path.
func (c *Container) Exists(path string) bool {
	_, ok := c.streams[cleanPath(path)]
	return ok
}

// Entries returns the directory entries depth-first, the root entry first.
func (c *Container) Entries() []Entry {
	return c.entries
}

// Streams returns the paths of all streams in directory order.
func (c *Container) Streams() []string {
	var paths []string
	for _, e := range c.entries {
		if e.IsStream() {
			paths = append(paths, e.Path)
		}
	}
	return paths
}

// Map returns a path to bytes copy of every stream, suitable for Build.
func (c *Container) Map() map[string][]byte {
	out := make(map[string][]byte, len(c.streams))
	for k, v := range c.streams {
		out[k] = v
	}
	return out
}

// SectorSize returns the container's regular sector size in bytes.
func (c *Container) SectorSize() int {
	return c.sectorSize
}

func bytesToUint32s(b []byte) []uint32 {
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return out
}
