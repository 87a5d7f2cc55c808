package cfb

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"testing"

	"github.com/richardlehane/mscfb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStreams() map[string][]byte {
	return map[string][]byte{
		"FileHeader":                bytes.Repeat([]byte{0x48}, 256),
		"DocInfo":                   bytes.Repeat([]byte("docinfo"), 50),
		"BodyText/Section0":         bytes.Repeat([]byte("section zero "), 700),
		"BodyText/Section1":         {1, 2, 3},
		"BinData/BIN0001.png":       bytes.Repeat([]byte{0x89, 0x50}, 3000),
		"BinData/BIN0002.jpg":       bytes.Repeat([]byte{0xFF, 0xD8}, 2048),
		"\x05HwpSummaryInformation": bytes.Repeat([]byte{5}, 4096),
		"Empty":                     {},
	}
}

func TestBuildOpen_RoundTrip(t *testing.T) {
	in := sampleStreams()

	data, err := Build(in)
	require.NoError(t, err)
	assert.Equal(t, 0, len(data)%512)

	c, err := Open(data)
	require.NoError(t, err)
	assert.Equal(t, 512, c.SectorSize())
	assert.Equal(t, in, c.Map())

	for path, want := range in {
		got, err := c.ReadStream(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
		assert.True(t, c.Exists("/"+path))
	}

	entries := c.Entries()
	require.NotEmpty(t, entries)
	assert.Equal(t, TypeRoot, entries[0].Type)

	_, err = c.ReadStream("BodyText/Section9")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBuild_MscfbOracle(t *testing.T) {
	in := sampleStreams()
	data, err := Build(in)
	require.NoError(t, err)

	r, err := mscfb.New(bytes.NewReader(data))
	require.NoError(t, err)

	seen := map[string][]byte{}
	for f, err := r.Next(); err == nil; f, err = r.Next() {
		path := mscfbPath(f)
		buf, err := io.ReadAll(f)
		require.NoError(t, err, path)
		seen[path] = buf
	}

	for path, want := range in {
		if len(want) == 0 {
			continue
		}
		got, ok := seen[path]
		require.True(t, ok, "mscfb did not list %q", path)
		assert.True(t, bytes.Equal(want, got), path)
	}
}

func TestHWPStreamNames(t *testing.T) {
	tests := []struct {
		name string
		path string
		data []byte
	}{
		{"summary information", "\x05HwpSummaryInformation", bytes.Repeat([]byte{0x05}, 300)},
		{"body section", "BodyText/Section0", bytes.Repeat([]byte("본문 "), 100)},
		{"bin data", "BinData/BIN0001.jpg", bytes.Repeat([]byte{0xFF, 0xD8}, 2500)},
		{"mini stream cutoff", "Exact", bytes.Repeat([]byte{0x11}, 4096)},
		{"below cutoff", "Below", bytes.Repeat([]byte{0x22}, 4095)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := map[string][]byte{
				"FileHeader": bytes.Repeat([]byte{0x48}, 256),
				tt.path:      tt.data,
			}
			data, err := Build(in)
			require.NoError(t, err)

			c, err := Open(data)
			require.NoError(t, err)
			got, err := c.ReadStream(tt.path)
			require.NoError(t, err)
			assert.True(t, bytes.Equal(tt.data, got))

			r, err := mscfb.New(bytes.NewReader(data))
			require.NoError(t, err)
			found := false
			for f, err := r.Next(); err == nil; f, err = r.Next() {
				if mscfbPath(f) != tt.path {
					continue
				}
				found = true
				buf, err := io.ReadAll(f)
				require.NoError(t, err)
				assert.True(t, bytes.Equal(tt.data, buf))
			}
			assert.True(t, found, "mscfb did not list %q", tt.path)

			mismatches, err := Verify(data)
			require.NoError(t, err)
			assert.Empty(t, mismatches)
		})
	}
}

func TestEntries_SiblingOrder(t *testing.T) {
	data, err := Build(map[string][]byte{
		"BB": {1}, "A": {2}, "CCC": {3}, "c": {4}, "aa": {5},
	})
	require.NoError(t, err)
	c, err := Open(data)
	require.NoError(t, err)

	// 짧은 이름 먼저, 같은 길이는 대문자 비교
	assert.Equal(t, []string{"A", "c", "aa", "BB", "CCC"}, c.Streams())
}

func TestCompareNames(t *testing.T) {
	assert.Negative(t, compareNames("Z", "AA"))
	assert.Zero(t, compareNames("abc", "ABC"))
	assert.Positive(t, compareNames("Section1", "Section0"))
}

func TestBuild_InvalidPaths(t *testing.T) {
	_, err := Build(map[string][]byte{"a/b": {1}, "a": {2}})
	assert.ErrorIs(t, err, ErrFormat)

	_, err = Build(map[string][]byte{strings.Repeat("n", 32): {1}})
	assert.ErrorIs(t, err, ErrFormat)
}

func TestOpen_BadMagic(t *testing.T) {
	data, err := Build(sampleStreams())
	require.NoError(t, err)
	data[0] ^= 0xFF

	_, err = Open(data)
	assert.ErrorIs(t, err, ErrBadMagic)

	_, err = Open([]byte("short"))
	assert.ErrorIs(t, err, ErrBadMagic)
}

// firstFATSector returns the file offset of the first FAT sector.
func firstFATSector(data []byte) int {
	s := binary.LittleEndian.Uint32(data[76:])
	return int(s+1) * 512
}

func entryFor(t *testing.T, data []byte, path string) (Entry, int) {
	t.Helper()
	c, err := Open(data)
	require.NoError(t, err)
	for _, e := range c.Entries() {
		if e.Path == path {
			// 디렉터리 엔트리 위치: 이름(UTF-16)으로 찾는다
			name := make([]byte, 0, 64)
			for _, r := range e.Name {
				name = binary.LittleEndian.AppendUint16(name, uint16(r))
			}
			dirStart := int(binary.LittleEndian.Uint32(data[48:])+1) * 512
			off := bytes.Index(data[dirStart:], append(name, 0, 0))
			require.GreaterOrEqual(t, off, 0)
			return e, dirStart + off
		}
	}
	t.Fatalf("entry %s not found", path)
	return Entry{}, 0
}

func TestOpen_SelfLoop(t *testing.T) {
	data, err := Build(map[string][]byte{"Big": bytes.Repeat([]byte{7}, 5000)})
	require.NoError(t, err)

	e, _ := entryFor(t, data, "Big")
	fat := firstFATSector(data)
	binary.LittleEndian.PutUint32(data[fat+int(e.StartSector)*4:], e.StartSector)

	_, err = Open(data)
	assert.ErrorIs(t, err, ErrCorruptChain)
}

func TestOpen_OutOfRangeSector(t *testing.T) {
	data, err := Build(map[string][]byte{"Big": bytes.Repeat([]byte{7}, 5000)})
	require.NoError(t, err)

	e, _ := entryFor(t, data, "Big")
	fat := firstFATSector(data)
	binary.LittleEndian.PutUint32(data[fat+int(e.StartSector)*4:], 0x00FFFFFF)

	_, err = Open(data)
	assert.ErrorIs(t, err, ErrCorruptChain)
}

func TestOpen_SizeMismatch(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		newSize uint64
	}{
		{"regular chain too short", 5000, 6000},
		{"regular chain with slack", 5000, 4097},
		{"mini chain too short", 100, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Build(map[string][]byte{"S": bytes.Repeat([]byte{1}, tt.size)})
			require.NoError(t, err)

			_, off := entryFor(t, data, "S")
			binary.LittleEndian.PutUint64(data[off+120:], tt.newSize)

			_, err = Open(data)
			assert.ErrorIs(t, err, ErrSizeMismatch)
		})
	}
}

func TestOpen_InflatedFATCount(t *testing.T) {
	data, err := Build(sampleStreams())
	require.NoError(t, err)
	binary.LittleEndian.PutUint32(data[44:], 0xFFFFFFFF)

	_, err = Open(data)
	assert.ErrorIs(t, err, ErrCorruptChain)
}

func TestBuild_UsesDIFAT(t *testing.T) {
	if testing.Short() {
		t.Skip("large container")
	}
	// 109개를 넘는 FAT 섹터: 8 MiB 스트림
	big := bytes.Repeat([]byte{0xAB}, 8<<20)
	data, err := Build(map[string][]byte{"Huge": big, "Small": {1}})
	require.NoError(t, err)

	assert.NotZero(t, binary.LittleEndian.Uint32(data[72:]), "DIFAT sector count")

	c, err := Open(data)
	require.NoError(t, err)
	got, err := c.ReadStream("Huge")
	require.NoError(t, err)
	assert.True(t, bytes.Equal(big, got))
}

func TestVerify(t *testing.T) {
	data, err := Build(sampleStreams())
	require.NoError(t, err)

	mismatches, err := Verify(data)
	require.NoError(t, err)
	assert.Empty(t, mismatches)

	_, err = Verify([]byte("not a compound file"))
	assert.Error(t, err)
}
