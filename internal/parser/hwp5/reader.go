package hwp5

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/roboco-io/hwpkit/internal/cfb"
)

// ReadFile reads an HWP 5.x document from disk.
func ReadFile(path string, opts ...Option) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	data := make([]byte, info.Size())
	if _, err := f.ReadAt(data, 0); err != nil {
		return nil, err
	}
	return Read(data, opts...)
}

// Read decodes a document from the bytes of its compound file.
func Read(data []byte, opts ...Option) (*Document, error) {
	c, err := cfb.Open(data)
	if err != nil {
		return nil, err
	}
	return ReadContainer(c, opts...)
}

// ReadContainer decodes a document from an already opened compound file.
func ReadContainer(c *cfb.Container, opts ...Option) (*Document, error) {
	o := newReadOptions(opts)
	log := o.log

	header, err := c.ReadStream(StreamFileHeader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingStream, StreamFileHeader)
	}
	fh, err := ParseFileHeader(header)
	if err != nil {
		return nil, err
	}
	if err := fh.Validate(); err != nil {
		return nil, err
	}
	log.Debug("file header",
		zap.String("version", fh.Version.String()),
		zap.Strings("flags", fh.FlagNames()))

	docInfo, err := readRecordStream(c, fh, StreamDocInfo, false)
	if err != nil {
		return nil, err
	}

	storage := StreamBodyText
	if fh.IsDistributable() {
		storage = StreamViewText
	}
	names := SectionStreams(c, storage)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s/Section0", ErrMissingStream, storage)
	}
	sections := make([][]byte, 0, len(names))
	for _, name := range names {
		data, err := readRecordStream(c, fh, name, fh.IsDistributable())
		if err != nil {
			return nil, err
		}
		sections = append(sections, data)
	}

	doc, err := Build(header, docInfo, sections, opts...)
	if err != nil {
		return nil, err
	}
	readOptional(c, doc, o)
	return doc, nil
}

// SectionStreams lists storage/SectionN streams in section number order.
func SectionStreams(c *cfb.Container, storage string) []string {
	type numbered struct {
		n    int
		name string
	}
	var found []numbered
	prefix := storage + "/Section"
	for _, p := range c.Streams() {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(p, prefix))
		if err != nil {
			continue
		}
		found = append(found, numbered{n, p})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f.name
	}
	return names
}

func readRecordStream(c *cfb.Container, fh *FileHeader, name string, encrypted bool) ([]byte, error) {
	data, err := c.ReadStream(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingStream, name)
	}
	if encrypted {
		if data, err = DecryptDistribution(data); err != nil {
			return nil, fmt.Errorf("stream %s: %w", name, err)
		}
	}
	if fh.IsCompressed() {
		if data, err = Inflate(data); err != nil {
			return nil, fmt.Errorf("stream %s: %w", name, err)
		}
	}
	return data, nil
}

// readOptional loads BinData, previews and summary information. Failures are
// logged and the stream is left out.
func readOptional(c *cfb.Container, doc *Document, o readOptions) {
	log := o.log

	if o.loadBinData {
		for _, info := range doc.DocInfo.BinData {
			name := info.StreamName()
			if name == "" || info.Type() == BinDataLink {
				continue
			}
			data, err := c.ReadStream(StreamBinData + "/" + name)
			if err != nil {
				log.Warn("bin data stream missing", zap.String("stream", name))
				continue
			}
			if BinDataCompressed(doc.Header, info) {
				out, err := Inflate(data)
				if err != nil {
					log.Warn("bin data inflate failed", zap.String("stream", name), zap.Error(err))
					continue
				}
				data = out
			}
			if doc.BinData == nil {
				doc.BinData = make(map[string][]byte)
			}
			doc.BinData[name] = clone(data)
		}
	}

	if data, err := c.ReadStream(StreamPrvText); err == nil {
		doc.PreviewText = DecodeText(data)
	}
	if data, err := c.ReadStream(StreamPrvImage); err == nil && len(data) > 0 {
		doc.PreviewImage = clone(data)
	}
	if data, err := c.ReadStream(StreamSummaryInfo); err == nil {
		s, err := ParseSummaryInfo(data)
		if err != nil {
			log.Warn("summary information ignored", zap.Error(err))
		} else {
			doc.Summary = s
		}
	}
}

// BinDataCompressed reports whether a BinData stream is stored deflated.
func BinDataCompressed(fh *FileHeader, info *BinDataInfo) bool {
	switch info.Compression() {
	case 1:
		return true
	case 2:
		return false
	}
	return fh.IsCompressed()
}
