// Package writer serializes hwp5 documents into HWP 5.x compound files.
package writer

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/roboco-io/hwpkit/internal/cfb"
	"github.com/roboco-io/hwpkit/internal/parser/hwp5"
)

// ErrIncompleteDocument is returned for a document without header or DocInfo.
var ErrIncompleteDocument = errors.New("writer: document has no header or DocInfo")

type options struct {
	caps         Capabilities
	distribution bool
	log          *zap.Logger
}

// Option configures Serialize and Write.
type Option func(*options)

// WithCapabilities replaces the default capability table.
func WithCapabilities(c Capabilities) Option {
	return func(o *options) {
		o.caps = c
	}
}

// WithDistribution writes a distribution document: sections go to ViewText and are
// encrypted. The output is always compressed.
func WithDistribution(on bool) Option {
	return func(o *options) {
		o.distribution = on
	}
}

// WithLogger receives debug output.
func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// Serialize encodes doc. BinData payloads are deflated when their BIN_DATA entry or the
// file header asks for it. ID_MAPPINGS is recomputed from the table lengths.
func Serialize(doc *hwp5.Document, opts ...Option) ([]byte, error) {
	o := options{caps: DefaultCapabilities(), log: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}
	if doc == nil || doc.Header == nil || doc.DocInfo == nil {
		return nil, ErrIncompleteDocument
	}
	if doc.Header.IsEncrypted() {
		return nil, fmt.Errorf("%w: password encryption", hwp5.ErrUnsupportedFeature)
	}
	if err := o.caps.Check(doc); err != nil {
		return nil, err
	}

	fh := *doc.Header
	if o.distribution {
		fh.Flags |= hwp5.FlagDistributable | hwp5.FlagCompressed
	}
	storage := hwp5.StreamBodyText
	if fh.IsDistributable() {
		storage = hwp5.StreamViewText
	}

	streams := map[string][]byte{hwp5.StreamFileHeader: fh.Encode()}

	docInfo, err := pack(&fh, hwp5.EncodeDocInfo(doc.DocInfo, len(doc.Sections)), false)
	if err != nil {
		return nil, fmt.Errorf("stream %s: %w", hwp5.StreamDocInfo, err)
	}
	streams[hwp5.StreamDocInfo] = docInfo

	for i, sec := range doc.Sections {
		name := fmt.Sprintf("%s/Section%d", storage, i)
		data, err := pack(&fh, hwp5.EncodeSection(sec), fh.IsDistributable())
		if err != nil {
			return nil, fmt.Errorf("stream %s: %w", name, err)
		}
		streams[name] = data
	}

	if err := binData(streams, &fh, doc); err != nil {
		return nil, err
	}
	if doc.PreviewText != "" {
		streams[hwp5.StreamPrvText] = hwp5.EncodeText(doc.PreviewText)
	}
	if len(doc.PreviewImage) > 0 {
		streams[hwp5.StreamPrvImage] = doc.PreviewImage
	}
	if doc.Summary != nil && len(doc.Summary.Raw) > 0 {
		streams[hwp5.StreamSummaryInfo] = doc.Summary.Raw
	}

	out, err := cfb.Build(streams)
	if err != nil {
		return nil, err
	}
	o.log.Debug("document serialized",
		zap.Int("streams", len(streams)),
		zap.Int("sections", len(doc.Sections)),
		zap.Bool("distribution", fh.IsDistributable()),
		zap.Int("bytes", len(out)))
	return out, nil
}

// Write serializes doc to path.
func Write(path string, doc *hwp5.Document, opts ...Option) error {
	data, err := Serialize(doc, opts...)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// pack compresses and, for distribution sections, encrypts a record stream.
func pack(fh *hwp5.FileHeader, data []byte, encrypt bool) ([]byte, error) {
	var err error
	if fh.IsCompressed() {
		if data, err = hwp5.Deflate(data); err != nil {
			return nil, err
		}
	}
	if encrypt {
		return hwp5.EncryptDistribution(data)
	}
	return data, nil
}

func binData(streams map[string][]byte, fh *hwp5.FileHeader, doc *hwp5.Document) error {
	for _, info := range doc.DocInfo.BinData {
		name := info.StreamName()
		if name == "" || info.Type() == hwp5.BinDataLink {
			continue
		}
		data, ok := doc.BinData[name]
		if !ok {
			return fmt.Errorf("%w: %s/%s not loaded", hwp5.ErrMissingStream, hwp5.StreamBinData, name)
		}
		if hwp5.BinDataCompressed(fh, info) {
			var err error
			if data, err = hwp5.Deflate(data); err != nil {
				return fmt.Errorf("stream %s/%s: %w", hwp5.StreamBinData, name, err)
			}
		}
		streams[hwp5.StreamBinData+"/"+name] = data
	}
	return nil
}
